// File path: internal/catalog/queries.go
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// RecordConversion persists a conversion run with its fallback blocks and
// returns the new record identifier.
func (s *Store) RecordConversion(ctx context.Context, rec Conversion, fallbacks []FallbackRecord) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("catalog store not initialised")
	}
	if strings.TrimSpace(rec.Component) == "" {
		return 0, fmt.Errorf("conversion component required")
	}
	if strings.TrimSpace(rec.Status) == "" {
		rec.Status = StatusConverted
	}
	if rec.FallbackCount == 0 {
		rec.FallbackCount = len(fallbacks)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("begin record: %w", err)
	}
	res, err := tx.ExecContext(ctx, `INSERT INTO conversions (
                component, source_path, class_path, template_path, style_path,
                states, methods, events, lists, conditionals, inputs,
                fallback_count, status, error, duration_ms, created_at)
                VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Component, rec.SourcePath, rec.ClassPath, rec.TemplatePath, rec.StylePath,
		rec.States, rec.Methods, rec.Events, rec.Lists, rec.Conditionals, rec.Inputs,
		rec.FallbackCount, rec.Status, rec.Error, rec.DurationMS, rec.CreatedAt)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("insert conversion: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("conversion id: %w", err)
	}
	for _, fb := range fallbacks {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO fallbacks (conversion_id, reason, snippet, created_at) VALUES (?, ?, ?, ?)`,
			id, fb.Reason, fb.Snippet, rec.CreatedAt); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("insert fallback: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit record: %w", err)
	}
	return id, nil
}

// ListConversions returns the most recent conversion records, newest first.
func (s *Store) ListConversions(ctx context.Context, limit int) ([]Conversion, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("catalog store not initialised")
	}
	if limit <= 0 {
		limit = 50
	}
	conversions := []Conversion{}
	if err := s.db.SelectContext(ctx, &conversions,
		`SELECT * FROM conversions ORDER BY id DESC LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("select conversions: %w", err)
	}
	return conversions, nil
}

// ConversionByID retrieves a single conversion record with its fallbacks.
func (s *Store) ConversionByID(ctx context.Context, id int64) (*Conversion, []FallbackRecord, error) {
	if s == nil || s.db == nil {
		return nil, nil, fmt.Errorf("catalog store not initialised")
	}
	var conversion Conversion
	if err := s.db.GetContext(ctx, &conversion,
		`SELECT * FROM conversions WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("select conversion: %w", err)
	}
	fallbacks := []FallbackRecord{}
	if err := s.db.SelectContext(ctx, &fallbacks,
		`SELECT * FROM fallbacks WHERE conversion_id = ? ORDER BY id`, id); err != nil {
		return nil, nil, fmt.Errorf("select fallbacks: %w", err)
	}
	return &conversion, fallbacks, nil
}

// FallbackStats aggregates fallback occurrences grouped by reason tag.
func (s *Store) FallbackStats(ctx context.Context) ([]ReasonCount, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("catalog store not initialised")
	}
	stats := []ReasonCount{}
	if err := s.db.SelectContext(ctx, &stats,
		`SELECT reason, occurrences FROM fallback_reason_stats ORDER BY occurrences DESC, reason`); err != nil {
		return nil, fmt.Errorf("select fallback stats: %w", err)
	}
	return stats, nil
}

// PruneBefore deletes conversion records created before the cutoff and
// returns the number of rows removed. Fallbacks cascade.
func (s *Store) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("catalog store not initialised")
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM conversions WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune conversions: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune count: %w", err)
	}
	return affected, nil
}
