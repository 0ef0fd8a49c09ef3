// File path: internal/catalog/types.go
package catalog

import "time"

// Conversion statuses persisted in the catalog.
const (
	StatusConverted = "converted"
	StatusFailed    = "failed"
)

// Conversion represents one recorded conversion run.
type Conversion struct {
	ID            int64     `db:"id" json:"id"`
	Component     string    `db:"component" json:"component"`
	SourcePath    string    `db:"source_path" json:"source_path,omitempty"`
	ClassPath     string    `db:"class_path" json:"class_path,omitempty"`
	TemplatePath  string    `db:"template_path" json:"template_path,omitempty"`
	StylePath     string    `db:"style_path" json:"style_path,omitempty"`
	States        int       `db:"states" json:"states"`
	Methods       int       `db:"methods" json:"methods"`
	Events        int       `db:"events" json:"events"`
	Lists         int       `db:"lists" json:"lists"`
	Conditionals  int       `db:"conditionals" json:"conditionals"`
	Inputs        int       `db:"inputs" json:"inputs"`
	FallbackCount int       `db:"fallback_count" json:"fallback_count"`
	Status        string    `db:"status" json:"status"`
	Error         string    `db:"error" json:"error,omitempty"`
	DurationMS    int64     `db:"duration_ms" json:"duration_ms"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// FallbackRecord represents one persisted fallback block for a conversion.
type FallbackRecord struct {
	ID           int64     `db:"id" json:"id"`
	ConversionID int64     `db:"conversion_id" json:"conversion_id"`
	Reason       string    `db:"reason" json:"reason"`
	Snippet      string    `db:"snippet" json:"snippet,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ReasonCount aggregates fallback occurrences per reason tag.
type ReasonCount struct {
	Reason      string `db:"reason" json:"reason"`
	Occurrences int64  `db:"occurrences" json:"occurrences"`
}
