// File path: internal/workflow/runner.go
package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/advisor"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/catalog"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/common"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/common/telemetry"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/converter"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/workspace"
)

var (
	ErrBatchRunning = errors.New("batch already running")
	ErrNoSources    = errors.New("no component sources found")
)

type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepRunning   StepStatus = "running"
	StepCompleted StepStatus = "completed"
	StepSkipped   StepStatus = "skipped"
	StepError     StepStatus = "error"
)

type Step struct {
	Name        string     `json:"name"`
	Status      StepStatus `json:"status"`
	Message     string     `json:"message,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Request describes one batch conversion over a directory tree.
type Request struct {
	InputDir  string `json:"input_dir"`
	OutputDir string `json:"output_dir"`
	Advise    bool   `json:"advise,omitempty"`
}

// FileResult reports the outcome for one discovered source file.
type FileResult struct {
	Source    string         `json:"source"`
	Component string         `json:"component,omitempty"`
	Status    string         `json:"status"`
	Error     string         `json:"error,omitempty"`
	Fallbacks int            `json:"fallbacks"`
	Notes     []advisor.Note `json:"notes,omitempty"`
}

// Summary aggregates a completed batch run.
type Summary struct {
	Converted      int          `json:"converted"`
	Failed         int          `json:"failed"`
	TotalFallbacks int          `json:"total_fallbacks"`
	DurationMS     int64        `json:"duration_ms"`
	Files          []FileResult `json:"files"`
	Steps          []Step       `json:"steps"`
}

// Runner executes batch conversions. One batch runs at a time.
type Runner struct {
	store   *catalog.Store
	advisor *advisor.Advisor

	mu      sync.Mutex
	running bool
	steps   []Step
}

func NewRunner(store *catalog.Store, adv *advisor.Advisor) *Runner {
	return &Runner{store: store, advisor: adv}
}

func newSteps() []Step {
	return []Step{
		{Name: "discover", Status: StepPending},
		{Name: "convert", Status: StepPending},
		{Name: "advise", Status: StepPending},
	}
}

// Run discovers component sources under the input directory, converts each,
// writes artifacts to the output directory, and records every outcome in the
// catalog. Per-file failures are reported in the summary, not returned.
func (r *Runner) Run(ctx context.Context, req Request) (*Summary, error) {
	if strings.TrimSpace(req.InputDir) == "" {
		return nil, fmt.Errorf("input dir required")
	}
	if strings.TrimSpace(req.OutputDir) == "" {
		return nil, fmt.Errorf("output dir required")
	}
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil, ErrBatchRunning
	}
	r.running = true
	r.steps = newSteps()
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	logger := common.Logger()
	ctx, done := telemetry.StartSpan(ctx, "workflow.batch")
	defer done()
	logger.Info("workflow: batch started", "input", req.InputDir, "output", req.OutputDir, "advise", req.Advise)

	r.setStep(0, StepRunning, "Discovering component sources")
	sources, err := workspace.Discover(req.InputDir)
	if err != nil {
		r.setStep(0, StepError, err.Error())
		telemetry.RecordBatch("failed")
		return nil, err
	}
	if len(sources) == 0 {
		r.setStep(0, StepError, ErrNoSources.Error())
		telemetry.RecordBatch("failed")
		return nil, ErrNoSources
	}
	r.setStep(0, StepCompleted, fmt.Sprintf("%d sources found", len(sources)))

	summary := &Summary{}
	blocks := make([][]converter.Fallback, 0, len(sources))

	r.setStep(1, StepRunning, "Converting components")
	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			r.setStep(1, StepError, err.Error())
			telemetry.RecordBatch("canceled")
			return nil, err
		}
		if err := telemetry.CheckMemoryBudget("workflow"); err != nil {
			r.setStep(1, StepError, err.Error())
			telemetry.RecordBatch("failed")
			return nil, err
		}
		file, fbs := r.convertFile(ctx, source, req.OutputDir)
		if file.Status == catalog.StatusConverted {
			summary.Converted++
		} else {
			summary.Failed++
		}
		summary.TotalFallbacks += file.Fallbacks
		summary.Files = append(summary.Files, file)
		blocks = append(blocks, fbs)
	}
	r.setStep(1, StepCompleted, fmt.Sprintf("%d converted, %d failed", summary.Converted, summary.Failed))

	switch {
	case !req.Advise:
		r.setStep(2, StepSkipped, "Advisor not requested")
	case r.advisor == nil:
		r.setStep(2, StepSkipped, "Advisor unavailable")
	default:
		r.setStep(2, StepRunning, "Collecting migration notes")
		noted := 0
		for i := range summary.Files {
			if summary.Files[i].Status != catalog.StatusConverted || len(blocks[i]) == 0 {
				continue
			}
			summary.Files[i].Notes = r.advisor.Advise(ctx, summary.Files[i].Component, blocks[i])
			noted++
		}
		r.setStep(2, StepCompleted, fmt.Sprintf("notes for %d components", noted))
	}

	summary.DurationMS = telemetry.SpanDuration(ctx).Milliseconds()
	summary.Steps = r.Status()
	telemetry.RecordBatch("completed")
	logger.Info("workflow: batch completed",
		"converted", summary.Converted, "failed", summary.Failed, "fallbacks", summary.TotalFallbacks)
	return summary, nil
}

// convertFile converts one source file and records the outcome. The returned
// fallback blocks feed the optional advise step.
func (r *Runner) convertFile(ctx context.Context, source, outDir string) (FileResult, []converter.Fallback) {
	logger := common.Logger()
	start := time.Now()
	component := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	file := FileResult{Source: source, Status: catalog.StatusFailed}

	fail := func(err error) (FileResult, []converter.Fallback) {
		elapsed := time.Since(start)
		file.Error = err.Error()
		logger.Warn("workflow: conversion failed", "source", source, "error", err)
		telemetry.RecordConversion(true, 0, elapsed)
		r.record(ctx, catalog.Conversion{
			Component:  component,
			SourcePath: source,
			Status:     catalog.StatusFailed,
			Error:      err.Error(),
			DurationMS: elapsed.Milliseconds(),
		}, nil)
		return file, nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return fail(err)
	}
	result, err := converter.Convert(ctx, string(data), converter.Options{})
	if err != nil {
		return fail(err)
	}
	component = result.Component
	file.Component = result.Component

	names := workspace.Naming(result.Component)
	if err := workspace.WriteArtifacts(outDir, result, names); err != nil {
		return fail(err)
	}

	elapsed := time.Since(start)
	file.Status = catalog.StatusConverted
	file.Fallbacks = len(result.Report.Fallbacks)
	telemetry.RecordConversion(false, file.Fallbacks, elapsed)

	fbs := make([]catalog.FallbackRecord, 0, len(result.Report.Fallbacks))
	for _, fb := range result.Report.Fallbacks {
		telemetry.RecordFallbackReason(string(fb.Reason))
		fbs = append(fbs, catalog.FallbackRecord{Reason: string(fb.Reason), Snippet: fb.Snippet})
	}
	r.record(ctx, catalog.Conversion{
		Component:     result.Component,
		SourcePath:    source,
		ClassPath:     filepath.Join(outDir, names.ClassFile),
		TemplatePath:  filepath.Join(outDir, names.TemplateFile),
		StylePath:     filepath.Join(outDir, names.StyleFile),
		States:        result.Report.States,
		Methods:       result.Report.Methods,
		Events:        result.Report.Events,
		Lists:         result.Report.Lists,
		Conditionals:  result.Report.Conditionals,
		Inputs:        result.Report.Inputs,
		FallbackCount: file.Fallbacks,
		Status:        catalog.StatusConverted,
		DurationMS:    elapsed.Milliseconds(),
	}, fbs)
	logger.Info("workflow: component converted",
		"component", result.Component, "source", source, "fallbacks", file.Fallbacks)
	return file, result.Report.Fallbacks
}

func (r *Runner) record(ctx context.Context, rec catalog.Conversion, fbs []catalog.FallbackRecord) {
	if r == nil || r.store == nil {
		return
	}
	if _, err := r.store.RecordConversion(ctx, rec, fbs); err != nil {
		common.Logger().Warn("workflow: record conversion failed", "component", rec.Component, "error", err)
	}
}

func (r *Runner) setStep(index int, status StepStatus, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index < 0 || index >= len(r.steps) {
		return
	}
	now := time.Now().UTC()
	step := &r.steps[index]
	switch status {
	case StepRunning:
		step.StartedAt = &now
	case StepCompleted, StepSkipped, StepError:
		if step.StartedAt == nil {
			step.StartedAt = &now
		}
		step.CompletedAt = &now
	}
	step.Status = status
	if message != "" {
		step.Message = message
	}
}

// Status returns a snapshot of the current batch steps.
func (r *Runner) Status() []Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	steps := make([]Step, len(r.steps))
	copy(steps, r.steps)
	return steps
}
