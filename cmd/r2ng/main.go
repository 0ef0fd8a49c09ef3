// File path: cmd/r2ng/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/advisor"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/api"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/catalog"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/common"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/common/telemetry"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/converter"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/llm"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/workflow"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/workspace"
)

func main() {
	logger := common.Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		logger.Warn("r2ng: .env file not loaded", "error", err)
	} else {
		logger.Info("r2ng: environment loaded from .env")
	}

	input := flag.String("in", "", "React source file or directory to convert")
	output := flag.String("out", envDefault("R2NG_OUTPUT_DIR", "output"), "directory for generated Angular artifacts")
	name := flag.String("name", "", "component name override for single-file conversions")
	advise := flag.Bool("advise", false, "request migration notes for preserved fragments")
	serve := flag.Bool("serve", false, "run the HTTP API instead of a one-shot conversion")
	addr := flag.String("addr", envDefault("R2NG_ADDR", ":8084"), "listen address for -serve")
	dbPath := flag.String("db", envDefault("R2NG_DB_PATH", defaultCatalogPath()), "path to the SQLite conversion catalog")
	flag.Parse()

	store, err := openCatalog(*dbPath)
	if err != nil {
		logger.Error("r2ng: catalog open failed", "path", *dbPath, "error", err)
		fmt.Println("catalog error:", err)
		os.Exit(1)
	}
	defer store.Close()

	if *serve {
		runServer(store, *addr)
		return
	}

	if strings.TrimSpace(*input) == "" {
		flag.Usage()
		fmt.Println("missing -in: provide a React source file or directory")
		os.Exit(2)
	}

	info, err := os.Stat(*input)
	if err != nil {
		logger.Error("r2ng: input not accessible", "path", *input, "error", err)
		fmt.Println("input error:", err)
		os.Exit(1)
	}

	if info.IsDir() {
		runBatch(ctx, store, *input, *output, *advise)
		return
	}
	runSingle(ctx, store, *input, *output, *name, *advise)
}

func runServer(store *catalog.Store, addr string) {
	logger := common.Logger()
	server, err := api.NewServer(store, nil, nil)
	if err != nil {
		logger.Error("r2ng: server construction failed", "error", err)
		fmt.Println("server error:", err)
		os.Exit(1)
	}
	logger.Info("r2ng: server listening", "addr", addr, "health", "/healthz")
	fmt.Printf("Serving on %s\n", addr)
	reachable := addr
	if strings.HasPrefix(reachable, ":") {
		reachable = "localhost" + reachable
	}
	logger.Info("r2ng: verify reachability", "suggestion", fmt.Sprintf("curl http://%s/healthz", reachable))
	if err := http.ListenAndServe(addr, server); err != nil {
		logger.Error("r2ng: server stopped", "error", err)
		fmt.Println("server stopped:", err)
	}
}

func runBatch(ctx context.Context, store *catalog.Store, inputDir, outputDir string, advise bool) {
	logger := common.Logger()
	runner := workflow.NewRunner(store, advisor.New(llm.NewProvider()))
	summary, err := runner.Run(ctx, workflow.Request{
		InputDir:  inputDir,
		OutputDir: outputDir,
		Advise:    advise,
	})
	if err != nil {
		logger.Error("r2ng: batch failed", "input", inputDir, "error", err)
		fmt.Println("batch error:", err)
		os.Exit(1)
	}

	fmt.Printf("Converted %d component(s), %d failed, %d fallback(s) in %dms\n",
		summary.Converted, summary.Failed, summary.TotalFallbacks, summary.DurationMS)
	for _, file := range summary.Files {
		line := fmt.Sprintf("  %-9s %s", file.Status, file.Source)
		if file.Error != "" {
			line += "  (" + file.Error + ")"
		}
		fmt.Println(line)
		for _, note := range file.Notes {
			fmt.Printf("    note [%s]: %s\n", note.Reason, note.Guidance)
		}
	}
	if summary.Failed > 0 {
		os.Exit(1)
	}
}

func runSingle(ctx context.Context, store *catalog.Store, sourcePath, outputDir, name string, advise bool) {
	logger := common.Logger()
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		logger.Error("r2ng: read source failed", "path", sourcePath, "error", err)
		fmt.Println("read error:", err)
		os.Exit(1)
	}

	start := time.Now()
	result, err := converter.Convert(ctx, string(data), converter.Options{Name: name})
	if err != nil {
		recordFailure(ctx, store, name, sourcePath, err, time.Since(start))
		logger.Error("r2ng: conversion failed", "path", sourcePath, "error", err)
		fmt.Println("conversion error:", err)
		os.Exit(1)
	}
	elapsed := time.Since(start)

	names := workspace.Naming(result.Component)
	if err := workspace.WriteArtifacts(outputDir, result, names); err != nil {
		logger.Error("r2ng: write artifacts failed", "dir", outputDir, "error", err)
		fmt.Println("write error:", err)
		os.Exit(1)
	}
	recordSuccess(ctx, store, result, sourcePath, outputDir, names, elapsed)

	fmt.Printf("Converted %s -> %s, %s\n",
		result.Component,
		filepath.Join(outputDir, names.ClassFile),
		filepath.Join(outputDir, names.TemplateFile))
	if n := len(result.Report.Fallbacks); n > 0 {
		fmt.Printf("%d construct(s) preserved as fallback blocks\n", n)
	}

	if advise && len(result.Report.Fallbacks) > 0 {
		adv := advisor.New(llm.NewProvider())
		for _, note := range adv.Advise(ctx, result.Component, result.Report.Fallbacks) {
			fmt.Printf("  note [%s]: %s\n", note.Reason, note.Guidance)
		}
	}
}

func recordSuccess(ctx context.Context, store *catalog.Store, result *converter.Result, sourcePath, outputDir string, names workspace.Names, elapsed time.Duration) {
	telemetry.RecordConversion(false, len(result.Report.Fallbacks), elapsed)
	fallbacks := make([]catalog.FallbackRecord, 0, len(result.Report.Fallbacks))
	for _, fb := range result.Report.Fallbacks {
		telemetry.RecordFallbackReason(string(fb.Reason))
		fallbacks = append(fallbacks, catalog.FallbackRecord{
			Reason:  string(fb.Reason),
			Snippet: fb.Snippet,
		})
	}
	rec := catalog.Conversion{
		Component:     result.Component,
		SourcePath:    sourcePath,
		ClassPath:     filepath.Join(outputDir, names.ClassFile),
		TemplatePath:  filepath.Join(outputDir, names.TemplateFile),
		StylePath:     filepath.Join(outputDir, names.StyleFile),
		States:        result.Report.States,
		Methods:       result.Report.Methods,
		Events:        result.Report.Events,
		Lists:         result.Report.Lists,
		Conditionals:  result.Report.Conditionals,
		Inputs:        result.Report.Inputs,
		FallbackCount: len(result.Report.Fallbacks),
		Status:        catalog.StatusConverted,
		DurationMS:    elapsed.Milliseconds(),
	}
	if _, err := store.RecordConversion(ctx, rec, fallbacks); err != nil {
		common.Logger().Warn("r2ng: record conversion failed", "component", result.Component, "error", err)
	}
}

func recordFailure(ctx context.Context, store *catalog.Store, name, sourcePath string, cause error, elapsed time.Duration) {
	telemetry.RecordConversion(true, 0, elapsed)
	component := strings.TrimSpace(name)
	if component == "" {
		component = strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	}
	rec := catalog.Conversion{
		Component:  component,
		SourcePath: sourcePath,
		Status:     catalog.StatusFailed,
		Error:      cause.Error(),
		DurationMS: elapsed.Milliseconds(),
	}
	if _, err := store.RecordConversion(ctx, rec, nil); err != nil {
		common.Logger().Warn("r2ng: record failure failed", "component", component, "error", err)
	}
}

func openCatalog(path string) (*catalog.Store, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("catalog path required")
	}
	if dir := filepath.Dir(trimmed); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create catalog directory: %w", err)
		}
	}
	return catalog.Open(trimmed)
}

func envDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func defaultCatalogPath() string {
	return filepath.Join("data", "r2ng.db")
}
