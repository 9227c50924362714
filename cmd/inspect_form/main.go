package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/a3tai/candidate-form-extractor/internal/fields"
	"github.com/a3tai/candidate-form-extractor/internal/logging"
	"github.com/a3tai/candidate-form-extractor/internal/normalize"
	"github.com/a3tai/candidate-form-extractor/internal/pdf"
)

var (
	diagnosticMode = flag.Bool("diagnostic", false, "Include raw and normalized text and container details")
	outputFormat   = flag.String("format", "text", "Output format: text, json")
	repair         = flag.Bool("repair", true, "Retry unparseable PDFs after rewriting them with pdfcpu")
	help           = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *help {
		printHelp(os.Stdout)
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: PDF file path required\n\n")
		printUsage(os.Stderr)
		os.Exit(1)
	}

	logLevel := "warn"
	if *diagnosticMode {
		logLevel = "debug"
	}
	logger, err := logging.New(logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	reader := pdf.NewReader(0, pdf.WithRepair(*repair), pdf.WithLogger(logger))
	result := inspectForm(context.Background(), reader, flag.Arg(0), *diagnosticMode)

	if err := outputResults(os.Stdout, result, *outputFormat); err != nil {
		fmt.Fprintf(os.Stderr, "Error outputting results: %v\n", err)
		os.Exit(1)
	}
	if !result.Success {
		os.Exit(1)
	}
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Inspect Form - show what the extractor reads from one registration form")
	fmt.Fprintln(out)
	printUsage(out)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "OPTIONS:")
	fmt.Fprintln(out, "  -diagnostic    Print the raw and normalized text and pdfcpu container details")
	fmt.Fprintln(out, "  -format        Output format: text (default), json")
	fmt.Fprintln(out, "  -repair        Retry unparseable PDFs after a pdfcpu rewrite (default true)")
	fmt.Fprintln(out, "  -help          Show this help message")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "EXAMPLES:")
	fmt.Fprintln(out, "  inspect_form INPUT/form.pdf")
	fmt.Fprintln(out, "  inspect_form -diagnostic -format json INPUT/form.pdf")
}

func printUsage(out io.Writer) {
	fmt.Fprintln(out, "USAGE:")
	fmt.Fprintln(out, "  inspect_form [OPTIONS] <pdf_file>")
}

// InspectionResult is what the extractor sees in one form.
type InspectionResult struct {
	FilePath    string          `json:"file_path"`
	Success     bool            `json:"success"`
	Complete    bool            `json:"complete"`
	Fields      []fields.Value  `json:"fields"`
	Diagnostics *DiagnosticInfo `json:"diagnostics,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// DiagnosticInfo holds the intermediate pipeline state.
type DiagnosticInfo struct {
	PDFVersion     string   `json:"pdf_version,omitempty"`
	PageCount      int      `json:"page_count"`
	Encrypted      bool     `json:"encrypted"`
	Repaired       bool     `json:"repaired"`
	RawText        string   `json:"raw_text"`
	NormalizedText string   `json:"normalized_text"`
	Parts          []string `json:"parts"`
	Warnings       []string `json:"warnings,omitempty"`
}

func inspectForm(ctx context.Context, reader *pdf.Reader, path string, diagnostic bool) *InspectionResult {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	result := &InspectionResult{FilePath: path}

	doc, err := reader.Read(ctx, path)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	text := normalize.Normalize(doc.Text())
	result.Success = true
	result.Fields = fields.Extract(text, fields.DefaultKeys())
	result.Complete = fields.Complete(result.Fields)

	if diagnostic {
		diag := &DiagnosticInfo{
			PageCount:      doc.PageCount(),
			Repaired:       doc.Repaired,
			RawText:        doc.Text(),
			NormalizedText: text,
			Parts:          strings.Split(text, normalize.Delimiter),
		}
		if info, err := reader.Inspect(path); err == nil {
			diag.PDFVersion = info.Version
			diag.Encrypted = info.Encrypted
		} else {
			diag.Warnings = append(diag.Warnings, err.Error())
		}
		for _, key := range fields.Missing(result.Fields) {
			diag.Warnings = append(diag.Warnings, fmt.Sprintf("label %s not found", key))
		}
		result.Diagnostics = diag
	}

	return result
}

func outputResults(out io.Writer, result *InspectionResult, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	case "text":
		outputText(out, result)
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func outputText(out io.Writer, result *InspectionResult) {
	if !result.Success {
		fmt.Fprintf(out, "Extraction failed: %s\n", result.Error)
		return
	}

	fmt.Fprintf(out, "File: %s\n", result.FilePath)
	fmt.Fprintf(out, "Complete: %t\n\n", result.Complete)
	for i, v := range result.Fields {
		if v.Found {
			fmt.Fprintf(out, "[%d] %s %q\n", i+1, v.Key, v.Text)
		} else {
			fmt.Fprintf(out, "[%d] %s (not found)\n", i+1, v.Key)
		}
	}

	diag := result.Diagnostics
	if diag == nil {
		return
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "DIAGNOSTIC SUMMARY")
	fmt.Fprintln(out, "==================")
	if diag.PDFVersion != "" {
		fmt.Fprintf(out, "PDF Version: %s\n", diag.PDFVersion)
	}
	fmt.Fprintf(out, "Page Count: %d\n", diag.PageCount)
	fmt.Fprintf(out, "Encrypted: %t\n", diag.Encrypted)
	fmt.Fprintf(out, "Repaired: %t\n", diag.Repaired)
	fmt.Fprintf(out, "\nNormalized text:\n%s\n", diag.NormalizedText)
	fmt.Fprintf(out, "\nParts (%d):\n", len(diag.Parts))
	for i, part := range diag.Parts {
		fmt.Fprintf(out, "  %2d: %q\n", i, part)
	}
	if len(diag.Warnings) > 0 {
		fmt.Fprintln(out, "\nWarnings:")
		for _, w := range diag.Warnings {
			fmt.Fprintf(out, "  %s\n", w)
		}
	}
}

func init() {
	flag.Usage = func() {
		printHelp(os.Stderr)
	}
}
