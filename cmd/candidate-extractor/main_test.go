package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/a3tai/candidate-form-extractor/internal/config"
	"github.com/a3tai/candidate-form-extractor/internal/pdf"
	"github.com/a3tai/candidate-form-extractor/internal/pdf/pdftest"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.InputDir = filepath.Join(root, "INPUT")
	cfg.OutputDir = filepath.Join(root, "OUTPUT")
	return cfg
}

func TestPrintVersion(t *testing.T) {
	oldVersion, oldBuildTime, oldGitCommit := version, buildTime, gitCommit
	defer func() {
		version, buildTime, gitCommit = oldVersion, oldBuildTime, oldGitCommit
	}()
	version = "1.2.3"
	buildTime = "2026-01-01_10:30:00"
	gitCommit = "abc123"

	var buf bytes.Buffer
	printVersion(&buf)

	for _, expected := range []string{
		"Candidate Extractor",
		"Version: 1.2.3",
		"Build Time: 2026-01-01_10:30:00",
		"Git Commit: abc123",
		"Built with:",
	} {
		assert.Contains(t, buf.String(), expected)
	}
}

func TestRunBatch_MissingInputDirectory(t *testing.T) {
	cfg := testConfig(t)

	var out bytes.Buffer
	err := runBatch(context.Background(), cfg, pdf.NewReader(0), zap.NewNop(), &out)
	require.NoError(t, err)

	assert.Equal(t,
		"Input directory not exists! Please check out the name and then try again! : 'INPUT'\n",
		out.String())
	assert.NoDirExists(t, cfg.OutputDir)
}

func TestRunBatch_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.InputDir, 0o755))
	formPath := pdftest.WriteFile(t, cfg.InputDir, "asha.pdf",
		pdftest.RegistrationPage("Asha Rao", "asha@example.com", "Bihar", "9876543210", "9123456780"))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.InputDir, "cover-letter.docx"), []byte("x"), 0o644))

	var out bytes.Buffer
	err := runBatch(context.Background(), cfg, pdf.NewReader(0), zap.NewNop(), &out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{
		"Started!",
		"Working on ... " + formPath,
		"Result Saved!",
		"Total : 1",
		"Success : 1",
		"Failed : 0",
	}, lines)

	f, err := os.Open(filepath.Join(cfg.OutputDir, "output.csv"))
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{
		"", "(Candidate's Name)", "(Email, Address)", "(State)",
		"(Mobile Number)", "(Emergency Mobile Number)", "File_Name (Optional)",
	}, records[0])
	assert.Equal(t, []string{
		"1", "Asha Rao", "asha@example.com", "Bihar",
		"[ 9876543210 ]", "[ 9123456780 ]", "asha.pdf",
	}, records[1])
}

func TestRunBatch_EmptyInputDirectory(t *testing.T) {
	cfg := testConfig(t)
	cfg.Formats = []string{"csv", "xlsx"}
	require.NoError(t, os.MkdirAll(cfg.InputDir, 0o755))

	var out bytes.Buffer
	require.NoError(t, runBatch(context.Background(), cfg, pdf.NewReader(0), zap.NewNop(), &out))

	assert.Contains(t, out.String(), "Total : 0")
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "output.csv"))
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "output.xlsx"))
}

func TestRunBatch_Cancelled(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.InputDir, 0o755))
	pdftest.WriteFile(t, cfg.InputDir, "a.pdf", []string{"| (State) Goa"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := runBatch(ctx, cfg, pdf.NewReader(0), zap.NewNop(), &out)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotContains(t, out.String(), "Result Saved!")
}

func TestRunBatch_LogsConfigOnlyWhenDebug(t *testing.T) {
	for _, level := range []string{"debug", "info"} {
		t.Run(level, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.LogLevel = level
			require.NoError(t, os.MkdirAll(cfg.InputDir, 0o755))

			core, logs := observer.New(zapcore.DebugLevel)
			var out bytes.Buffer
			require.NoError(t, runBatch(context.Background(), cfg, pdf.NewReader(0), zap.New(core), &out))

			entries := logs.FilterMessage("starting batch").All()
			if level == "debug" {
				require.Len(t, entries, 1)
				assert.Contains(t, entries[0].ContextMap()["config"], "LogLevel")
			} else {
				assert.Empty(t, entries)
			}
		})
	}
}
