package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/a3tai/candidate-form-extractor/internal/batch"
	"github.com/a3tai/candidate-form-extractor/internal/config"
	"github.com/a3tai/candidate-form-extractor/internal/descriptions"
	"github.com/a3tai/candidate-form-extractor/internal/pdf"
	"github.com/a3tai/candidate-form-extractor/internal/report"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	reader    *pdf.Reader
	logger    *zap.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, reader *pdf.Reader, logger *zap.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if reader == nil {
		return nil, fmt.Errorf("reader cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		reader:    reader,
		logger:    logger,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	extractTool := mcp.NewTool(
		descriptions.ExtractCandidateFields,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ExtractCandidateFields)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(extractTool, s.handleExtractCandidateFields)

	batchTool := mcp.NewTool(
		descriptions.RunCandidateBatch,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.RunCandidateBatch)),
		mcp.WithString("directory",
			mcp.Description("Directory containing the PDF forms (uses the configured input directory if empty)"),
		),
	)
	s.mcpServer.AddTool(batchTool, s.handleRunCandidateBatch)
}

func (s *Server) runner() *batch.Runner {
	return batch.NewRunner(s.reader,
		batch.WithWorkers(s.config.Workers),
		batch.WithLogger(s.logger),
	)
}

// Handler functions
func (s *Server) handleExtractCandidateFields(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res := s.runner().Process(ctx, path)
	if res.Err != nil {
		return mcp.NewToolResultError(res.Err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatResult(res)), nil
}

func (s *Server) handleRunCandidateBatch(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	directory := s.config.InputDir // default
	if dir, ok := args["directory"].(string); ok && dir != "" {
		directory = dir
	}

	summary, err := s.runner().Run(ctx, directory)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	writer, err := report.NewWriter(s.config.OutputDir, s.config.OutputName, s.config.Formats)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	written, err := writer.Write(report.New(summary))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSummary(summary, written)), nil
}

func (s *Server) formatResult(res batch.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\n", res.Path)
	fmt.Fprintf(&b, "Pages: %d\n", res.Pages)
	if info, err := s.reader.Inspect(res.Path); err == nil {
		fmt.Fprintf(&b, "PDF Version: %s\n", info.Version)
		fmt.Fprintf(&b, "Encrypted: %t\n", info.Encrypted)
	}
	fmt.Fprintf(&b, "Complete: %t\n\n", res.OK())
	for _, v := range res.Values {
		if v.Found {
			fmt.Fprintf(&b, "%s %s\n", v.Key, v.Text)
		} else {
			fmt.Fprintf(&b, "%s (not found)\n", v.Key)
		}
	}
	return b.String()
}

func formatSummary(summary *batch.Summary, written []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Directory: %s\n", summary.Dir)
	fmt.Fprintf(&b, "Total : %d\n", summary.Total)
	fmt.Fprintf(&b, "Success : %d\n", summary.Success)
	fmt.Fprintf(&b, "Failed : %d\n", summary.Failed)

	var failed []batch.Result
	for _, res := range summary.Results {
		if !res.OK() {
			failed = append(failed, res)
		}
	}
	if len(failed) > 0 {
		b.WriteString("\nIncomplete forms:\n")
		for _, res := range failed {
			if res.Err != nil {
				fmt.Fprintf(&b, "  %s: %s\n", res.FileName, res.Err)
				continue
			}
			var keys []string
			for _, v := range res.Values {
				if !v.Found {
					keys = append(keys, string(v.Key))
				}
			}
			fmt.Fprintf(&b, "  %s: missing %s\n", res.FileName, strings.Join(keys, ", "))
		}
	}

	b.WriteString("\nReport:\n")
	for _, path := range written {
		fmt.Fprintf(&b, "  %s\n", path)
	}
	return b.String()
}

// Run serves the tools over standard I/O until stdin closes or ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve answers JSON-RPC messages read from in on out. Cancellation of ctx is
// a clean shutdown.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Debug("starting candidate MCP server in stdio mode",
		zap.String("input", s.config.InputDir),
		zap.String("output", s.config.OutputDir))

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(zap.NewStdLog(s.logger))

	if err := stdio.Listen(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
