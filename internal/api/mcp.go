package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tailorcv/tailorcv/internal/profile"
	"github.com/tailorcv/tailorcv/internal/tailor"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Profile  *profile.Store
	Pipeline Tailorer
	History  HistoryRecorder // optional; if nil, runs are not recorded
}

// HistoryRecorder abstracts run recording for the MCP layer.
type HistoryRecorder interface {
	RecordRunResult(res tailor.Result)
}

// NewMCPServer creates an MCP server with all tailorcv tools registered.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"tailorcv",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("tailorcv tailors a stored candidate profile to job offers and generates resume PDFs."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("get_profile",
			mcp.WithDescription("Return the stored candidate profile as JSON."),
		),
		mcpGetProfile(deps),
	)

	s.AddTool(
		mcp.NewTool("tailor_resume",
			mcp.WithDescription("Tailor the stored profile to a job offer and generate a resume PDF."),
			mcp.WithString("offer", mcp.Description("Full job offer text"), mcp.Required()),
		),
		mcpTailorResume(deps),
	)

	s.AddTool(
		mcp.NewTool("record_note",
			mcp.WithDescription("Record an adaptation note on the profile under a job title."),
			mcp.WithString("title", mcp.Description("Job title the note applies to"), mcp.Required()),
			mcp.WithString("note", mcp.Description("The note text"), mcp.Required()),
		),
		mcpRecordNote(deps),
	)

	// Resources
	s.AddResource(
		mcp.NewResource(
			"profile://current",
			"Candidate Profile",
			mcp.WithResourceDescription("Current canonical candidate profile as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceProfile(deps),
	)

	return s
}

func mcpGetProfile(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		p, err := deps.Profile.Load()
		if err != nil {
			return mcpError(fmt.Sprintf("loading profile: %v", err)), nil
		}
		b, err := json.Marshal(p)
		if err != nil {
			return mcpError(fmt.Sprintf("encoding profile: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpTailorResume(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		offer, err := req.RequireString("offer")
		if err != nil {
			return mcpError("offer is required"), nil
		}

		res, err := deps.Pipeline.Run(ctx, offer)
		if err != nil {
			if errors.Is(err, profile.ErrNotFound) {
				return mcpError("no profile exists yet; run 'tailorcv prepare' first"), nil
			}
			return mcpError(fmt.Sprintf("tailoring failed: %v", err)), nil
		}
		if deps.History != nil {
			deps.History.RecordRunResult(res)
		}

		b, err := json.Marshal(map[string]string{
			"job_title":   res.JobTitle,
			"language":    string(res.Language),
			"output_file": res.OutputFile,
		})
		if err != nil {
			return mcpError(fmt.Sprintf("encoding result: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpRecordNote(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title, err := req.RequireString("title")
		if err != nil {
			return mcpError("title is required"), nil
		}
		note, err := req.RequireString("note")
		if err != nil {
			return mcpError("note is required"), nil
		}

		if err := deps.Profile.RecordAdaptationNote(title, note); err != nil {
			return mcpError(fmt.Sprintf("recording note: %v", err)), nil
		}
		return mcpText(fmt.Sprintf("Recorded note for %s", title)), nil
	}
}

func mcpResourceProfile(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		p, err := deps.Profile.Load()
		if err != nil {
			return nil, fmt.Errorf("loading profile: %w", err)
		}
		b, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("encoding profile: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
