// Package mcp exposes the inquiry loop as a Model Context Protocol server so
// any MCP-capable client can ask questions against a configured evidence
// source.
package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sweetpotato0/sleuth/inquiry"
	"github.com/sweetpotato0/sleuth/report"
)

// SessionFactory builds a fresh inquiry session per tool call. Sessions are
// single-owner, so concurrent MCP requests must not share one.
type SessionFactory func() (*inquiry.Session, error)

// NewServer builds an MCP server with an "investigate" tool backed by the
// factory. Run it over the transport of your choice:
//
//	server := mcp.NewServer("sleuth", factory)
//	server.Run(ctx, &sdkmcp.StdioTransport{})
func NewServer(name string, factory SessionFactory) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    name,
		Version: "0.1.0",
		Title:   "sleuth evidence investigator",
	}, nil)

	addInvestigateTool(server, factory)
	return server
}

func addInvestigateTool(server *sdkmcp.Server, factory SessionFactory) {
	type args struct {
		Question string `json:"question" jsonschema:"The question to investigate against the evidence source"`
		Format   string `json:"format,omitempty" jsonschema:"Report format: markdown (default) or json"`
	}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "investigate",
		Description: "Answer a question by iteratively searching the evidence source, returning the answer with its full provenance chain",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, a args) (*sdkmcp.CallToolResult, any, error) {
		question := strings.TrimSpace(a.Question)
		if question == "" {
			return nil, nil, fmt.Errorf("question is required")
		}

		session, err := factory()
		if err != nil {
			return nil, nil, fmt.Errorf("create session: %w", err)
		}

		res, err := session.Run(ctx, question)
		if err != nil {
			return nil, nil, fmt.Errorf("investigation failed: %w", err)
		}

		var text string
		switch strings.ToLower(strings.TrimSpace(a.Format)) {
		case "", "markdown", "md":
			text = report.Markdown(res)
		case "json":
			text, err = report.JSON(res)
			if err != nil {
				return nil, nil, err
			}
		default:
			return nil, nil, fmt.Errorf("unsupported format %q (valid: markdown, json)", a.Format)
		}

		return &sdkmcp.CallToolResult{
			Content: []sdkmcp.Content{
				&sdkmcp.TextContent{Text: text},
			},
		}, nil, nil
	})
}
