package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/yanqian/faq-admin/internal/domain/faq"
	apperrors "github.com/yanqian/faq-admin/pkg/errors"
)

const maxSearchResults = 20

type errorResult struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type searchResult struct {
	Query   string       `json:"query"`
	Total   int          `json:"total"`
	Records []faq.Record `json:"records"`
}

func registerTools(s *server.MCPServer, svc faq.Service, logger *slog.Logger) {
	registerSearchTool(s, svc)
	registerGetTool(s, svc)
	registerStatsTool(s, svc)
	logger.Info("mcp tools registered", "tools", []string{"search_faqs", "get_faq", "faq_stats"})
}

func registerSearchTool(s *server.MCPServer, svc faq.Service) {
	tool := mcpgo.NewTool(
		"search_faqs",
		mcpgo.WithDescription("Search Hire Hub FAQ records by case-insensitive substring over questions, answers, tags and alternate questions. Returns at most 20 records."),
		mcpgo.WithString("query", mcpgo.Required(), mcpgo.Description("Text to look for. An empty query lists records in file order.")),
		mcpgo.WithString("category", mcpgo.Description("Optional category filter, e.g. job_posting or dashboard.")),
		mcpgo.WithReadOnlyHintAnnotation(true),
		mcpgo.WithDestructiveHintAnnotation(false),
		mcpgo.WithOpenWorldHintAnnotation(false),
	)
	s.AddTool(tool, func(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return nil, err
		}
		// Category-only listing keeps agent lookups out of the dashboard search log.
		records, err := svc.List(ctx, faq.ListRequest{Category: optionalString(req, "category")})
		if err != nil {
			return nil, err
		}
		records = faq.Filter(records, query)
		out := searchResult{Query: strings.TrimSpace(query), Total: len(records), Records: records}
		if len(out.Records) > maxSearchResults {
			out.Records = out.Records[:maxSearchResults]
		}
		return jsonResult(out)
	})
}

func registerGetTool(s *server.MCPServer, svc faq.Service) {
	tool := mcpgo.NewTool(
		"get_faq",
		mcpgo.WithDescription("Fetch one FAQ record by id."),
		mcpgo.WithString("id", mcpgo.Required(), mcpgo.Description("Record id, e.g. faq-job_posting-how-do-i-post-123456.")),
		mcpgo.WithReadOnlyHintAnnotation(true),
		mcpgo.WithDestructiveHintAnnotation(false),
		mcpgo.WithOpenWorldHintAnnotation(false),
	)
	s.AddTool(tool, func(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return nil, err
		}
		record, err := svc.Get(ctx, id)
		if err != nil {
			if apperrors.IsCode(err, faq.CodeNotFound) {
				return errorToolResult(faq.CodeNotFound, fmt.Sprintf("no faq with id %q", strings.TrimSpace(id)))
			}
			return nil, err
		}
		return jsonResult(record)
	})
}

func registerStatsTool(s *server.MCPServer, svc faq.Service) {
	tool := mcpgo.NewTool(
		"faq_stats",
		mcpgo.WithDescription("Summarise the FAQ collection: totals, category distribution, top tags and length averages."),
		mcpgo.WithReadOnlyHintAnnotation(true),
		mcpgo.WithDestructiveHintAnnotation(false),
		mcpgo.WithOpenWorldHintAnnotation(false),
	)
	s.AddTool(tool, func(ctx context.Context, _ mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
		stats, err := svc.Stats(ctx)
		if err != nil {
			return nil, err
		}
		return jsonResult(stats)
	})
}

func optionalString(req mcpgo.CallToolRequest, key string) string {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return ""
	}
	val, _ := args[key].(string)
	return strings.TrimSpace(val)
}

func jsonResult(v any) (*mcpgo.CallToolResult, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return mcpgo.NewToolResultText(string(payload)), nil
}

func errorToolResult(code, message string) (*mcpgo.CallToolResult, error) {
	payload, err := json.Marshal(errorResult{Error: true, Code: code, Message: message})
	if err != nil {
		return nil, fmt.Errorf("marshal tool error: %w", err)
	}
	result := mcpgo.NewToolResultText(string(payload))
	result.IsError = true
	return result, nil
}
