package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/faq-admin/internal/domain/faq"
	"github.com/yanqian/faq-admin/internal/infra/faqfile"
)

func TestRegisterTools_ListsReadOnlyTools(t *testing.T) {
	s := NewServer(newTestService(t), newTestLogger())

	result := s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","method":"tools/list","id":1}`))
	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var response struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(raw, &response))

	names := make([]string, 0, len(response.Result.Tools))
	for _, tool := range response.Result.Tools {
		names = append(names, tool.Name)
	}
	require.ElementsMatch(t, []string{"search_faqs", "get_faq", "faq_stats"}, names)
}

func TestSearchTool_FiltersByQueryAndCategory(t *testing.T) {
	s := NewServer(newTestService(t), newTestLogger())

	result := callTool(t, s, "search_faqs", map[string]any{"query": "job"})
	var found searchResult
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &found))
	require.Equal(t, 1, found.Total)
	require.Equal(t, "faq-job", found.Records[0].ID)

	result = callTool(t, s, "search_faqs", map[string]any{"query": "", "category": "dashboard"})
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &found))
	require.Equal(t, 1, found.Total)
	require.Equal(t, "faq-dash", found.Records[0].ID)
}

func TestGetTool_NotFoundIsToolError(t *testing.T) {
	s := NewServer(newTestService(t), newTestLogger())

	result := callTool(t, s, "get_faq", map[string]any{"id": "faq-dash"})
	require.False(t, result.IsError)
	require.Contains(t, textOf(t, result), "Where is the dashboard?")

	result = callTool(t, s, "get_faq", map[string]any{"id": "missing"})
	require.True(t, result.IsError)
	require.Contains(t, textOf(t, result), faq.CodeNotFound)
}

func TestStatsTool(t *testing.T) {
	s := NewServer(newTestService(t), newTestLogger())

	result := callTool(t, s, "faq_stats", map[string]any{})
	var stats faq.Stats
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &stats))
	require.Equal(t, 2, stats.Total)
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcpgo.CallToolResult {
	t.Helper()
	req, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"method":  "tools/call",
		"id":      1,
		"params":  map[string]any{"name": name, "arguments": args},
	})
	require.NoError(t, err)

	raw, err := json.Marshal(s.HandleMessage(context.Background(), req))
	require.NoError(t, err)

	var response struct {
		Result *mcpgo.CallToolResult `json:"result"`
		Error  *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &response))
	require.Nil(t, response.Error)
	require.NotNil(t, response.Result)
	return response.Result
}

func textOf(t *testing.T, result *mcpgo.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcpgo.TextContent)
	require.True(t, ok)
	return text.Text
}

func newTestService(t *testing.T) faq.Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "enhanced_faqs.json")
	data, err := faq.EncodeRecords([]faq.Record{
		{ID: "faq-job", Category: faq.CategoryJobPosting, Question: "How do I post a job?", Answer: "Open the Jobs tab and click New."},
		{ID: "faq-dash", Category: faq.CategoryDashboard, Question: "Where is the dashboard?", Answer: "It is the first screen after login."},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	logger := newTestLogger()
	store := faqfile.NewStore(faqfile.Config{Path: path, Purpose: "faq"}, nil, nil, logger)
	require.NoError(t, store.Load(context.Background()))
	return faq.NewService(faq.Config{}, store, nil, nil, nil, logger)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
