package claude

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/faq-admin/internal/infra/llm"
)

func TestClient_Complete(t *testing.T) {
	var (
		path     string
		captured map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&captured)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-3-5-haiku-latest","content":[{"type":"text","text":"dashboard"}],"stop_reason":"end_turn","usage":{"input_tokens":20,"output_tokens":2}}`))
	}))
	defer srv.Close()

	client, err := NewClient("test-key", srv.URL)
	require.NoError(t, err)

	out, err := client.Complete(context.Background(), llm.CompletionRequest{
		Model:  "claude-3-5-haiku-latest",
		System: "Categorize.",
		Prompt: "Where is the dashboard?",
	})
	require.NoError(t, err)
	require.Equal(t, "dashboard", out.Text)
	require.Equal(t, 22, out.Usage.TotalTokens)
	require.Equal(t, "/messages", path)
	require.Equal(t, "Categorize.", captured["system"])
	require.EqualValues(t, defaultMaxTokens, captured["max_tokens"])
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient("", "")
	require.Error(t, err)
}
