package backupmirror

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeEndpoint(t *testing.T) {
	require.Equal(t, "account.r2.cloudflarestorage.com", sanitizeEndpoint(" https://account.r2.cloudflarestorage.com/bucket "))
	require.Equal(t, "localhost:9000", sanitizeEndpoint("http://localhost:9000"))
	require.Equal(t, "", sanitizeEndpoint(""))
}

func TestObjectKey(t *testing.T) {
	m, err := NewS3Mirror(Config{Endpoint: "http://localhost:9000", Bucket: "faq", Prefix: "/backups/"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	require.Equal(t, "backups/faq_backup_20240101_000000.json", m.objectKey("faq_backup_20240101_000000.json"))

	m.prefix = ""
	require.Equal(t, "faq_backup_20240101_000000.json", m.objectKey("faq_backup_20240101_000000.json"))
}
