package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9090"
faq:
  path: /data/enhanced_faqs.json
  backup:
    keep: 5
llm:
  provider: anthropic
  model: claude-3-5-haiku-latest
`), 0o644))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("FAQ_BACKUP_KEEP", "7")
	t.Setenv("SESSION_TTL", "2h")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, "/data/enhanced_faqs.json", cfg.FAQ.Path)
	require.Equal(t, 7, cfg.FAQ.Backup.Keep)
	require.Equal(t, "anthropic", cfg.LLM.Provider)
	require.Equal(t, 2*time.Hour, cfg.Session.TTL)
	require.Equal(t, "faq", cfg.FAQ.Purpose)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"empty path":        func(c *Config) { c.FAQ.Path = " " },
		"bad provider":      func(c *Config) { c.LLM.Provider = "cohere" },
		"bad keep":          func(c *Config) { c.FAQ.Backup.Keep = -2 },
		"auth no admins":    func(c *Config) { c.Auth.Enabled = true; c.Auth.Secret = "0123456789abcdef" },
		"auth short secret": func(c *Config) { c.Auth.Enabled = true; c.Auth.Secret = "short" },
		"mirror no bucket":  func(c *Config) { c.FAQ.Mirror.Enabled = true; c.FAQ.Mirror.Endpoint = "r2.example.com" },
		"redis no addr":     func(c *Config) { c.FAQ.Redis.Enabled = true },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := defaultConfig()
			mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
	require.NoError(t, defaultConfig().Validate())
}
