package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory with no config home and no
// LLM vendor keys in the environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	for _, v := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(v, "")
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 10, cfg.Logging.MaxSize)
	assert.True(t, cfg.Logging.Compress)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.True(t, cfg.Commentary.Enabled)
	assert.Equal(t, 20*time.Second, cfg.Commentary.Timeout)
	assert.Equal(t, "", cfg.LLM.Provider)
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)
	assert.Equal(t, "claude-haiku", cfg.LLM.Anthropic.Model)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := isolate(t)
	yaml := `
logging:
  level: debug
server:
  addr: 0.0.0.0:9090
commentary:
  timeout: 5s
llm:
  provider: mock
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "aiready.yaml"), []byte(yaml), 0o644))
	t.Setenv("AIREADY_SERVER_ADDR", "localhost:7000")
	t.Setenv("AIREADY_LLM_RETRY_MAX_ATTEMPTS", "5")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "localhost:7000", cfg.Server.Addr, "environment beats file")
	assert.Equal(t, 5*time.Second, cfg.Commentary.Timeout)
	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.Equal(t, 5, cfg.LLM.Retry.MaxAttempts)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("AIREADY_LOGGING_LEVEL=warn\n"), 0o644))
	t.Setenv("AIREADY_LOGGING_LEVEL", "")
	os.Unsetenv("AIREADY_LOGGING_LEVEL")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_DiscoversVendorKey(t *testing.T) {
	isolate(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.OpenAI.APIKey)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	dir := isolate(t)
	_, err := Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"log level", map[string]string{"AIREADY_LOGGING_LEVEL": "loud"}},
		{"server addr", map[string]string{"AIREADY_SERVER_ADDR": "no-port"}},
		{"temperature", map[string]string{"AIREADY_COMMENTARY_TEMPERATURE": "1.5"}},
		{"provider", map[string]string{"AIREADY_LLM_PROVIDER": "skynet"}},
		{"missing key", map[string]string{"AIREADY_LLM_PROVIDER": "anthropic"}},
		{"font path", map[string]string{"AIREADY_REPORT_FONT_PATH": "/does/not/exist.ttf"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.ErrorContains(t, err, "invalid config")
		})
	}
}
