package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  addr: ":9000"
telegram:
  allowed_chats: [1, 2]
themes:
  dir: /etc/themes
  watch: true
`), 0o600))

	t.Setenv("MD2PPTX_ALLOWED_CHATS", "10, 20,")
	t.Setenv("MD2PPTX_RATE_RPS", "2.5")
	t.Setenv("GPT_MODEL", "gpt-4o")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, 2.5, cfg.HTTP.RateRPS)
	assert.Equal(t, 40, cfg.HTTP.RateBurst)
	assert.Equal(t, []int64{10, 20}, cfg.Telegram.AllowedChats)
	assert.Equal(t, "/etc/themes", cfg.Themes.Dir)
	assert.True(t, cfg.Themes.Watch)
	assert.Equal(t, "gpt-4o", cfg.GPT.Model)
	assert.Equal(t, "localhost:7233", cfg.Temporal.Address)
}

func TestApplyEnvErrors(t *testing.T) {
	env := map[string]string{"ERROR_LOG_CHAT_ID": "chat"}
	cfg := Default()
	err := cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	require.ErrorContains(t, err, "ERROR_LOG_CHAT_ID")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestParseChatIDs(t *testing.T) {
	ids, err := ParseChatIDs("")
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = ParseChatIDs("1,x")
	require.Error(t, err)
}
