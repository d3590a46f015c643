package adapters

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/xenking/md2pptx/internal/domain"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var builtinThemes = fstest.MapFS{
	"default.yaml": {Data: []byte("name: default\nbackground: FFFFFFFF\ntitle_size: 40\n")},
	"dark.yaml":    {Data: []byte("background: FF000000\n")},
}

func TestThemeRegistryBuiltin(t *testing.T) {
	r, err := NewThemeRegistry(builtinThemes, "", discardLogger)
	require.NoError(t, err)

	assert.Equal(t, []string{"dark", "default"}, r.Names())

	theme, ok := r.Theme("Dark")
	assert.True(t, ok)
	assert.Equal(t, "dark", theme.Name)
	assert.Equal(t, "FF000000", theme.Background)
	assert.Equal(t, 36, theme.TitleSize)
	assert.Equal(t, theme.TextColor, theme.CodeColor)

	theme, ok = r.Theme("neon")
	assert.False(t, ok)
	assert.Equal(t, domain.DefaultTheme, theme.Name)
	assert.Equal(t, 40, theme.TitleSize)
}

func TestThemeRegistryRequiresDefault(t *testing.T) {
	_, err := NewThemeRegistry(fstest.MapFS{"dark.yaml": {Data: []byte("name: dark")}}, "", discardLogger)
	require.Error(t, err)
}

func TestThemeRegistryDirectoryOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dark.yaml"), []byte("background: FF111111\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ocean.yaml"), []byte("name: ocean\naccent_color: FF0EA5E9\n"), 0o600))

	r, err := NewThemeRegistry(builtinThemes, dir, discardLogger)
	require.NoError(t, err)
	assert.Equal(t, []string{"dark", "default", "ocean"}, r.Names())

	theme, ok := r.Theme("dark")
	require.True(t, ok)
	assert.Equal(t, "FF111111", theme.Background)
}

func TestThemeRegistryWatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	r, err := NewThemeRegistry(builtinThemes, dir, discardLogger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Watch(ctx) }()

	// give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mint.yaml"), []byte("name: mint\n"), 0o600))

	assert.Eventually(t, func() bool {
		_, ok := r.Theme("mint")
		return ok
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestThemeRegistryWatchWithoutDir(t *testing.T) {
	r, err := NewThemeRegistry(builtinThemes, "", discardLogger)
	require.NoError(t, err)
	require.Error(t, r.Watch(context.Background()))
}
