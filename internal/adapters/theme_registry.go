package adapters

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/xenking/md2pptx/internal/domain"
)

const themeReloadDebounce = 300 * time.Millisecond

// ThemeRegistry resolves deck themes. Built-in themes come from an embedded
// filesystem, files in an optional directory override them by name.
type ThemeRegistry struct {
	builtin map[string]domain.Theme
	dir     string
	logger  *slog.Logger

	mu     sync.RWMutex
	themes map[string]domain.Theme
}

var _ domain.ThemeProvider = (*ThemeRegistry)(nil)

func NewThemeRegistry(builtin fs.FS, dir string, logger *slog.Logger) (*ThemeRegistry, error) {
	base, err := loadThemes(builtin)
	if err != nil {
		return nil, fmt.Errorf("load builtin themes: %w", err)
	}
	if _, ok := base[domain.DefaultTheme]; !ok {
		return nil, fmt.Errorf("builtin themes: %q theme is missing", domain.DefaultTheme)
	}
	r := &ThemeRegistry{
		builtin: base,
		dir:     dir,
		logger:  logger.With(slog.String("component", "themes")),
	}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads the themes directory.
func (r *ThemeRegistry) Reload() error {
	themes := make(map[string]domain.Theme, len(r.builtin))
	for name, t := range r.builtin {
		themes[name] = t
	}
	if r.dir != "" {
		custom, err := loadThemes(os.DirFS(r.dir))
		if err != nil {
			return fmt.Errorf("load themes from %s: %w", r.dir, err)
		}
		for name, t := range custom {
			themes[name] = t
		}
	}

	r.mu.Lock()
	r.themes = themes
	r.mu.Unlock()
	return nil
}

func (r *ThemeRegistry) Theme(name string) (domain.Theme, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.themes[key]; ok {
		return t, true
	}
	r.logger.Warn("unknown theme, using default", slog.String("theme", name))
	return r.themes[domain.DefaultTheme], false
}

func (r *ThemeRegistry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.themes))
	for name := range r.themes {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Watch reloads the themes directory whenever a file in it changes. It blocks
// until ctx is done.
func (r *ThemeRegistry) Watch(ctx context.Context) error {
	if r.dir == "" {
		return errors.New("themes directory is not configured")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(r.dir); err != nil {
		return fmt.Errorf("watch %s: %w", r.dir, err)
	}
	r.logger.Info("watching themes", slog.String("dir", r.dir))

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(event.Name) != ".yaml" {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(themeReloadDebounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})
		case <-reload:
			if err := r.Reload(); err != nil {
				r.logger.Error("reload themes", slog.String("error", err.Error()))
				continue
			}
			r.logger.Info("themes reloaded", slog.Int("count", len(r.Names())))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Error("themes watcher", slog.String("error", err.Error()))
		}
	}
}

func loadThemes(fsys fs.FS) (map[string]domain.Theme, error) {
	matches, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, err
	}
	themes := make(map[string]domain.Theme, len(matches))
	for _, file := range matches {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, err
		}
		var t domain.Theme
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		if t.Name == "" {
			t.Name = strings.TrimSuffix(path.Base(file), ".yaml")
		}
		t.Name = strings.ToLower(t.Name)
		themes[t.Name] = withThemeDefaults(t)
	}
	return themes, nil
}

func withThemeDefaults(t domain.Theme) domain.Theme {
	if t.Background == "" {
		t.Background = "FFFFFFFF"
	}
	if t.TitleColor == "" {
		t.TitleColor = "FF1F2937"
	}
	if t.TextColor == "" {
		t.TextColor = "FF374151"
	}
	if t.AccentColor == "" {
		t.AccentColor = "FF2563EB"
	}
	if t.CodeColor == "" {
		t.CodeColor = t.TextColor
	}
	if t.TitleSize == 0 {
		t.TitleSize = 36
	}
	if t.HeadingSize == 0 {
		t.HeadingSize = 28
	}
	if t.BodySize == 0 {
		t.BodySize = 18
	}
	return t
}
