// Package system provides domain adapters over OS facilities.
// This file contains the icon theme façade, backed by the freedesktop
// icon theme directories and gsettings.
package system

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yllada/system-settings/common"
)

const interfaceSchema = "org.gnome.desktop.interface"

// AppearanceAdapter enumerates installed icon themes and controls the
// active one through gsettings.
type AppearanceAdapter struct {
	run  Runner
	dirs []string
	log  common.Logger
}

// NewAppearanceAdapter creates an appearance adapter scanning the
// standard icon directories.
func NewAppearanceAdapter(run Runner) *AppearanceAdapter {
	return NewAppearanceAdapterDirs(run, iconThemeDirs())
}

// NewAppearanceAdapterDirs creates an appearance adapter scanning the
// given directories.
func NewAppearanceAdapterDirs(run Runner, dirs []string) *AppearanceAdapter {
	return &AppearanceAdapter{
		run:  run,
		dirs: dirs,
		log:  common.GetLogger(),
	}
}

// ListIconThemes enumerates icon themes found under the scan
// directories. A theme directory must carry an index.theme; hidden
// themes and the hicolor fallback are skipped. When the same theme
// name appears in several directories the first scan directory wins.
func (s *AppearanceAdapter) ListIconThemes() ([]common.IconTheme, error) {
	seen := make(map[string]bool)
	var themes []common.IconTheme

	for _, dir := range s.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() || seen[entry.Name()] || entry.Name() == "hicolor" {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if !isIconTheme(filepath.Join(path, "index.theme")) {
				continue
			}
			seen[entry.Name()] = true
			themes = append(themes, common.IconTheme{Name: entry.Name(), Path: path})
		}
	}

	sort.Slice(themes, func(i, j int) bool { return themes[i].Name < themes[j].Name })
	return themes, nil
}

// CurrentIconTheme returns the active icon theme name.
func (s *AppearanceAdapter) CurrentIconTheme() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), common.CommandTimeout)
	defer cancel()

	out, err := s.run.Run(ctx, "gsettings", "get", interfaceSchema, "icon-theme")
	if err != nil {
		return "", classifyExec(err, out)
	}
	// gsettings prints GVariant notation: 'Adwaita'.
	return strings.Trim(strings.TrimSpace(out), "'"), nil
}

// SetIconTheme activates an icon theme. This is a per-user setting,
// so no elevation is involved.
func (s *AppearanceAdapter) SetIconTheme(name string) error {
	if name == "" {
		return common.WrapError(common.ErrInvalidInput, "empty icon theme name")
	}

	ctx, cancel := context.WithTimeout(context.Background(), common.CommandTimeout)
	defer cancel()

	out, err := s.run.Run(ctx, "gsettings", "set", interfaceSchema, "icon-theme", name)
	if err != nil {
		return classifyExec(err, out)
	}
	s.log.Info("Icon theme set to %s", name)
	return nil
}

// iconThemeDirs returns the freedesktop icon theme search path.
func iconThemeDirs() []string {
	dirs := []string{"/usr/share/icons", "/usr/local/share/icons"}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append([]string{
			filepath.Join(home, ".icons"),
			filepath.Join(home, ".local", "share", "icons"),
		}, dirs...)
	}
	return dirs
}

// isIconTheme reports whether path is an icon theme index that is not
// hidden and not a pure cursor theme.
func isIconTheme(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	content := string(data)
	if !strings.Contains(content, "[Icon Theme]") {
		return false
	}
	for _, line := range strings.Split(content, "\n") {
		if strings.EqualFold(strings.TrimSpace(line), "hidden=true") {
			return false
		}
	}
	// Cursor themes ship an index.theme without icon directories.
	return strings.Contains(content, "Directories=")
}
