// Package theme resolves and renders templates through a three-tier lookup:
// custom overrides pulled from the content repository, the active theme's
// directory, and the bundled default theme.
package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

// ErrTemplateNotFound reports a template absent from every tier.
var ErrTemplateNotFound = errors.New("template not found")

// DefaultTheme is the bundled fallback theme name.
const DefaultTheme = "default"

// validThemeName keeps theme names usable as path segments. Anything else
// is ignored during lookup rather than joined into a filesystem path.
var validThemeName = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidName reports whether a theme name is safe to use as a path segment.
func ValidName(name string) bool {
	return validThemeName.MatchString(name)
}

// Loader provides template sources. Custom templates from the content repo
// form one flat namespace keyed by filename and always win over theme
// directories; they are considered fresh once loaded and are only re-read
// after a reset.
type Loader struct {
	themesPath string

	mu     sync.RWMutex
	custom map[string]string
}

// NewLoader creates a loader over the bundled themes directory.
func NewLoader(themesPath string) *Loader {
	return &Loader{
		themesPath: themesPath,
		custom:     map[string]string{},
	}
}

// SetCustom registers a custom template override by filename.
func (l *Loader) SetCustom(name, source string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.custom[name] = source
}

// ClearCustom drops all custom template overrides.
func (l *Loader) ClearCustom() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.custom = map[string]string{}
}

// CustomCount returns the number of loaded custom templates.
func (l *Loader) CustomCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.custom)
}

// Source returns the template source for name under the given theme,
// checking the custom overrides, then the theme's directory, then the
// default theme's directory.
func (l *Loader) Source(themeName, name string) (string, error) {
	l.mu.RLock()
	source, ok := l.custom[name]
	l.mu.RUnlock()
	if ok {
		return source, nil
	}

	if themeName != DefaultTheme && validThemeName.MatchString(themeName) {
		if source, ok := l.readThemeFile(themeName, name); ok {
			return source, nil
		}
	}

	if source, ok := l.readThemeFile(DefaultTheme, name); ok {
		return source, nil
	}

	return "", fmt.Errorf("%w: %s (theme %s)", ErrTemplateNotFound, name, themeName)
}

func (l *Loader) readThemeFile(themeName, name string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(l.themesPath, themeName, filepath.Base(name)))
	if err != nil {
		return "", false
	}
	return string(data), true
}
