package template

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"

	"github.com/careprint/careprint/internal/layout"
)

var codePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// DefaultLayouts is the read-only registry of default layout files. A
// template code maps to <dir>/<code>.json; the file's contents seed new
// templates created without a layout (copy-on-create) and back resolve
// requests for templates that never stored one. Files are read on each
// lookup, never cached: the registry is versioned outside this service.
type DefaultLayouts struct {
	dir string
}

// NewDefaultLayouts creates a registry over dir. An empty dir yields a
// registry that never matches.
func NewDefaultLayouts(dir string) *DefaultLayouts {
	return &DefaultLayouts{dir: dir}
}

// Lookup returns the default layout registered for code, if any. A
// missing, unreadable, or malformed file is treated as not registered;
// the caller falls back to the minimal empty layout.
func (d *DefaultLayouts) Lookup(code string) (layout.Layout, bool) {
	if d == nil || d.dir == "" || !codePattern.MatchString(code) {
		return layout.Layout{}, false
	}
	raw, err := os.ReadFile(filepath.Join(d.dir, code+".json"))
	if err != nil {
		return layout.Layout{}, false
	}
	var l layout.Layout
	if err := json.Unmarshal(raw, &l); err != nil {
		return layout.Layout{}, false
	}
	return l, true
}
