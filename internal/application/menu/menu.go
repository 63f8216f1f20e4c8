// Package menu places the fire emergency section into the host navigation.
package menu

import (
	"strings"

	"github.com/doeshing/firewatch/internal/domain"
)

const anchor = "disease"

// Assemble returns a new menu with section placed before the first item whose
// label or URL mentions the disease module, or appended when there is none.
// Neither base nor section is modified.
func Assemble(base []domain.MenuItem, section domain.MenuItem) []domain.MenuItem {
	out := make([]domain.MenuItem, 0, len(base)+1)
	inserted := false
	for _, item := range base {
		if !inserted && mentionsAnchor(item) {
			out = append(out, clone(section))
			inserted = true
		}
		out = append(out, clone(item))
	}
	if !inserted {
		out = append(out, clone(section))
	}
	return out
}

// FromConfig assembles the configured menu. Without a fire section the base
// menu is returned as a copy.
func FromConfig(cfg domain.MenuSettings) []domain.MenuItem {
	if cfg.Fire.Label == "" {
		out := make([]domain.MenuItem, len(cfg.Base))
		for i, item := range cfg.Base {
			out[i] = clone(item)
		}
		return out
	}
	return Assemble(cfg.Base, cfg.Fire)
}

func mentionsAnchor(item domain.MenuItem) bool {
	return strings.Contains(strings.ToLower(item.Label), anchor) ||
		strings.Contains(strings.ToLower(item.URL), anchor)
}

func clone(item domain.MenuItem) domain.MenuItem {
	if item.Children != nil {
		children := make([]domain.MenuItem, len(item.Children))
		for i, child := range item.Children {
			children[i] = clone(child)
		}
		item.Children = children
	}
	return item
}
