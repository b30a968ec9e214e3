// Package style holds the lipgloss styles used by the terminal renderer and
// the interactive reviewer. Styles are defined by semantic name in an
// embedded YAML theme with adaptive light/dark colors.
package style

import (
	_ "embed"

	"github.com/arthur-debert/flnk/pkg/errors"
	"github.com/arthur-debert/flnk/pkg/types"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// ColorDef is an adaptive color in the theme.
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef is a style in the theme. Foreground names a color.
type StyleDef struct {
	Bold       bool   `yaml:"bold,omitempty"`
	Italic     bool   `yaml:"italic,omitempty"`
	Underline  bool   `yaml:"underline,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
	MarginTop  int    `yaml:"marginTop,omitempty"`
}

// Theme is the parsed form of styles.yaml.
type Theme struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

//go:embed styles.yaml
var embeddedTheme []byte

// registry maps semantic names to styles; it is built once at init and
// only read afterwards.
var registry map[string]lipgloss.Style

func init() {
	r, err := Parse(embeddedTheme)
	if err != nil {
		r = map[string]lipgloss.Style{}
	}
	registry = r
}

// Parse builds a style registry from YAML theme data.
func Parse(data []byte) (map[string]lipgloss.Style, error) {
	var theme Theme
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to parse style theme")
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(theme.Colors))
	for name, def := range theme.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	styles := make(map[string]lipgloss.Style, len(theme.Styles))
	for name, def := range theme.Styles {
		s := lipgloss.NewStyle()
		if def.Bold {
			s = s.Bold(true)
		}
		if def.Italic {
			s = s.Italic(true)
		}
		if def.Underline {
			s = s.Underline(true)
		}
		if color, ok := colors[def.Foreground]; ok {
			s = s.Foreground(color)
		}
		if def.MarginTop > 0 {
			s = s.MarginTop(def.MarginTop)
		}
		styles[name] = s
	}
	return styles, nil
}

// Get returns the named style, or a plain style when it is not defined.
func Get(name string) lipgloss.Style {
	if s, ok := registry[name]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

// ForStatus returns the style of an outcome label.
func ForStatus(s types.Status) lipgloss.Style {
	switch s {
	case types.StatusCreated:
		return Get("Created")
	case types.StatusBackedUpAndCreated:
		return Get("BackedUp")
	case types.StatusSkipped:
		return Get("Skipped")
	case types.StatusFailed:
		return Get("Failed")
	default:
		return Get("Muted")
	}
}
