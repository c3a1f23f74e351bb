package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/atomicstack/layerstack/internal/group"
	"github.com/atomicstack/layerstack/internal/panel"
	"github.com/atomicstack/layerstack/internal/window"
)

//go:embed layers.toml
var defaultLayers []byte

// layerFile is the on-disk shape of a layer file.
type layerFile struct {
	Fallback string        `toml:"fallback"`
	Groups   []groupEntry  `toml:"group"`
	Windows  []windowEntry `toml:"window"`
}

type groupEntry struct {
	ID         string `toml:"id"`
	Base       int    `toml:"base"`
	Background bool   `toml:"background"`
	PassEscape bool   `toml:"pass_escape"`
}

type windowEntry struct {
	Type             string   `toml:"type"`
	Title            string   `toml:"title"`
	Group            string   `toml:"group"`
	Body             string   `toml:"body"`
	X                int      `toml:"x"`
	Y                int      `toml:"y"`
	Width            int      `toml:"width"`
	Height           int      `toml:"height"`
	Slide            duration `toml:"slide"`
	LoadDelay        duration `toml:"load_delay"`
	HideWindowsBelow bool     `toml:"hide_windows_below"`
	HideOnFocusLoss  bool     `toml:"hide_on_focus_loss"`
	Sequential       bool     `toml:"sequential"`
	Escape           bool     `toml:"escape"`
	CloseOnEscape    bool     `toml:"close_on_escape"`
}

// duration decodes Go duration strings such as "250ms".
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}

// Layers is the decoded layer file.
type Layers struct {
	Fallback window.GroupID
	Groups   []group.Config
	Windows  []panel.Spec
}

// LoadLayers reads the layer file at path, or the embedded default when path
// is empty.
func LoadLayers(path string) (Layers, error) {
	data := defaultLayers
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Layers{}, fmt.Errorf("read layers: %w", err)
		}
		data = b
	}
	return ParseLayers(data)
}

// ParseLayers decodes a layer file.
func ParseLayers(data []byte) (Layers, error) {
	var file layerFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return Layers{}, fmt.Errorf("parse layers: %w", err)
	}
	layers := Layers{Fallback: window.GroupID(file.Fallback)}
	for _, g := range file.Groups {
		layers.Groups = append(layers.Groups, group.Config{
			ID:         window.GroupID(g.ID),
			Base:       g.Base,
			Background: g.Background,
			PassEscape: g.PassEscape,
		})
	}
	for _, w := range file.Windows {
		layers.Windows = append(layers.Windows, panel.Spec{
			Type:      window.Type(w.Type),
			Title:     w.Title,
			Group:     window.GroupID(w.Group),
			Body:      w.Body,
			X:         w.X,
			Y:         w.Y,
			Width:     w.Width,
			Height:    w.Height,
			Slide:     time.Duration(w.Slide),
			LoadDelay: time.Duration(w.LoadDelay),
			Settings: window.Settings{
				HideWindowsBelow: w.HideWindowsBelow,
				HideOnFocusLoss:  w.HideOnFocusLoss,
				Sequential:       w.Sequential,
				Escape:           w.Escape,
				CloseOnEscape:    w.CloseOnEscape,
			},
		})
	}
	return layers, nil
}

// validateLayers checks that group ids and window types are unique and that
// every window names a known group.
func validateLayers(l Layers) error {
	if len(l.Groups) == 0 {
		return fmt.Errorf("layers: no groups defined")
	}
	groups := make(map[window.GroupID]bool, len(l.Groups))
	for _, g := range l.Groups {
		if g.ID == "" {
			return fmt.Errorf("layers: group with empty id")
		}
		if groups[g.ID] {
			return fmt.Errorf("layers: duplicate group %q", g.ID)
		}
		groups[g.ID] = true
	}
	if l.Fallback != "" && !groups[l.Fallback] {
		return fmt.Errorf("layers: fallback group %q is not defined", l.Fallback)
	}
	types := make(map[window.Type]bool, len(l.Windows))
	for _, w := range l.Windows {
		switch {
		case w.Type == "":
			return fmt.Errorf("layers: window with empty type")
		case types[w.Type]:
			return fmt.Errorf("layers: duplicate window %q", w.Type)
		case w.Group != "" && !groups[w.Group]:
			return fmt.Errorf("layers: window %q names unknown group %q", w.Type, w.Group)
		case w.Width <= 0 || w.Height <= 0:
			return fmt.Errorf("layers: window %q needs a positive size", w.Type)
		}
		types[w.Type] = true
	}
	return nil
}
