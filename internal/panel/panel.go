// Package panel provides the terminal window used by the front end: a
// bordered box that slides up into place when shown and back down when
// hidden.
package panel

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/atomicstack/layerstack/internal/anim"
	"github.com/atomicstack/layerstack/internal/provider"
	"github.com/atomicstack/layerstack/internal/theme"
	"github.com/atomicstack/layerstack/internal/window"
)

// Centered places a panel in the middle of the screen on that axis.
const Centered = -1

// Spec describes one panel type.
type Spec struct {
	Type     window.Type
	Title    string
	Group    window.GroupID
	Body     string
	X, Y     int
	Width    int
	Height   int
	Slide    time.Duration
	Settings window.Settings
	// LoadDelay simulates slow asset loading in the factory.
	LoadDelay time.Duration
}

// Panel is a window rendered as a Lip Gloss box.
type Panel struct {
	*window.Base
	spec   Spec
	offset float64
}

// New builds a closed panel. Panels start fully slid out.
func New(spec Spec) *Panel {
	return &Panel{
		Base:   window.NewBase(spec.Type, spec.Title, spec.Group, spec.Settings),
		spec:   spec,
		offset: 1,
	}
}

// Factory returns a provider factory for spec.
func Factory(spec Spec) provider.Factory {
	return func(ctx context.Context, _ window.Type) (window.Window, error) {
		if spec.LoadDelay > 0 {
			timer := time.NewTimer(spec.LoadDelay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
		return New(spec), nil
	}
}

func (p *Panel) Spec() Spec { return p.spec }

// Offset is how far the panel is slid out: 0 in place, 1 fully hidden.
func (p *Panel) Offset() float64 { return p.offset }

func (p *Panel) Show(window.TransitionContext) anim.Handle {
	return anim.NewTween(p.spec.Slide, anim.EaseOutCubic, func(v float64) error {
		p.offset = 1 - v
		return nil
	})
}

func (p *Panel) Hide(window.TransitionContext) anim.Handle {
	return anim.NewTween(p.spec.Slide, anim.EaseInOutCubic, func(v float64) error {
		p.offset = v
		return nil
	})
}

// Render draws the panel box. The result is Width by Height cells.
func (p *Panel) Render(styles *theme.Styles, focused bool) string {
	box := *styles.Panel
	if focused {
		box = *styles.PanelFocused
	}
	inner := max(p.spec.Width-box.GetHorizontalFrameSize(), 1)
	rows := max(p.spec.Height-box.GetVerticalFrameSize(), 1)

	title := truncate.StringWithTail(p.Title(), uint(inner), "…")
	lines := []string{styles.PanelTitle.Render(title)}
	if p.spec.Body != "" {
		wrapped := wordwrap.String(p.spec.Body, inner)
		for _, line := range strings.Split(wrapped, "\n") {
			lines = append(lines, styles.PanelBody.Render(truncate.String(line, uint(inner))))
		}
	}
	if len(lines) > rows {
		lines = lines[:rows]
	}
	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return box.Width(inner + box.GetHorizontalPadding()).Height(rows).Render(content)
}

// Origin returns the panel's resting top-left corner on a screen of the
// given size.
func (p *Panel) Origin(screenW, screenH int) (int, int) {
	x, y := p.spec.X, p.spec.Y
	if x == Centered {
		x = (screenW - p.spec.Width) / 2
	}
	if y == Centered {
		y = (screenH - p.spec.Height) / 2
	}
	return max(x, 0), max(y, 0)
}

// Position returns where the panel is drawn right now, accounting for its
// slide offset.
func (p *Panel) Position(screenW, screenH int) (int, int) {
	x, y := p.Origin(screenW, screenH)
	travel := screenH - y
	return x, y + int(float64(travel)*p.offset+0.5)
}
