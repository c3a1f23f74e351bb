package app

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/layerstack/internal/backend"
	"github.com/atomicstack/layerstack/internal/coordinator"
	"github.com/atomicstack/layerstack/internal/escape"
	"github.com/atomicstack/layerstack/internal/group"
	"github.com/atomicstack/layerstack/internal/panel"
	"github.com/atomicstack/layerstack/internal/provider"
	"github.com/atomicstack/layerstack/internal/ui"
	"github.com/atomicstack/layerstack/internal/window"
)

const (
	loaderWorkers  = 2
	loaderInterval = 50 * time.Millisecond
)

// Config describes user-provided application options.
type Config struct {
	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool
	FPS        int

	Fallback window.GroupID
	Groups   []group.Config
	Windows  []panel.Spec
}

// Stack is the orchestrator assembled from a Config.
type Stack struct {
	Coordinator *coordinator.Coordinator
	Registry    *provider.Registry
}

// Close stops background loading.
func (s *Stack) Close() {
	s.Registry.Close()
}

// Build registers every group and window type from cfg. Window loads run on
// a background loader when async is true and synchronously otherwise.
func Build(cfg Config, async bool) (*Stack, error) {
	var opts []provider.Option
	if async {
		opts = append(opts, provider.WithLoader(backend.NewLoader(loaderWorkers, loaderInterval)))
	}
	reg := provider.NewRegistry(opts...)
	for _, spec := range cfg.Windows {
		reg.RegisterIn(spec.Type, spec.Group, panel.Factory(spec))
	}

	var coordOpts []coordinator.Option
	if cfg.Fallback != "" {
		coordOpts = append(coordOpts, coordinator.WithFallbackGroup(cfg.Fallback))
	}
	coord := coordinator.New(reg, escape.NewChain(), coordOpts...)
	for _, g := range cfg.Groups {
		if _, err := coord.RegisterGroup(g); err != nil {
			reg.Close()
			return nil, fmt.Errorf("build layers: %w", err)
		}
	}
	return &Stack{Coordinator: coord, Registry: reg}, nil
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	stack, err := Build(cfg, true)
	if err != nil {
		return err
	}
	defer stack.Close()
	model := ui.NewModel(stack.Coordinator, stack.Registry, ui.Options{
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Verbose:    cfg.Verbose,
		FPS:        cfg.FPS,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
