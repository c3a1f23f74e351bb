package ui

import (
	"reflect"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	wincmd "github.com/atomicstack/layerstack/internal/command"
	"github.com/atomicstack/layerstack/internal/coordinator"
	"github.com/atomicstack/layerstack/internal/logging/events"
	"github.com/atomicstack/layerstack/internal/theme"
	"github.com/atomicstack/layerstack/internal/ui/command"
	"github.com/atomicstack/layerstack/internal/window"
)

const (
	defaultFPS    = 60
	maxFrameStep  = 250 * time.Millisecond
	infoLifetime  = 3 * time.Second
	defaultWidth  = 80
	defaultHeight = 24
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// frameMsg drives the animation clock.
type frameMsg time.Time

// Catalog lists the window types the picker offers.
type Catalog interface {
	Types() []window.Type
}

// Options holds the display settings for the model.
type Options struct {
	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool
	FPS        int
}

// Model implements the Bubble Tea model for the window orchestrator.
type Model struct {
	coord   *coordinator.Coordinator
	catalog Catalog
	bus     *command.Bus
	keys    keyMap

	picker        *picker
	showInspector bool
	skipAnimation bool
	immediate     bool

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	verbose     bool

	interval    time.Duration
	lastFrame   time.Time
	manualClock bool

	errMsg     string
	infoMsg    string
	infoExpire time.Time
	quitting   bool

	handlers map[reflect.Type]msgHandler
}

// NewModel wires the front end to a coordinator. catalog supplies the types
// offered by the picker.
func NewModel(coord *coordinator.Coordinator, catalog Catalog, opts Options) *Model {
	fps := opts.FPS
	if fps <= 0 {
		fps = defaultFPS
	}
	m := &Model{
		coord:      coord,
		catalog:    catalog,
		bus:        command.New(),
		keys:       defaultKeyMap(),
		showFooter: opts.ShowFooter,
		verbose:    opts.Verbose,
		interval:   time.Second / time.Duration(fps),
		width:      defaultWidth,
		height:     defaultHeight,
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	return m.frameCmd()
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, nil
}

// Quitting reports whether the model has asked the program to exit.
func (m *Model) Quitting() bool {
	return m.quitting
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(frameMsg{}):          m.handleFrameMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) frameCmd() tea.Cmd {
	if m.manualClock {
		return nil
	}
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *Model) handleFrameMsg(msg tea.Msg) tea.Cmd {
	now := time.Time(msg.(frameMsg))
	dt := m.interval
	if !m.lastFrame.IsZero() {
		dt = min(max(now.Sub(m.lastFrame), 0), maxFrameStep)
	}
	m.lastFrame = now
	m.coord.Tick(dt)
	m.collectResults(now)
	if m.picker != nil {
		m.refreshPicker()
	}
	return m.frameCmd()
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size := msg.(tea.WindowSizeMsg)
	if !m.fixedWidth {
		m.width = size.Width
	}
	if !m.fixedHeight {
		m.height = size.Height
	}
	events.UI.Resize(m.width, m.height)
	return nil
}

func (m *Model) collectResults(now time.Time) {
	for _, res := range m.bus.Collect() {
		switch {
		case res.Err == nil:
			if m.verbose {
				m.setInfo(now, res.Label()+" done")
			}
		case wincmd.IsCancelled(res.Err):
			m.setInfo(now, res.Label()+" cancelled")
		default:
			m.errMsg = res.Err.Error()
		}
	}
	if m.infoMsg != "" && !m.infoExpire.IsZero() && now.After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
}

func (m *Model) setInfo(now time.Time, text string) {
	m.errMsg = ""
	m.infoMsg = text
	m.infoExpire = now.Add(infoLifetime)
}

func (m *Model) now() time.Time {
	if !m.lastFrame.IsZero() {
		return m.lastFrame
	}
	return time.Now()
}
