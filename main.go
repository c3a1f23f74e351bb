package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/atomicstack/layerstack/internal/app"
	"github.com/atomicstack/layerstack/internal/config"
	"github.com/atomicstack/layerstack/internal/logging"
	"github.com/atomicstack/layerstack/internal/logging/events"
)

func main() {
	runtimeCfg := config.MustLoad()
	if err := config.Validate(runtimeCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(runtimeCfg.Logging.FilePath)
	logging.SetTraceEnabled(runtimeCfg.Logging.Trace)

	traceStartup(runtimeCfg)

	if err := app.Run(runtimeCfg.App); err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func traceStartup(cfg config.Config) {
	events.App.Start(startupTracePayload(cfg))
}

// startupTracePayload describes the invocation, the resolved layers and the
// terminal the program is about to take over.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags)+2)
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath

	payload := map[string]interface{}{
		"argv":     cfg.Args,
		"flags":    flags,
		"config":   cfg,
		"layers":   layerSummary(cfg.App),
		"terminal": describeTerminal(),
	}
	addProbe(payload, "executable", os.Executable)
	addProbe(payload, "cwd", os.Getwd)
	return payload
}

func addProbe(payload map[string]interface{}, key string, probe func() (string, error)) {
	value, err := probe()
	if err != nil {
		payload[key+"Error"] = err.Error()
		return
	}
	payload[key] = value
}

func layerSummary(cfg app.Config) map[string]interface{} {
	groups := make([]string, 0, len(cfg.Groups))
	for _, g := range cfg.Groups {
		groups = append(groups, string(g.ID))
	}
	return map[string]interface{}{
		"fallback": string(cfg.Fallback),
		"groups":   groups,
		"windows":  len(cfg.Windows),
	}
}

type terminalInfo struct {
	// Size comes from the first descriptor that reports one.
	Size        *terminalSize     `json:"size,omitempty"`
	Descriptors []descriptorProbe `json:"descriptors"`
}

type terminalSize struct {
	From   string `json:"from"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type descriptorProbe struct {
	Name     string `json:"name"`
	Terminal bool   `json:"terminal"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Error    string `json:"error,omitempty"`
}

func describeTerminal() terminalInfo {
	files := []*os.File{os.Stdin, os.Stdout, os.Stderr}
	names := []string{"stdin", "stdout", "stderr"}
	info := terminalInfo{Descriptors: make([]descriptorProbe, 0, len(files))}
	for i, f := range files {
		probe := descriptorProbe{Name: names[i]}
		fd := int(f.Fd())
		if fd >= 0 && term.IsTerminal(fd) {
			probe.Terminal = true
			w, h, err := term.GetSize(fd)
			switch {
			case err != nil:
				probe.Error = err.Error()
			case info.Size == nil:
				info.Size = &terminalSize{From: probe.Name, Width: w, Height: h}
				fallthrough
			default:
				probe.Width, probe.Height = w, h
			}
		}
		info.Descriptors = append(info.Descriptors, probe)
	}
	return info
}
