// Package ui contains the Bubble Tea front end that drives the window
// orchestrator from the keyboard. Model.Update owns the orchestrator: every
// command, frame tick and back-press runs on the Bubble Tea loop goroutine.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages. Update routes
//     them through a typed handler registry so each tea.Msg is handled by a
//     focused function (key presses, resizes, frame ticks).
//   - frameMsg arrives at the configured frame rate. Each frame advances the
//     coordinator by the elapsed time, which polls finished window loads and
//     steps every running transition, then collects settled command results
//     from the command bus.
//   - Key presses either act on the coordinator directly (close-all, flush,
//     clear, back-press) or open the type picker, which submits an open,
//     toggle, focus, load or unload command for the chosen window type.
//
// Rendering:
//   - View composites every active panel onto a canvas in sorting order, so
//     higher layers draw over lower ones, then overlays the picker and the
//     inspector and appends the status and footer rows.
package ui
