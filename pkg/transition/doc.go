// Package transition schedules the animated updates of the radial view.
//
// # Coordinator
//
// [Coordinator.Run] drives one animation: it calls a [Step] with eased
// progress in [0, 1] once per frame for the configured duration, ending
// with exactly 1 unless cancelled. Starting a new Run cancels the one in
// flight and waits for it to stop before the first step of the new one,
// so a superseded animation can never write after its successor.
// Cancelled runs return [ErrSuperseded] (or the context's cause).
//
// Network work is never cancelled here; only visual updates are.
//
// # Batcher
//
// [Batcher] coalesces writes scheduled within one frame into a single
// flush. Writes are keyed; a later write to the same key replaces the
// earlier one. Keys flush in first-scheduled order.
//
// # Pulse
//
// [Pulse] runs the grow/shrink loop of the selected secondary node until
// its context is cancelled.
package transition
