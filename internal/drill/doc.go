// Package drill is the playback controller. It owns the session state
// (sections, queue, index, bookmarks, flags), the audio device handle and
// the single tick source that drives the progress indicator.
//
// The controller does not run timers itself. The caller asks for Ticking and
// TickID after each call, schedules a tick, and reports it back with Tick;
// ticks carrying an old id are ignored, which is how a state change cancels
// the previous loop.
package drill
