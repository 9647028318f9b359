package drill

import "errors"

var (
	// ErrBusy is returned by operations that are only allowed while idle.
	ErrBusy = errors.New("playback in progress")

	// ErrNoSections is returned when closing the settings with nothing selected.
	ErrNoSections = errors.New("select at least one section")

	// ErrEmptyQueue is returned when playing with nothing in the queue.
	ErrEmptyQueue = errors.New("play queue is empty")

	// ErrPlayback wraps clip load and device failures.
	ErrPlayback = errors.New("unable to play clip")
)
