// Package queue derives the ordered working set of sentences for a drill:
// the sentences of the selected sections, optionally shuffled.
package queue
