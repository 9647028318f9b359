// Package sentence loads drill sentences from a tab-separated source and
// derives section statistics from them.
package sentence
