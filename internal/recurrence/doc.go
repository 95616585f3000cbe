// Package recurrence expands stored event definitions into concrete
// occurrences within a query window.
//
// The package is a pure, synchronous computation: it performs no I/O, holds
// no state between calls, and may be used concurrently from independent
// goroutines. Definitions carrying a recurrence rule are expanded lazily and
// in chronological order, bounded by the window's upper edge, so a rule with
// neither COUNT nor UNTIL still terminates. A definition whose rule cannot be
// interpreted is never dropped: it degrades to a single fallback occurrence
// covering the definition's own interval.
package recurrence
