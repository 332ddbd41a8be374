// Package store provides a minimal state container for driving selectors:
// a single current snapshot that is replaced wholesale on each transition,
// never mutated in place.
//
// Responsibilities:
//   - Store[S] owns the snapshot; selectors and views only read it through
//     State() or the Source[S] interface.
//   - State() returns the same reference between transitions, so memoized
//     selectors keyed on the snapshot (or slices of it) see stable argument
//     identity until the state actually changes.
//   - Snapshots are deep-cloned on write; callers keep no mutable reference
//     into stored state.
//   - Subscribe registers synchronous listeners invoked after each
//     transition, matching an event-driven render loop.
//
// Data flow:
//
//	Replace/Update -> listeners -> selector.Select(store.State())
//
// Provenance:
//
//	Every transition mints a uuid Meta.RevisionID and bumps Meta.Version so
//	consumers can correlate derived values with the snapshot that produced
//	them.
package store
