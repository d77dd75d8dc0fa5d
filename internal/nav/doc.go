// Package nav interprets open/select/activate gestures against window
// sessions.
//
// The controller implements the filer-style interaction state machine:
// plain clicks replace the selection, modified clicks toggle membership,
// and double-activating a directory has exactly two outcomes — reuse a
// window for that directory (raising an existing one or navigating the
// current session in place) or, with the alternate modifier, open an
// independent window alongside. Double-activating a file invokes an
// injected callback and is an explicit no-op when none is supplied.
//
// Listing requests are suspend points: they run through an injected runner
// (a goroutine by default) so a blocking backend never freezes gesture
// handling, and results are applied under a per-session refresh generation
// so superseded listings are discarded rather than half-applied.
package nav
