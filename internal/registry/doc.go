// Package registry tracks one navigation session per logical directory
// identity.
//
// The Registry is the single piece of shared mutable state in the core: a
// mutex-guarded map from identity key to session. All lookups, inserts and
// removals for a key are applied atomically relative to each other, which
// upholds the invariant that at most one registered session exists per
// identity class at any instant.
//
// Sessions themselves guard their listing, selection and refresh state with
// their own mutex, because listing results can arrive from a backend
// goroutine while gestures are being processed.
package registry
