// Package enumerate turns backend directory reads into ordered, cycle-safe
// listings of filer.Node values.
//
// The enumerator is responsible for:
//   - Resolving a canonical path and classifying it before listing
//   - Producing listings in a deterministic order (display-name collation,
//     ties broken by identity key) so unchanged directories list identically
//   - Marking entries that resolve back into their own ancestry as
//     non-enumerable, so naive recursion over a listing terminates
//   - Optionally caching listings per identity key with explicit
//     invalidation; a cached listing is never mutated in place
//
// The enumerator is backend-agnostic through the filer.Backend interface,
// enabling both production use with the OS backend and testing with the
// in-memory backend.
package enumerate
