// Package scheme provides the concrete filer.PathScheme implementations.
//
// Two naming conventions are supported:
//   - Posix: '/' separated, case-sensitive, backslash escaping
//   - RiscOS: '.' separated, case-insensitive, '$' root, ",xxx" type suffix
//
// Schemes are stateless value types selected once per backend instance;
// scheme behaviour is never swapped at runtime.
package scheme
