// Package registry owns values handed to the host as opaque integer handles.
//
// Handles are never pointers. Each handle encodes a slot index and the
// generation of that slot, so a handle that outlived its value (or was never
// issued) fails resolution instead of reaching a reused slot:
//
//	63                32 31                 0
//	+-------------------+--------------------+
//	|    generation     |   slot index + 1   |
//	+-------------------+--------------------+
//
// Handle 0 is never issued.
package registry
