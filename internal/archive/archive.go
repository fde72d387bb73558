// Package archive owns the container format for archived database files:
// a tar stream holding the source file under its original name, wrapped
// in xz compression. The rest of the system only sees the Archiver
// interface, so the format can be swapped without touching the sequence
// around it.
package archive

import "context"

type Archiver interface {
	// Create writes a compressed container holding the file at src under
	// its base name, materialized atomically at dst.
	Create(ctx context.Context, src, dst string) error

	// Extension returns the container suffix appended to archive names,
	// e.g. ".xz".
	Extension() string
}
