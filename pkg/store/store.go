// Package store abstracts the population of files and their extended
// attributes so the benchmark phases can run against a local filesystem
// or an S3 compatible object store.
package store

// Store creates and removes files and sets and gets their extended
// attributes. Names are full paths as produced by utils.FileName.
type Store interface {
	// Create removes any existing file at name, tolerating its absence,
	// and creates an empty one in its place.
	Create(name string) error
	// Remove deletes name. A file that is already gone is not an error.
	Remove(name string) error
	// SetXattr creates or replaces attribute attr on name.
	SetXattr(name string, attr string, value []byte) error
	// GetXattr reads attribute attr of name into dest and returns the
	// number of bytes stored.
	GetXattr(name string, attr string, dest []byte) (int, error)
}
