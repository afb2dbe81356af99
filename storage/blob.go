// Package storage persists uploaded image binaries and hands out publicly
// retrievable URLs for them. Blobs are name-addressed: two uploads with the
// same filename overwrite each other, last write wins.
package storage

import "io"

// BlobStore Stores named binary blobs.
type BlobStore interface {
	// Save writes the blob and returns the public URL it is served from.
	Save(name string, r io.Reader, size int64, contentType string) (string, error)
	// Open reads a previously saved blob back.
	Open(name string) (io.ReadCloser, error)
}
