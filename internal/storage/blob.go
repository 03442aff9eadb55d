package storage

import "io"

// BlobStore holds opaque artifacts such as rejected model transcripts.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
}
