// Package codec implements the compressed-blob framing used by docstore and
// liststore: every logical value is gzip-framed once before it reaches the
// object store or the cache.
package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Compress gzip-frames b. The result is what gets written under the
// ".gz"-suffixed object-store and cache keys.
func Compress(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(b); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("codec: gzip write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("codec: gzip close: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress reverses Compress. Empty input decompresses to empty output,
// which lets callers treat an absent object-store key the same as a
// present-but-empty one.
func Decompress(z []byte) ([]byte, error) {
	if len(z) == 0 {
		return []byte{}, nil
	}
	r, err := gzip.NewReader(bytes.NewReader(z))
	if err != nil {
		return nil, fmt.Errorf("codec: gzip reader: %w", err)
	}
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("codec: gzip read: %w", err)
	}
	return b, nil
}
