package hasher

import (
	"errors"
	"io"
)

// DefaultChunkSize is the chunk size used when none is configured.
const DefaultChunkSize = 1024

// ChunkReader yields fixed-size chunks from a reader, scanner style:
//
//	cr := NewChunkReader(f, 1024)
//	for cr.Next() {
//		use(cr.Chunk())
//	}
//	if err := cr.Err(); err != nil { ... }
//
// Every chunk holds exactly size bytes except possibly the last one.
// The sequence ends when the reader is exhausted; it cannot be restarted.
type ChunkReader struct {
	r    io.Reader
	buf  []byte
	n    int
	err  error
	done bool
}

// NewChunkReader returns a ChunkReader over r. A non-positive size selects DefaultChunkSize.
func NewChunkReader(r io.Reader, size int) *ChunkReader {
	if size <= 0 {
		size = DefaultChunkSize
	}

	return &ChunkReader{r: r, buf: make([]byte, size)}
}

// Next reads the next chunk. It returns false at the end of the input or on a read error.
func (c *ChunkReader) Next() bool {
	if c.done {
		return false
	}

	n, err := io.ReadFull(c.r, c.buf)
	c.n = n

	switch {
	case err == nil:
		return true
	case errors.Is(err, io.ErrUnexpectedEOF):
		// Short final chunk.
		c.done = true

		return n > 0
	case errors.Is(err, io.EOF):
		c.done = true
		c.n = 0

		return false
	default:
		c.done = true
		c.n = 0
		c.err = err

		return false
	}
}

// Chunk returns the most recent chunk. The slice is reused by the next call to Next.
func (c *ChunkReader) Chunk() []byte { return c.buf[:c.n] }

// Err returns the first read error encountered, if any.
func (c *ChunkReader) Err() error { return c.err }
