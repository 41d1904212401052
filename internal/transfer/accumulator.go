package transfer

import (
	"context"
	"io"

	"github.com/vigila-io/vigilfetch/internal/utils"
)

// ChunkBuffer accumulates stream chunks in arrival order. Discard
// permanently invalidates the buffer; appends against a discarded buffer
// are refused so a cancelled transfer can never leak bytes into an
// artifact.
type ChunkBuffer struct {
	chunks    [][]byte
	size      int64
	discarded bool
}

func (b *ChunkBuffer) Append(p []byte) error {
	if b.discarded {
		return ErrTransferDiscarded
	}
	if len(p) == 0 {
		return nil
	}
	chunk := make([]byte, len(p))
	copy(chunk, p)
	b.chunks = append(b.chunks, chunk)
	b.size += int64(len(p))
	return nil
}

func (b *ChunkBuffer) Size() int64 { return b.size }

func (b *ChunkBuffer) Chunks() int { return len(b.chunks) }

func (b *ChunkBuffer) Discarded() bool { return b.discarded }

func (b *ChunkBuffer) Discard() {
	b.chunks = nil
	b.size = 0
	b.discarded = true
}

// Assemble concatenates every chunk into one exactly sized artifact body
// and releases the per-chunk storage.
func (b *ChunkBuffer) Assemble() []byte {
	data := make([]byte, 0, b.size)
	for _, chunk := range b.chunks {
		data = append(data, chunk...)
	}
	b.chunks = nil
	b.size = 0
	return data
}

// readChunks drains body into a ChunkBuffer through a fixed-size buffer,
// checking for cancellation before every read. Zero-length reads are
// tolerated. readChunks owns body and closes it on every path, including
// EOF. On cancellation the partial buffer is discarded and the context
// cause returned.
func readChunks(ctx context.Context, body io.ReadCloser, bufSize int, onChunk func(received int64)) (*ChunkBuffer, error) {
	if bufSize <= 0 {
		bufSize = utils.DefaultBufferSize
	}
	buf := make([]byte, bufSize)
	acc := &ChunkBuffer{}
	for {
		select {
		case <-ctx.Done():
			acc.Discard()
			body.Close()
			return nil, context.Cause(ctx)
		default:
		}
		n, err := body.Read(buf)
		if n > 0 {
			if appendErr := acc.Append(buf[:n]); appendErr != nil {
				body.Close()
				return nil, appendErr
			}
			onChunk(acc.Size())
		}
		if err == io.EOF {
			body.Close()
			return acc, nil
		}
		if err != nil {
			acc.Discard()
			body.Close()
			// A read error racing the cancel signal still counts as a cancel.
			if cause := context.Cause(ctx); cause != nil {
				return nil, cause
			}
			return nil, err
		}
	}
}
