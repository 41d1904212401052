package transfer

import (
	"context"
	"fmt"

	"github.com/vigila-io/vigilfetch/internal/utils"
)

// materialize turns the accumulated chunks into a persisted artifact.
// Entering it is the commit point: a transfer that is no longer current
// discards its chunks instead, and one that commits runs to completion
// regardless of later cancels. The store call rides a cancel-detached
// context so an in-flight cancellation cannot tear a half-written artifact.
func (c *Controller) materialize(tok *token, acc *ChunkBuffer, filename string) (string, error) {
	c.finalizeMu.Lock()
	defer c.finalizeMu.Unlock()
	if !c.isCurrent(tok) {
		acc.Discard()
		return "", context.Canceled
	}
	c.writeProgress(tok, 100, statusFinalizing)
	data := acc.Assemble()
	c.log.Debug().Str("transfer", tok.id).Str("size", utils.FormatBytes(uint64(len(data)))).Str("filename", filename).Msg("Materializing artifact")
	location, err := c.sink.Store(context.WithoutCancel(tok.ctx), filename, data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMaterialization, err)
	}
	return location, nil
}
