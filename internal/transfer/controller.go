package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vigila-io/vigilfetch/internal/artifact"
	"github.com/vigila-io/vigilfetch/internal/utils"
)

const (
	DefaultGraceDelay        = 500 * time.Millisecond
	DefaultHeuristicInterval = 500 * time.Millisecond
)

// Options tunes a Controller. The zero value selects the defaults; a
// negative GraceDelay disables the post-completion hold entirely.
type Options struct {
	GraceDelay        time.Duration // how long the finished state stays visible before reset
	HeuristicInterval time.Duration // progress tick for streams with unknown length
	IdleTimeout       time.Duration // abort when no bytes arrive for this long; 0 disables
	BufferSize        int
}

// Controller owns the single-active-transfer state machine. Starting a new
// transfer supersedes the active one, cancellation is cooperative at chunk
// granularity, and materialization, once entered, always runs to
// completion.
type Controller struct {
	client utils.HTTPDoer
	sink   artifact.Sink
	state  *StateStore
	log    zerolog.Logger
	opts   Options

	mu      sync.Mutex
	current *token

	// finalizeMu keeps at most one materialization running even when a
	// successor transfer is already streaming.
	finalizeMu sync.Mutex
}

// token identifies one transfer attempt. State writes are scoped to the
// token that owns them, so a superseded transfer cannot clobber its
// successor.
type token struct {
	id     string
	ctx    context.Context
	cancel context.CancelCauseFunc
}

func NewController(client utils.HTTPDoer, sink artifact.Sink, opts Options) *Controller {
	if opts.GraceDelay == 0 {
		opts.GraceDelay = DefaultGraceDelay
	} else if opts.GraceDelay < 0 {
		opts.GraceDelay = 0
	}
	if opts.HeuristicInterval <= 0 {
		opts.HeuristicInterval = DefaultHeuristicInterval
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = utils.DefaultBufferSize
	}
	return &Controller{
		client: client,
		sink:   sink,
		state:  NewStateStore(),
		log:    utils.GetLogger("transfer"),
		opts:   opts,
	}
}

// State exposes the shared transfer state for observers.
func (c *Controller) State() *StateStore { return c.state }

// Start runs one transfer to completion and returns the location of the
// persisted artifact. It blocks through request, streaming and
// materialization. Starting while another transfer is active supersedes
// it. Cancellation is not an error: a cancelled Start returns ("", nil)
// with state already reset.
func (c *Controller) Start(req Request) (string, error) {
	tok := c.begin(req)
	location, err := c.run(tok, req)
	switch {
	case err == nil:
		c.log.Info().Str("transfer", tok.id).Str("artifact", location).Msg("Transfer complete")
		c.settle(tok)
		return location, nil
	case errors.Is(err, context.Canceled):
		c.log.Debug().Str("transfer", tok.id).Msg("Transfer abandoned")
		c.release(tok)
		return "", nil
	default:
		c.log.Error().Err(err).Str("transfer", tok.id).Msg("Transfer failed")
		c.release(tok)
		return "", err
	}
}

// Cancel aborts the active transfer, if any, and resets shared state
// immediately. Calling it with nothing active, or repeatedly, is a no-op.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return
	}
	c.log.Debug().Str("transfer", c.current.id).Msg("Transfer cancelled")
	c.current.cancel(nil)
	c.current = nil
	c.state.reset()
}

// begin installs a fresh token as the active transfer, cancelling any
// predecessor, and publishes the initial compressing state.
func (c *Controller) begin(req Request) *token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		c.current.cancel(nil)
		c.current = nil
	}
	ctx, cancel := context.WithCancelCause(context.Background())
	tok := &token{id: uuid.New().String(), ctx: ctx, cancel: cancel}
	c.current = tok
	items := req.ItemCount
	if items < 1 {
		items = 1
	}
	c.state.begin(items, compressingStatus(items))
	c.log.Debug().Str("transfer", tok.id).Int("items", items).Str("url", req.URL).Msg("Transfer started")
	return tok
}

func (c *Controller) isCurrent(tok *token) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current == tok
}

func (c *Controller) writeProgress(tok *token, percent int, status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != tok {
		return
	}
	c.state.progress(percent, status)
}

func (c *Controller) progressWriter(tok *token) func(percent int, status string) {
	return func(percent int, status string) { c.writeProgress(tok, percent, status) }
}

// settle holds the finished state briefly so observers can render 100%,
// then resets to idle.
func (c *Controller) settle(tok *token) {
	if c.opts.GraceDelay > 0 && c.isCurrent(tok) {
		time.Sleep(c.opts.GraceDelay)
	}
	c.release(tok)
}

// release retires tok, resetting shared state only when tok still owns it.
func (c *Controller) release(tok *token) {
	tok.cancel(nil)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == tok {
		c.current = nil
		c.state.reset()
	}
}

func (c *Controller) run(tok *token, req Request) (string, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(tok.ctx, method, req.URL, body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	for key, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}
	resp, err := c.client.Do(httpReq)
	if err != nil {
		if cause := context.Cause(tok.ctx); cause != nil {
			return "", cause
		}
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := readErrorDetail(resp.Body)
		resp.Body.Close()
		if detail != "" {
			return "", fmt.Errorf("%w: status %d: %s", ErrRequestFailed, resp.StatusCode, detail)
		}
		return "", fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}

	total := resp.ContentLength
	if total > 0 {
		if checker, ok := c.sink.(artifact.CapacityChecker); ok {
			if err := checker.EnsureCapacity(total); err != nil {
				resp.Body.Close()
				return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
			}
		}
	}
	c.log.Debug().Str("transfer", tok.id).Int64("contentLength", total).Msg("Streaming response body")

	est := newEstimator(total, c.opts.HeuristicInterval, c.progressWriter(tok))
	est.startHeuristic()

	onChunk := est.observe
	var watchdog *time.Timer
	if c.opts.IdleTimeout > 0 {
		watchdog = time.AfterFunc(c.opts.IdleTimeout, func() { tok.cancel(ErrIdleTimeout) })
		onChunk = func(received int64) {
			watchdog.Reset(c.opts.IdleTimeout)
			est.observe(received)
		}
	}

	acc, err := readChunks(tok.ctx, resp.Body, c.opts.BufferSize, onChunk)
	if watchdog != nil {
		watchdog.Stop()
	}
	est.halt()
	if err != nil {
		switch {
		case errors.Is(err, ErrIdleTimeout):
			return "", fmt.Errorf("%w: %v", ErrStreamRead, err)
		case errors.Is(err, context.Canceled), errors.Is(err, ErrTransferDiscarded):
			return "", context.Canceled
		default:
			return "", fmt.Errorf("%w: %v", ErrStreamRead, err)
		}
	}
	return c.materialize(tok, acc, req.Filename)
}

// readErrorDetail pulls the "detail" field the Vigila API returns on
// failures, falling back to a short body snippet.
func readErrorDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return strings.TrimSpace(string(data))
}
