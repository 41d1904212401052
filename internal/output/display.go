package output

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/vigila-io/vigilfetch/internal/transfer"
)

// TransferDisplay polls the shared transfer state and renders it on a
// self-rewriting terminal line until stopped.
type TransferDisplay struct {
	store    *transfer.StateStore
	tick     time.Duration
	doneCh   chan struct{}
	wg       sync.WaitGroup
	numLines int
}

func NewTransferDisplay(store *transfer.StateStore) *TransferDisplay {
	return &TransferDisplay{
		store:  store,
		tick:   200 * time.Millisecond,
		doneCh: make(chan struct{}),
	}
}

func (d *TransferDisplay) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ticker := time.NewTicker(d.tick)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				d.render(d.store.Snapshot())
			case <-d.doneCh:
				return
			}
		}
	}()
}

// Stop halts the ticker and unwinds the status line.
func (d *TransferDisplay) Stop() {
	close(d.doneCh)
	d.wg.Wait()
	d.clear()
}

func (d *TransferDisplay) render(st transfer.State) {
	d.clear()
	if !st.Active {
		return
	}
	status := truncateText(st.StatusText, getTerminalWidth()-45)
	bar := debugStyle.Render(progressBar(st.Percent, 30))
	line := fmt.Sprintf("%s %3d%% %s", bar, st.Percent, detailStyle.Render(status))
	if st.ItemCount > 1 {
		line += debugStyle.Render(fmt.Sprintf(" (%d recordings)", st.ItemCount))
	}
	fmt.Println(line)
	d.numLines = 1
}

func (d *TransferDisplay) clear() {
	if d.numLines > 0 {
		fmt.Printf("\033[%dA\033[J", d.numLines)
		d.numLines = 0
	}
}

// progressBar renders a fixed-width bar for a 0-100 percent.
func progressBar(percent, width int) string {
	if width <= 0 {
		width = 30
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return StyleSymbols["bullet"] + strings.Repeat(StyleSymbols["hline"], filled) + strings.Repeat(" ", width-filled) + StyleSymbols["bullet"]
}
