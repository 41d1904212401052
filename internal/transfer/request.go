package transfer

import "net/http"

// Request describes one archive download. Values are fixed at creation;
// the controller never mutates a Request after Start accepts it.
type Request struct {
	URL      string
	Method   string // defaults to GET
	Header   http.Header
	Body     []byte
	Filename string // artifact name, e.g. "recordings_20250112_083015.zip"

	// ItemCount is the number of recordings inside the archive, used for
	// status labels. Values below 1 are treated as 1.
	ItemCount int
}
