package lawharvest

import (
	"context"
	"time"
)

// PageData is the extraction result for one fetched page.
type PageData struct {
	// Records are the valid records in listing order.
	Records []Record

	// HasListing reports whether the page contained listing items at all.
	// This is distinct from every item failing validation.
	HasListing bool

	// Dropped counts items removed by required-field validation.
	Dropped int
}

// Site describes one integration's paging capabilities. The crawl controller
// drives the fetch/extract loop through this interface so the offset and
// stop-condition logic lives in exactly one place.
type Site interface {
	// Name identifies the site in logs and CLI arguments.
	Name() string

	// Streams returns the collection targets this site exposes, in the
	// order they should be crawled.
	Streams() []Stream

	// PageSize is the amount the cursor advances per page. Offset-paginated
	// sites return their listing size; page-number sites return 1.
	PageSize() int

	// EmptyThreshold is the number of consecutive pages without listing
	// items after which a stream stops.
	EmptyThreshold() int

	// RequestInterval is the courtesy delay between consecutive requests.
	RequestInterval() time.Duration

	// FetchPage issues one blocking request for the page at offset and
	// returns the raw response body. No retries are performed; a failure
	// is terminal for that single page only.
	FetchPage(ctx context.Context, stream Stream, offset int) ([]byte, error)

	// ExtractPage transforms one page's raw content into records. It is a
	// pure function of the input bytes.
	ExtractPage(stream Stream, raw []byte) (*PageData, error)
}

// Authenticator is implemented by sites that must establish a session before
// any page can be fetched. A login failure is fatal to the whole run.
type Authenticator interface {
	Login(ctx context.Context) error
}
