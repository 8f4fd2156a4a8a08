package lawharvest

// Stream is one independently paginated collection target within a site,
// such as a Q&A category or a precedent search keyword. Its Key doubles as
// the storage namespace for page files and the stream's watermark.
type Stream struct {
	// Key is the stable storage namespace, e.g. "lawtalk/consultation_case".
	Key string

	// Label is a short human-readable name for logs.
	Label string

	// StartOffset is the cursor position of the first page.
	StartOffset int

	// EndOffset bounds the crawl exclusively; the cursor never reaches it.
	// Nil means fetch exactly one page at StartOffset.
	EndOffset *int
}

// End returns the exclusive cursor bound for the stream given the site's
// page size. With no explicit end offset exactly one page is fetched.
func (s Stream) End(pageSize int) int {
	if s.EndOffset == nil {
		return s.StartOffset + pageSize
	}
	return *s.EndOffset
}
