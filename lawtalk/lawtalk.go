// Package lawtalk integrates the lawtalk.co.kr consultation archive. The
// site exposes JSON listing endpoints behind a cookie-authenticated session:
// a login call issues the connect.sid cookie every subsequent request rides
// on.
package lawtalk

import (
	"context"
	"encoding/json"
	"net/http/cookiejar"
	"sort"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ddobak/lawharvest"
)

const (
	loginPath  = "/api/session"
	searchPath = "/api/qna/question/search"
	guidePath  = "/api/posts/search"
	solvedPath = "/api/posts/solved-case/search"

	sessionCookie = "connect.sid"

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/137.0.0.0 Safari/537.36"
)

// Options configures the site integration.
type Options struct {
	BaseURL  string
	Username string
	Password string

	// Consultation-case offset window, end exclusive. A zero end crawls a
	// single page at the start offset.
	QnaStartOffset int
	QnaEndOffset   int

	SolvedStartOffset int
	SolvedEndOffset   int

	// SolvedCategories maps stream names to the site's category IDs, one
	// solved-case stream per entry.
	SolvedCategories map[string]string

	GuideStartOffset int
	GuideEndOffset   int

	// GuideCategories maps stream names to the site's category IDs.
	GuideCategories map[string]string

	Interval time.Duration
}

var _ lawharvest.Site = (*Site)(nil)
var _ lawharvest.Authenticator = (*Site)(nil)

// Site crawls lawtalk listings. Construct with New and call Login before
// fetching pages.
type Site struct {
	client  *resty.Client
	opts    Options
	streams []lawharvest.Stream
	specs   map[string]streamSpec
}

// streamSpec carries the endpoint and fixed query parameters behind one
// stream; only the offset parameter moves between pages.
type streamSpec struct {
	path     string
	listKey  string
	category string
	params   map[string]string
}

// New builds the site from opts. One stream serves the consultation cases,
// then one stream per configured solved-case category and one per guide
// category, in that order.
func New(opts Options) *Site {
	jar, _ := cookiejar.New(nil)
	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetCookieJar(jar).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", userAgent)

	s := &Site{
		client: client,
		opts:   opts,
		specs:  map[string]streamSpec{},
	}

	qna := lawharvest.Stream{
		Key:         "lawtalk/consultation_case",
		Label:       "consultation cases",
		StartOffset: opts.QnaStartOffset,
	}
	if opts.QnaEndOffset > opts.QnaStartOffset {
		end := opts.QnaEndOffset
		qna.EndOffset = &end
	}
	s.streams = append(s.streams, qna)
	s.specs[qna.Key] = streamSpec{
		path:    searchPath,
		listKey: "questions",
		params: map[string]string{
			"blindFilter": "true",
			"filter":      "answers",
			"limit":       "10",
			"sort":        "recentAnswer",
			"withRelated": "answers,lawyer,answerRevisions,keywords",
		},
	}

	s.addCategoryStreams("lawtalk/solved_cases/", "solved cases: ", solvedPath,
		opts.SolvedCategories, opts.SolvedStartOffset, opts.SolvedEndOffset)
	s.addCategoryStreams("lawtalk/guide_posts/", "guide posts: ", guidePath,
		opts.GuideCategories, opts.GuideStartOffset, opts.GuideEndOffset)

	return s
}

// addCategoryStreams registers one posts stream per category, in
// deterministic name order.
func (s *Site) addCategoryStreams(keyPrefix, labelPrefix, path string, categories map[string]string, start, end int) {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		stream := lawharvest.Stream{
			Key:         keyPrefix + name,
			Label:       labelPrefix + name,
			StartOffset: start,
		}
		if end > start {
			bound := end
			stream.EndOffset = &bound
		}
		s.streams = append(s.streams, stream)
		s.specs[stream.Key] = streamSpec{
			path:     path,
			listKey:  "posts",
			category: name,
			params: map[string]string{
				"category": categories[name],
				"limit":    "10",
			},
		}
	}
}

func (s *Site) Name() string { return "lawtalk" }

func (s *Site) Streams() []lawharvest.Stream { return s.streams }

func (s *Site) PageSize() int { return 10 }

func (s *Site) EmptyThreshold() int { return 1 }

func (s *Site) RequestInterval() time.Duration { return s.opts.Interval }

// Login establishes the session. The site answers a successful login with a
// connect.sid cookie; its absence means the credentials were rejected.
func (s *Site) Login(ctx context.Context) error {
	if s.opts.Username == "" || s.opts.Password == "" {
		return lawharvest.Errorf(lawharvest.EINVALID, "Lawtalk credentials are not configured. Set LAWTALK_ID and LAWTALK_PW.")
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Referer", s.opts.BaseURL+"/sign-in").
		SetBody(map[string]any{
			"username": s.opts.Username,
			"password": s.opts.Password,
			"remember": false,
		}).
		Post(loginPath)
	if err != nil {
		return lawharvest.Errorf(lawharvest.EUNAVAILABLE, "login request failed: %s", err)
	}
	if resp.IsError() {
		return lawharvest.Errorf(lawharvest.EUNAUTHORIZED, "Login failed with status %d.", resp.StatusCode())
	}

	for _, c := range resp.Cookies() {
		if c.Name == sessionCookie {
			return nil
		}
	}
	return lawharvest.Errorf(lawharvest.EUNAUTHORIZED, "Login failed: session cookie not issued.")
}

func (s *Site) FetchPage(ctx context.Context, stream lawharvest.Stream, offset int) ([]byte, error) {
	spec, ok := s.specs[stream.Key]
	if !ok {
		return nil, lawharvest.Errorf(lawharvest.EINVALID, "unknown stream %q", stream.Key)
	}

	req := s.client.R().
		SetContext(ctx).
		SetQueryParams(spec.params).
		SetQueryParam("offset", strconv.Itoa(offset))
	resp, err := req.Get(spec.path)
	if err != nil {
		return nil, lawharvest.Errorf(lawharvest.EUNAVAILABLE, "fetch %s offset %d: %s", stream.Key, offset, err)
	}
	if resp.IsError() {
		return nil, lawharvest.Errorf(lawharvest.EUNAVAILABLE, "fetch %s offset %d: status %d", stream.Key, offset, resp.StatusCode())
	}
	return resp.Body(), nil
}

func (s *Site) ExtractPage(stream lawharvest.Stream, raw []byte) (*lawharvest.PageData, error) {
	spec, ok := s.specs[stream.Key]
	if !ok {
		return nil, lawharvest.Errorf(lawharvest.EINVALID, "unknown stream %q", stream.Key)
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, lawharvest.Errorf(lawharvest.EINTERNAL, "decode %s listing: %s", stream.Key, err)
	}

	var items []map[string]any
	if listing, ok := payload[spec.listKey]; ok {
		if err := json.Unmarshal(listing, &items); err != nil {
			return nil, lawharvest.Errorf(lawharvest.EINTERNAL, "decode %s items: %s", stream.Key, err)
		}
	}

	page := &lawharvest.PageData{HasListing: len(items) > 0}
	for _, item := range items {
		rec := recordFromItem(item, spec.category)
		if err := rec.Validate(); err != nil {
			page.Dropped++
			continue
		}
		page.Records = append(page.Records, rec)
	}
	return page, nil
}

// recordFromItem maps one listing item to a Record. Fields without a
// top-level slot land in Meta untouched so the detail projection keeps them.
func recordFromItem(item map[string]any, category string) lawharvest.Record {
	rec := lawharvest.Record{
		ID:        stringField(item, "_id"),
		Category:  category,
		Title:     stringField(item, "title"),
		Body:      stringField(item, "body"),
		CreatedAt: stringField(item, "createdAt"),
		UpdatedAt: stringField(item, "updatedAt"),
	}
	if rec.Category == "" {
		rec.Category = stringField(item, "category")
	}

	known := map[string]bool{"_id": true, "title": true, "body": true, "createdAt": true, "updatedAt": true}
	for k, v := range item {
		if known[k] {
			continue
		}
		if rec.Meta == nil {
			rec.Meta = map[string]any{}
		}
		rec.Meta[k] = v
	}
	return rec
}

func stringField(item map[string]any, key string) string {
	v, _ := item[key].(string)
	return v
}
