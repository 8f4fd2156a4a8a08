// Package caselaw integrates the law.go.kr open-data precedent search. The
// service answers plain GET requests with server-rendered HTML, but only
// once the session carries the cookies the main page hands out, so the
// client primes itself against the portal before the first search.
package caselaw

import (
	"bytes"
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/ddobak/lawharvest"
)

const (
	searchPath = "/lawSearch.do"
	portalURL  = "https://www.law.go.kr/"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

var precIDRe = regexp.MustCompile(`ID=(\d+)`)

// Options configures the site integration.
type Options struct {
	BaseURL string

	// OC is the open-data API credential sent with every search.
	OC string

	// Keywords each get their own stream of search result pages.
	Keywords []string

	// MaxPages bounds every keyword's page range.
	MaxPages int

	// PortalURL is the page fetched once to prime session cookies.
	// Defaults to the law.go.kr portal.
	PortalURL string

	Interval time.Duration
	Timeout  time.Duration
}

var _ lawharvest.Site = (*Site)(nil)

// Site crawls precedent search results, one stream per search keyword.
type Site struct {
	client *resty.Client
	opts   Options
	primed bool
}

// New builds the site from opts.
func New(opts Options) *Site {
	if opts.MaxPages <= 0 {
		opts.MaxPages = 5
	}
	if opts.PortalURL == "" {
		opts.PortalURL = portalURL
	}
	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", userAgent)
	return &Site{client: client, opts: opts}
}

func (s *Site) Name() string { return "caselaw" }

func (s *Site) Streams() []lawharvest.Stream {
	streams := make([]lawharvest.Stream, 0, len(s.opts.Keywords))
	for _, keyword := range s.opts.Keywords {
		end := 1 + s.opts.MaxPages
		streams = append(streams, lawharvest.Stream{
			Key:         "caselaw/precedent/" + keyword,
			Label:       "precedents: " + keyword,
			StartOffset: 1,
			EndOffset:   &end,
		})
	}
	return streams
}

// PageSize is 1: the cursor is a page number.
func (s *Site) PageSize() int { return 1 }

func (s *Site) EmptyThreshold() int { return 1 }

func (s *Site) RequestInterval() time.Duration { return s.opts.Interval }

func (s *Site) FetchPage(ctx context.Context, stream lawharvest.Stream, page int) ([]byte, error) {
	if !s.primed {
		// Best effort: a failed priming request still leaves the search
		// usable for sessions that do not require the portal cookies.
		if resp, err := s.client.R().SetContext(ctx).Get(s.opts.PortalURL); err == nil && !resp.IsError() {
			s.primed = true
		}
	}

	keyword := strings.TrimPrefix(stream.Key, "caselaw/precedent/")
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"OC":      s.opts.OC,
			"target":  "prec",
			"type":    "HTML",
			"search":  "1",
			"query":   keyword,
			"display": "20",
			"page":    strconv.Itoa(page),
			"sort":    "ddes",
		}).
		Get(searchPath)
	if err != nil {
		return nil, lawharvest.Errorf(lawharvest.EUNAVAILABLE, "search %q page %d: %s", keyword, page, err)
	}
	if resp.IsError() {
		return nil, lawharvest.Errorf(lawharvest.EUNAVAILABLE, "search %q page %d: status %d", keyword, page, resp.StatusCode())
	}
	return resp.Body(), nil
}

func (s *Site) ExtractPage(stream lawharvest.Stream, raw []byte) (*lawharvest.PageData, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, lawharvest.Errorf(lawharvest.EINTERNAL, "parse search results: %s", err)
	}

	keyword := strings.TrimPrefix(stream.Key, "caselaw/precedent/")

	page := &lawharvest.PageData{}
	doc.Find("table.tbl8 tbody tr").Each(func(_ int, row *goquery.Selection) {
		page.HasListing = true
		rec, ok := recordFromRow(row, keyword)
		if !ok {
			page.Dropped++
			return
		}
		page.Records = append(page.Records, rec)
	})
	return page, nil
}

// recordFromRow maps one result row to a Record. Column order is fixed by
// the service: number, case name (with the detail link carrying the
// precedent ID), court, case type, judgment type, judgment date.
func recordFromRow(row *goquery.Selection, keyword string) (lawharvest.Record, bool) {
	cells := row.Find("td")
	if cells.Length() < 6 {
		return lawharvest.Record{}, false
	}

	link := cells.Eq(1).Find("a").First()
	href, _ := link.Attr("href")
	precID := ""
	if m := precIDRe.FindStringSubmatch(href); m != nil {
		precID = m[1]
	}
	if precID == "" {
		return lawharvest.Record{}, false
	}

	caseName := cleanText(cells.Eq(1).Text())
	courtName := cleanText(cells.Eq(2).Text())
	caseType := cleanText(cells.Eq(3).Text())
	judgmentType := cleanText(cells.Eq(4).Text())
	judgmentDate := cleanText(cells.Eq(5).Text())

	var body strings.Builder
	body.WriteString("법원: " + courtName)
	body.WriteString("\n사건종류: " + caseType)
	body.WriteString("\n판결유형: " + judgmentType)
	body.WriteString("\n선고일자: " + judgmentDate)

	rec := lawharvest.Record{
		ID:       precID,
		Category: keyword,
		Title:    caseName,
		Body:     body.String(),
		Meta: map[string]any{
			"courtName":    courtName,
			"caseTypeName": caseType,
			"judgmentType": judgmentType,
			"judgmentDate": judgmentDate,
			"detailLink":   href,
			"keyword":      keyword,
		},
	}
	if err := rec.Validate(); err != nil {
		return lawharvest.Record{}, false
	}
	return rec, true
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
