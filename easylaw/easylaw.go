// Package easylaw integrates the easylaw.go.kr Q&A archive. The site has no
// API: listings come back as server-rendered HTML from a form POST, with the
// page number as the moving cursor.
package easylaw

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
	listPath = "/CSP/OnhunqueansLstRetrieve.laf"

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/137.0.0.0 Safari/537.36"

	fallbackCategory = "기타"
)

var (
	questionSeqRe = regexp.MustCompile(`onhunqueSeq=(\d+)`)
	categorySeqRe = regexp.MustCompile(`onhunqnaAstSeq=(\d+)`)
)

// Options configures the site integration.
type Options struct {
	BaseURL string

	StartPage     int
	MaxPages      int
	MaxEmptyPages int

	// Categories maps the site's category IDs to display names.
	Categories map[string]string

	Interval time.Duration
	Timeout  time.Duration
}

var _ lawharvest.Site = (*Site)(nil)

// Site crawls the easylaw Q&A listing as a single stream of numbered pages.
type Site struct {
	client *resty.Client
	opts   Options
}

// New builds the site from opts.
func New(opts Options) *Site {
	if opts.StartPage <= 0 {
		opts.StartPage = 1
	}
	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "ko-KR,ko;q=0.9,en;q=0.8").
		SetHeader("Origin", opts.BaseURL).
		SetHeader("Referer", opts.BaseURL+listPath+"?search_put=")
	return &Site{client: client, opts: opts}
}

func (s *Site) Name() string { return "easylaw" }

func (s *Site) Streams() []lawharvest.Stream {
	stream := lawharvest.Stream{
		Key:         "easylaw/onhunqna",
		Label:       "legal Q&A",
		StartOffset: s.opts.StartPage,
	}
	if s.opts.MaxPages > 0 {
		end := s.opts.StartPage + s.opts.MaxPages
		stream.EndOffset = &end
	}
	return []lawharvest.Stream{stream}
}

// PageSize is 1: the cursor is a page number, not a record offset.
func (s *Site) PageSize() int { return 1 }

func (s *Site) EmptyThreshold() int {
	if s.opts.MaxEmptyPages <= 0 {
		return 3
	}
	return s.opts.MaxEmptyPages
}

func (s *Site) RequestInterval() time.Duration { return s.opts.Interval }

func (s *Site) FetchPage(ctx context.Context, stream lawharvest.Stream, page int) ([]byte, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"curPage": strconv.Itoa(page),
			"sch":     "",
			"pageTpe": "20",
		}).
		Post(listPath)
	if err != nil {
		return nil, lawharvest.Errorf(lawharvest.EUNAVAILABLE, "fetch page %d: %s", page, err)
	}
	if resp.IsError() {
		return nil, lawharvest.Errorf(lawharvest.EUNAVAILABLE, "fetch page %d: status %d", page, resp.StatusCode())
	}
	return resp.Body(), nil
}

func (s *Site) ExtractPage(stream lawharvest.Stream, raw []byte) (*lawharvest.PageData, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, lawharvest.Errorf(lawharvest.EINTERNAL, "parse listing page: %s", err)
	}

	page := &lawharvest.PageData{}
	doc.Find("ul.question li.qa").Each(func(_ int, item *goquery.Selection) {
		page.HasListing = true
		rec, ok := s.recordFromItem(item)
		if !ok {
			page.Dropped++
			return
		}
		page.Records = append(page.Records, rec)
	})
	return page, nil
}

// recordFromItem extracts one Q&A entry. The question link carries the
// record and category IDs in its href; the listing shows no timestamps, so
// UpdatedAt stays empty and incremental runs collect everything.
func (s *Site) recordFromItem(item *goquery.Selection) (lawharvest.Record, bool) {
	link := item.Find("div.ttl a").First()
	if link.Length() == 0 {
		return lawharvest.Record{}, false
	}
	question := cleanText(link.Text())
	answer := cleanText(item.Find("div.ans p.line4-text").First().Text())

	href, _ := link.Attr("href")
	questionID := firstMatch(questionSeqRe, href)
	categoryID := firstMatch(categorySeqRe, href)

	category := fallbackCategory
	if name, ok := s.opts.Categories[categoryID]; ok {
		category = name
	}

	rec := lawharvest.Record{
		ID:       questionID,
		Category: category,
		Title:    question,
		Body:     answer,
		Meta: map[string]any{
			"categoryId":   categoryID,
			"detailUrl":    href,
			"fullUrl":      fullURL(s.opts.BaseURL, href),
			"documentType": "qa",
		},
	}
	if err := rec.Validate(); err != nil {
		return lawharvest.Record{}, false
	}
	return rec, true
}

func firstMatch(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}

func fullURL(base, href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return base + href
}

// cleanText collapses runs of whitespace the markup is full of.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
