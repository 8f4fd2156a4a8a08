package easylaw_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ddobak/lawharvest/easylaw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingHTML = `<!DOCTYPE html>
<html><body>
<ul class="question">
  <li class="qa">
    <div class="ttl"><a href="/CSP/OnhunqueansInfoRetrieve.laf?onhunqueSeq=1234&amp;onhunqnaAstSeq=84">전세 계약이  만료되면
      보증금은 언제 돌려받나요?</a></div>
    <div class="ans"><p class="line4-text">임대차 계약이 종료되면 임대인은 보증금을 반환해야 합니다.</p></div>
  </li>
  <li class="qa">
    <div class="ttl"><a href="/CSP/OnhunqueansInfoRetrieve.laf?onhunqueSeq=5678&amp;onhunqnaAstSeq=999">미분류 질문</a></div>
    <div class="ans"><p class="line4-text">답변.</p></div>
  </li>
  <li class="qa">
    <div class="ttl"><a href="/CSP/OnhunqueansInfoRetrieve.laf?onhunqueSeq=9999&amp;onhunqnaAstSeq=84">답변 없는 질문</a></div>
    <div class="ans"><p class="line4-text"></p></div>
  </li>
</ul>
</body></html>`

func testSite(baseURL string) *easylaw.Site {
	return easylaw.New(easylaw.Options{
		BaseURL:    baseURL,
		StartPage:  1,
		MaxPages:   500,
		Categories: map[string]string{"84": "부동산_임대차"},
	})
}

func TestStreams(t *testing.T) {
	t.Parallel()

	site := testSite("https://www.easylaw.go.kr")
	streams := site.Streams()
	require.Len(t, streams, 1)
	assert.Equal(t, "easylaw/onhunqna", streams[0].Key)
	assert.Equal(t, 1, streams[0].StartOffset)
	require.NotNil(t, streams[0].EndOffset)
	assert.Equal(t, 501, *streams[0].EndOffset)
	assert.Equal(t, 1, site.PageSize())
	assert.Equal(t, 3, site.EmptyThreshold())
}

func TestFetchPage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/CSP/OnhunqueansLstRetrieve.laf", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "7", r.PostForm.Get("curPage"))
		assert.Equal(t, "20", r.PostForm.Get("pageTpe"))
		w.Write([]byte(listingHTML))
	}))
	t.Cleanup(srv.Close)

	site := testSite(srv.URL)
	raw, err := site.FetchPage(context.Background(), site.Streams()[0], 7)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "ul class=\"question\"")
}

func TestExtractPage(t *testing.T) {
	t.Parallel()

	site := testSite("https://www.easylaw.go.kr")
	stream := site.Streams()[0]

	t.Run("maps listing rows to records", func(t *testing.T) {
		t.Parallel()
		page, err := site.ExtractPage(stream, []byte(listingHTML))
		require.NoError(t, err)
		assert.True(t, page.HasListing)
		require.Len(t, page.Records, 2)

		rec := page.Records[0]
		assert.Equal(t, "1234", rec.ID)
		assert.Equal(t, "부동산_임대차", rec.Category)
		assert.Equal(t, "전세 계약이 만료되면 보증금은 언제 돌려받나요?", rec.Title)
		assert.Equal(t, "임대차 계약이 종료되면 임대인은 보증금을 반환해야 합니다.", rec.Body)
		assert.Empty(t, rec.UpdatedAt)
		assert.Equal(t, "84", rec.Meta["categoryId"])
		assert.Equal(t, "qa", rec.Meta["documentType"])
		assert.Equal(t,
			"https://www.easylaw.go.kr/CSP/OnhunqueansInfoRetrieve.laf?onhunqueSeq=1234&onhunqnaAstSeq=84",
			rec.Meta["fullUrl"])

		// 미분류 categories fall back to the catch-all name.
		assert.Equal(t, "기타", page.Records[1].Category)
		// The answerless entry is dropped.
		assert.Equal(t, 1, page.Dropped)
	})

	t.Run("page without a listing has no data", func(t *testing.T) {
		t.Parallel()
		page, err := site.ExtractPage(stream, []byte(`<html><body><p>검색 결과가 없습니다.</p></body></html>`))
		require.NoError(t, err)
		assert.False(t, page.HasListing)
		assert.Empty(t, page.Records)
	})
}
