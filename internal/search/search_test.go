package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{
  "lastBuildDate": "Mon, 15 Jan 2024 10:00:00 +0900",
  "total": 3,
  "items": [
    {
      "title": "OO기업, <b>백엔드 개발자</b> 10명 신입 공채",
      "originallink": "https://www.hankyung.com/article/2024011500001",
      "link": "https://n.news.naver.com/mnews/article/015/0004900001",
      "description": "&quot;인재 확보&quot; 나선 OO기업 &amp; 자회사",
      "pubDate": "Mon, 15 Jan 2024 09:30:00 +0900"
    },
    {
      "title": "네이버 전용 기사",
      "originallink": "",
      "link": "https://n.news.naver.com/mnews/article/001/0014000002",
      "description": "요약",
      "pubDate": "not a date"
    },
    {
      "title": "링크 없는 기사",
      "originallink": "",
      "link": "",
      "description": "버려짐",
      "pubDate": ""
    }
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(Config{Endpoint: server.URL, ClientID: "id", ClientSecret: "secret"}, nil)
}

func TestFetch_ParsesItems(t *testing.T) {
	var gotQuery, gotDisplay, gotSort, gotID, gotSecret string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotDisplay = r.URL.Query().Get("display")
		gotSort = r.URL.Query().Get("sort")
		gotID = r.Header.Get("X-Naver-Client-Id")
		gotSecret = r.Header.Get("X-Naver-Client-Secret")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleResponse))
	})

	articles, err := c.Fetch(context.Background(), "백엔드 채용", 10, SortDate)
	require.NoError(t, err)

	assert.Equal(t, "백엔드 채용", gotQuery)
	assert.Equal(t, "10", gotDisplay)
	assert.Equal(t, "date", gotSort)
	assert.Equal(t, "id", gotID)
	assert.Equal(t, "secret", gotSecret)

	require.Len(t, articles, 2)

	first := articles[0]
	assert.Equal(t, "OO기업, 백엔드 개발자 10명 신입 공채", first.Title)
	assert.Equal(t, `"인재 확보" 나선 OO기업 & 자회사`, first.Snippet)
	assert.Equal(t, "https://www.hankyung.com/article/2024011500001", first.SourceURL)
	assert.Equal(t, "hankyung.com", first.SourceName)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 30, 0, 0, time.UTC), first.PublishedAt.UTC())

	second := articles[1]
	assert.Equal(t, "https://n.news.naver.com/mnews/article/001/0014000002", second.SourceURL)
	assert.Equal(t, "n.news.naver.com", second.SourceName)
	assert.True(t, second.PublishedAt.IsZero())
}

func TestFetch_ClampsLimitAndSort(t *testing.T) {
	var gotDisplay, gotSort string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotDisplay = r.URL.Query().Get("display")
		gotSort = r.URL.Query().Get("sort")
		_, _ = w.Write([]byte(`{"items":[]}`))
	})

	_, err := c.Fetch(context.Background(), "채용", 500, "weird")
	require.NoError(t, err)
	assert.Equal(t, "100", gotDisplay)
	assert.Equal(t, "date", gotSort)
}

func TestFetch_LimitCapsResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sampleResponse))
	})

	articles, err := c.Fetch(context.Background(), "채용", 1, SortSimilarity)
	require.NoError(t, err)
	assert.Len(t, articles, 1)
}

func TestFetch_SoftErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		status  int
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			status: http.StatusInternalServerError,
		},
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
			status: http.StatusTooManyRequests,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"items": [`))
			},
			status: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)

			articles, err := c.Fetch(context.Background(), "채용", 10, SortDate)
			require.Error(t, err)
			assert.NotNil(t, articles)
			assert.Empty(t, articles)

			var serr *Error
			require.True(t, errors.As(err, &serr))
			assert.Equal(t, "채용", serr.Keyword)
			assert.Equal(t, tt.status, serr.StatusCode)
		})
	}
}

func TestFetch_TransportError(t *testing.T) {
	c := New(Config{Endpoint: "http://127.0.0.1:1/unreachable"}, nil)

	articles, err := c.Fetch(context.Background(), "채용", 10, SortDate)
	require.Error(t, err)
	assert.Empty(t, articles)

	var serr *Error
	assert.True(t, errors.As(err, &serr))
}

func TestFetch_EmptyKeyword(t *testing.T) {
	c := New(Config{}, nil)

	articles, err := c.Fetch(context.Background(), "   ", 10, SortDate)
	assert.Error(t, err)
	assert.Empty(t, articles)
}

func TestSourceName(t *testing.T) {
	assert.Equal(t, "mk.co.kr", sourceName("https://WWW.MK.CO.KR/news/1"))
	assert.Equal(t, "", sourceName("not a url"))
}
