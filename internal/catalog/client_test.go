package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

const pageBody = `{
  "count": 36,
  "next": "https://example.test/api/starships/?page=2",
  "previous": null,
  "results": [
    {"name": "X-wing", "model": "T-65 X-wing", "manufacturer": "Incom Corporation",
     "cost_in_credits": "149999", "url": "https://example.test/api/starships/12/"},
    {"name": "Death Star", "model": "DS-1", "manufacturer": "Imperial Department",
     "cost_in_credits": "unknown", "url": "https://example.test/api/starships/9/",
     "image": "https://cdn.test/ds.png"}
  ]
}`

func TestFetchPageDecodesAndEnriches(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(pageBody))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	page, err := c.FetchPage(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "/starships/", gotPath)
	assert.Equal(t, "page=1", gotQuery)
	assert.Equal(t, 36, page.Count)
	assert.True(t, page.HasNext())
	assert.Nil(t, page.Previous)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "X-wing", page.Results[0].Name)
	assert.Equal(t, "https://picsum.photos/200/200?random=12", page.Results[0].Image)
	assert.Equal(t, "https://cdn.test/ds.png", page.Results[1].Image)
}

func TestFetchPageClampsPage(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"count":0,"results":[]}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, nil).FetchPage(context.Background(), -3)
	require.NoError(t, err)
	assert.Equal(t, "page=1", gotQuery)
}

func TestSearchSendsTerm(t *testing.T) {
	var search, page string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		search = r.URL.Query().Get("search")
		page = r.URL.Query().Get("page")
		w.Write([]byte(`{"count":0,"results":null}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, time.Second, nil).Search(context.Background(), "star destroyer", 2)
	require.NoError(t, err)
	assert.Equal(t, "star destroyer", search)
	assert.Equal(t, "2", page)
	assert.NotNil(t, res.Results)
	assert.Empty(t, res.Results)
}

func TestSearchBlankTermSkipsNetwork(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, time.Second, nil).Search(context.Background(), "   ", 1)
	require.NoError(t, err)
	assert.Empty(t, res.Results)
	assert.False(t, res.HasNext())
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestHTTPErrorClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, nil).FetchPage(context.Background(), 1)
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindHTTP, fe.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, fe.StatusCode)
	assert.Equal(t, "API error: 503", fe.Message())
}

func TestTimeoutClassified(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewClient(srv.URL, 50*time.Millisecond, nil).FetchPage(context.Background(), 1)
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindTimeout, fe.Kind)
	assert.Equal(t, "Request timeout. Please check your connection and try again.", fe.Message())
}

func TestNetworkErrorClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	_, err := NewClient(addr, time.Second, nil).FetchPage(context.Background(), 1)
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindNetwork, fe.Kind)
	assert.Equal(t, "Network error. Please check your connection.", fe.Message())
}

func TestCanceledContextNotClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient(srv.URL, time.Second, nil).FetchPage(ctx, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	var fe *FetchError
	assert.False(t, errors.As(err, &fe))
}

func TestMalformedBodyIsNotFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, nil).FetchPage(context.Background(), 1)
	require.Error(t, err)
	var fe *FetchError
	assert.False(t, errors.As(err, &fe))
}

func TestEnrich(t *testing.T) {
	cases := []struct {
		name string
		in   domain.Item
		want string
	}{
		{"numeric id", domain.Item{URL: "https://x/api/starships/3/"}, "https://picsum.photos/200/200?random=3"},
		{"no trailing slash", domain.Item{URL: "https://x/api/starships/42"}, "https://picsum.photos/200/200?random=42"},
		{"name fallback", domain.Item{URL: "https://x/ships/abc", Name: "Y wing"}, "https://picsum.photos/200/200?random=Y+wing"},
		{"kept", domain.Item{URL: "https://x/1/", Image: "keep.png"}, "keep.png"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Enrich(tc.in).Image)
		})
	}
}

func TestSharedFetchIgnoresOtherCallersCancellation(t *testing.T) {
	var hits int32
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		w.Write([]byte(pageBody))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, nil)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.FetchPage(firstCtx, 1)
		firstErr <- err
	}()
	<-started

	type result struct {
		page *Page
		err  error
	}
	second := make(chan result, 1)
	go func() {
		page, err := c.FetchPage(context.Background(), 1)
		second <- result{page, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	res := <-second
	require.NoError(t, res.err)
	assert.Len(t, res.page.Results, 2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestCallerDeadlineIsTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := NewClient(srv.URL, 5*time.Second, nil).FetchPage(ctx, 1)
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindTimeout, fe.Kind)
}
