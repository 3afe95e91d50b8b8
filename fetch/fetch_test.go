package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	body := strings.Repeat("v", 1024)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), t.Logf)
	payload, err := f.Fetch(context.Background(), srv.URL+"/clips/demo-run.mp4")
	require.NoError(t, err)

	assert.Equal(t, "demo-run.mp4", payload.Name)
	assert.EqualValues(t, len(body), payload.Size)
	assert.Len(t, payload.Data, len(body))
}

func TestFetchTooLargeDeclared(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		w.Header().Set("Content-Length", "999999999999")
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), nil)
	_, err := f.Fetch(context.Background(), srv.URL+"/big.mp4")

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ReasonTooLarge, fe.Reason)
}

func TestFetchTooLargeMidStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Flush before writing so no Content-Length header is sent and
		// the ceiling can only trip during the transfer itself.
		w.Header().Set("Content-Type", "video/mp4")
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		w.Write([]byte(strings.Repeat("v", 256)))
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), nil)
	f.maxBytes = 64
	_, err := f.Fetch(context.Background(), srv.URL+"/stream.mp4")

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ReasonTooLarge, fe.Reason)
}

func TestFetchNonVideoResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>not a video</html>"))
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), nil)
	_, err := f.Fetch(context.Background(), srv.URL+"/page")

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ReasonNonVideoResponse, fe.Reason)
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	f := NewFetcher(srv.Client(), nil)
	_, err := f.Fetch(ctx, srv.URL+"/slow.mp4")

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ReasonTimeout, fe.Reason)
}

func TestFetchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // Closed immediately so the address refuses connections.

	f := NewFetcher(nil, nil)
	_, err := f.Fetch(context.Background(), srv.URL+"/gone.mp4")

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ReasonUnreachable, fe.Reason)
}

func TestFetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), nil)
	_, err := f.Fetch(context.Background(), srv.URL+"/missing.mp4")

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ReasonUnreachable, fe.Reason)
}

func TestNameFromURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "https://cdn.example.com/clips/demo-run.mp4", want: "demo-run.mp4"},
		{in: "https://cdn.example.com/clips/", want: "clips"},
		{in: "https://cdn.example.com/", want: "video.mp4"},
		{in: "https://cdn.example.com", want: "video.mp4"},
	}

	for i, test := range tests {
		got := nameFromURL(test.in)
		if got != test.want {
			t.Errorf("did not get expected result for test no. %d \ngot: %s \nwant: %s", i, got, test.want)
		}
	}
}

func TestVideoContentType(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{in: "video/mp4", want: true},
		{in: "video/webm; charset=binary", want: true},
		{in: "application/octet-stream", want: true},
		{in: "", want: true},
		{in: "text/html", want: false},
		{in: "application/json", want: false},
	}

	for i, test := range tests {
		got := videoContentType(test.in)
		if got != test.want {
			t.Errorf("did not get expected result for test no. %d (%q): got %v, want %v", i, test.in, got, test.want)
		}
	}
}
