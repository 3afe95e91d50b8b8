/*
DESCRIPTION
  youtube_test.go houses testing for the YouTube platform service,
  exercising the resumable upload protocol against a local server.

AUTHORS
  ClipCast contributors <dev@clipcast.io>

LICENSE
  Copyright (C) 2026 the ClipCast project.

  This is free software: you can redistribute it and/or modify it
  under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.

  This is distributed in the hope that it will be useful, but WITHOUT
  ANY WARRANTY; without even the implied warranty of MERCHANTABILITY
  or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public
  License for more details.

  You should have received a copy of the GNU General Public License in
  gpl.txt. If not, see http://www.gnu.org/licenses/.
*/

package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	youtubeapi "google.golang.org/api/youtube/v3"

	"github.com/clipcast/publisher/publish"
)

// newTestService spins up a Service against the given handler.
func newTestService(t *testing.T, handler http.Handler) (*Service, *httptest.Server) {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s, err := NewService(context.Background(), srv.Client(), t.Logf,
		WithEndpoint(srv.URL+"/upload/youtube/v3/videos?uploadType=resumable&part=snippet,status"))
	require.NoError(t, err)
	return s, srv
}

func scheduledMeta() publish.SessionMeta {
	at := time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)
	return publish.SessionMeta{
		Title:       "Demo Run | Gaming Video in English",
		Description: "Demo Run is here!",
		Tags:        []string{"gaming", "demo", "english"},
		CategoryID:  "20",
		Language:    "English",
		Privacy:     publish.PrivacyPrivate,
		PublishAt:   &at,
	}
}

func TestOpenSession(t *testing.T) {
	var gotVideo youtubeapi.Video
	var gotLength string

	mux := http.NewServeMux()
	var srvURL string
	mux.HandleFunc("/upload/youtube/v3/videos", func(w http.ResponseWriter, r *http.Request) {
		gotLength = r.Header.Get("X-Upload-Content-Length")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotVideo))
		w.Header().Set("Location", srvURL+"/resumable/abc")
		w.WriteHeader(http.StatusOK)
	})

	s, srv := newTestService(t, mux)
	srvURL = srv.URL

	session, err := s.OpenSession(context.Background(), scheduledMeta(), 1024)
	require.NoError(t, err)

	assert.Equal(t, srv.URL+"/resumable/abc", session)
	assert.Equal(t, "1024", gotLength)
	assert.Equal(t, "Demo Run | Gaming Video in English", gotVideo.Snippet.Title)
	assert.Equal(t, "20", gotVideo.Snippet.CategoryId)
	assert.Equal(t, "en", gotVideo.Snippet.DefaultLanguage)
	assert.Equal(t, "private", gotVideo.Status.PrivacyStatus)
	assert.Equal(t, "2099-01-01T00:00:00Z", gotVideo.Status.PublishAt)
}

func TestOpenSessionErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "auth",
			status: http.StatusUnauthorized,
			body:   `{"error": {"message": "Invalid Credentials", "errors": [{"reason": "authError"}]}}`,
			check: func(t *testing.T, err error) {
				var ae *publish.AuthError
				assert.ErrorAs(t, err, &ae)
			},
		},
		{
			name:   "quota",
			status: http.StatusForbidden,
			body:   `{"error": {"message": "Quota exceeded", "errors": [{"reason": "quotaExceeded"}]}}`,
			check: func(t *testing.T, err error) {
				var qe *publish.QuotaError
				assert.ErrorAs(t, err, &qe)
			},
		},
		{
			name:   "forbidden without quota reason",
			status: http.StatusForbidden,
			body:   `{"error": {"message": "Insufficient permissions", "errors": [{"reason": "insufficientPermissions"}]}}`,
			check: func(t *testing.T, err error) {
				var ae *publish.AuthError
				assert.ErrorAs(t, err, &ae)
			},
		},
		{
			name:   "rejected",
			status: http.StatusBadRequest,
			body:   `{"error": {"message": "Invalid category", "errors": [{"reason": "invalidCategory"}]}}`,
			check: func(t *testing.T, err error) {
				var re *publish.RejectedByPlatformError
				require.ErrorAs(t, err, &re)
				assert.Equal(t, http.StatusBadRequest, re.HTTPStatus)
				assert.Equal(t, "Invalid category", re.Message)
			},
		},
		{
			name:   "transient",
			status: http.StatusServiceUnavailable,
			body:   `backend unavailable`,
			check: func(t *testing.T, err error) {
				var te *publish.TransientNetworkError
				assert.ErrorAs(t, err, &te)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))

			_, err := s.OpenSession(context.Background(), scheduledMeta(), 1024)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestUploadChunks(t *testing.T) {
	var received []byte
	var ranges []string

	mux := http.NewServeMux()
	var srvURL string
	mux.HandleFunc("/upload/youtube/v3/videos", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", srvURL+"/resumable/abc")
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/resumable/abc", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received = append(received, body...)
		ranges = append(ranges, r.Header.Get("Content-Range"))

		if int64(len(received)) < 20 {
			w.Header().Set("Range", fmt.Sprintf("bytes=0-%d", len(received)-1))
			w.WriteHeader(http.StatusPermanentRedirect)
			return
		}
		json.NewEncoder(w).Encode(youtubeapi.Video{Id: "vid-abc"})
	})

	s, srv := newTestService(t, mux)
	srvURL = srv.URL

	meta := scheduledMeta()
	session, err := s.OpenSession(context.Background(), meta, 20)
	require.NoError(t, err)

	payload := []byte("01234567890123456789")

	res, err := s.UploadChunk(context.Background(), session, 0, payload[:10], false)
	require.NoError(t, err)
	assert.False(t, res.Done)
	assert.EqualValues(t, 10, res.NextOffset)

	res, err = s.UploadChunk(context.Background(), session, 10, payload[10:], true)
	require.NoError(t, err)
	assert.True(t, res.Done)
	assert.Equal(t, "vid-abc", res.VideoID)

	assert.Equal(t, payload, received)
	assert.Equal(t, []string{"bytes 0-9/20", "bytes 10-19/20"}, ranges)
}

func TestUploadChunkUnknownSession(t *testing.T) {
	s, srv := newTestService(t, http.NewServeMux())

	_, err := s.UploadChunk(context.Background(), srv.URL+"/resumable/nope", 0, []byte("x"), true)

	var re *publish.RejectedByPlatformError
	require.ErrorAs(t, err, &re)
}

func TestAbortSession(t *testing.T) {
	var aborted bool

	mux := http.NewServeMux()
	var srvURL string
	mux.HandleFunc("/upload/youtube/v3/videos", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", srvURL+"/resumable/abc")
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/resumable/abc", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			aborted = true
		}
		w.WriteHeader(http.StatusOK)
	})

	s, srv := newTestService(t, mux)
	srvURL = srv.URL

	session, err := s.OpenSession(context.Background(), scheduledMeta(), 10)
	require.NoError(t, err)
	require.NoError(t, s.AbortSession(context.Background(), session))
	assert.True(t, aborted)

	// The session is forgotten, so further chunks are rejected.
	_, err = s.UploadChunk(context.Background(), session, 0, []byte("x"), true)
	var re *publish.RejectedByPlatformError
	assert.ErrorAs(t, err, &re)
}

func TestNextOffsetFromRange(t *testing.T) {
	tests := []struct {
		header string
		offset int64
		chunk  []byte
		want   int64
	}{
		{header: "bytes=0-9", offset: 0, chunk: make([]byte, 10), want: 10},
		{header: "bytes=0-4", offset: 0, chunk: make([]byte, 10), want: 5},
		{header: "", offset: 10, chunk: make([]byte, 10), want: 20},
		{header: "garbage", offset: 10, chunk: make([]byte, 5), want: 15},
	}

	for i, test := range tests {
		got := nextOffsetFromRange(test.header, test.offset, test.chunk)
		if got != test.want {
			t.Errorf("did not get expected result for test no. %d \ngot: %d \nwant: %d", i, got, test.want)
		}
	}
}

func TestLanguageCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "en", want: "en"},
		{in: "en-US", want: "en-us"},
		{in: "English", want: "en"},
		{in: " Spanish ", want: "sp"},
		{in: "", want: ""},
	}

	for i, test := range tests {
		got := languageCode(test.in)
		if got != test.want {
			t.Errorf("did not get expected result for test no. %d \ngot: %s \nwant: %s", i, got, test.want)
		}
	}
}
