/*
DESCRIPTION
  fetch.go provides retrieval of a remote video into memory with size
  and time bounds.

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

// Package fetch resolves a video URL into an in-memory payload. The
// transfer is bounded both in size and wall-clock time; an oversized
// body is aborted mid-transfer rather than buffered to completion.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/clipcast/publisher/model"
)

// Transfer bounds.
const (
	// MaxPayloadBytes is the ceiling on a fetched video body.
	MaxPayloadBytes = 256 << 20 // 256 MiB

	// DefaultTimeout bounds the entire transfer when the caller's
	// context carries no earlier deadline.
	DefaultTimeout = 60 * time.Second

	// defaultName is used when no file name can be derived from the URL.
	defaultName = "video.mp4"
)

// Failure reasons carried by FetchError.
const (
	ReasonUnreachable      = "unreachable"
	ReasonTooLarge         = "too_large"
	ReasonTimeout          = "timeout"
	ReasonNonVideoResponse = "non_video_response"
)

// Fetch failure sentinels, matched by FetchError.Unwrap.
var (
	errUnreachable = errors.New("remote source unreachable")
	errTooLarge    = errors.New("remote source exceeds size ceiling")
	errTimeout     = errors.New("remote fetch timed out")
	errNonVideo    = errors.New("remote source is not a video")
)

// FetchError describes why a remote fetch failed.
type FetchError struct {
	Reason string // One of the Reason constants.
	URL    string
	cause  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed (%s): %v", e.URL, e.Reason, e.cause)
}

func (e *FetchError) Unwrap() error { return e.cause }

// reasonErr ties a Reason constant to its sentinel for wrapping.
func reasonErr(reason string) error {
	switch reason {
	case ReasonTooLarge:
		return errTooLarge
	case ReasonTimeout:
		return errTimeout
	case ReasonNonVideoResponse:
		return errNonVideo
	default:
		return errUnreachable
	}
}

func failed(reason, url string, cause error) *FetchError {
	if cause == nil {
		cause = reasonErr(reason)
	}
	return &FetchError{Reason: reason, URL: url, cause: cause}
}

// Fetcher retrieves remote videos over HTTP.
type Fetcher struct {
	client   *http.Client
	log      func(string, ...interface{})
	maxBytes int64
}

// NewFetcher creates a Fetcher using the given HTTP client, or
// http.DefaultClient if client is nil. log may be nil for silence.
func NewFetcher(client *http.Client, log func(string, ...interface{})) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = func(string, ...interface{}) {}
	}
	return &Fetcher{client: client, log: log, maxBytes: MaxPayloadBytes}
}

// Fetch resolves rawURL into an in-memory payload. Failures are
// reported as *FetchError with a classified reason. The size ceiling
// is checked against the Content-Length header when present and
// enforced again while streaming, so an oversized transfer is aborted
// rather than completed.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*model.VideoSourcePayload, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, failed(ReasonUnreachable, rawURL, err)
	}

	f.log("fetching remote video: %s", rawURL)
	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, failed(ReasonTimeout, rawURL, err)
		}
		return nil, failed(ReasonUnreachable, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, failed(ReasonUnreachable, rawURL, fmt.Errorf("unexpected status: %s", resp.Status))
	}

	if !videoContentType(resp.Header.Get("Content-Type")) {
		return nil, failed(ReasonNonVideoResponse, rawURL, fmt.Errorf("content type: %s", resp.Header.Get("Content-Type")))
	}

	if resp.ContentLength > f.maxBytes {
		return nil, failed(ReasonTooLarge, rawURL, fmt.Errorf("declared length: %d", resp.ContentLength))
	}

	// Read one byte past the ceiling so an oversized body without a
	// Content-Length header is detected before it is fully buffered.
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, failed(ReasonTimeout, rawURL, err)
		}
		return nil, failed(ReasonUnreachable, rawURL, err)
	}
	if n > f.maxBytes {
		return nil, failed(ReasonTooLarge, rawURL, fmt.Errorf("body exceeds %d bytes", f.maxBytes))
	}

	f.log("fetched %d bytes from %s", n, rawURL)
	return model.NewVideoSourcePayload(nameFromURL(rawURL), buf.Bytes()), nil
}

// videoContentType reports whether a Content-Type header value is
// acceptable for a video payload. Octet streams are allowed since many
// CDNs serve video files without a media-specific type.
func videoContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return strings.HasPrefix(ct, "video/") || ct == "application/octet-stream" || ct == ""
}

// nameFromURL derives a file name from the final path segment of the
// URL, falling back to a fixed default.
func nameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return defaultName
	}
	segs := strings.Split(u.Path, "/")
	for i := len(segs) - 1; i >= 0; i-- {
		if segs[i] != "" {
			return segs[i]
		}
	}
	return defaultName
}
