/*
DESCRIPTION
  youtube.go provides the production platform service for publishing
  videos to YouTube through the Data API v3 resumable upload protocol.

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

// Package youtube implements the publish.PlatformService capability
// against YouTube. Session negotiation and chunk transfer speak the
// resumable upload protocol directly; metadata follow-ups go through
// the generated Data API client.
package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"

	"github.com/clipcast/publisher/publish"
)

// uploadEndpoint is the resumable upload negotiation endpoint.
const uploadEndpoint = "https://www.googleapis.com/upload/youtube/v3/videos?uploadType=resumable&part=snippet,status"

// Upload status constants reported by CheckStatus.
const (
	UploadStatusUploaded  = "uploaded"
	UploadStatusProcessed = "processed"
	UploadStatusFailed    = "failed"
	UploadStatusRejected  = "rejected"
	UploadStatusDeleted   = "deleted"
)

var ErrUnknownStatus = errors.New("unknown video status")

// Service publishes videos to YouTube. It implements
// publish.PlatformService.
type Service struct {
	client   *http.Client
	api      *youtubeapi.Service
	log      func(string, ...interface{})
	endpoint string

	// Total byte lengths per open session, needed to form
	// Content-Range headers on chunk transfers.
	mu       sync.Mutex
	sessions map[string]int64
}

// ServiceOption is a functional option for configuring a Service.
type ServiceOption func(*Service)

// WithEndpoint overrides the resumable upload endpoint. Intended for
// testing against a local server.
func WithEndpoint(url string) ServiceOption {
	return func(s *Service) { s.endpoint = url }
}

// NewService creates a YouTube platform service from an authorized
// HTTP client (see NewClient). log may be nil for silence.
func NewService(ctx context.Context, client *http.Client, log func(string, ...interface{}), opts ...ServiceOption) (*Service, error) {
	if log == nil {
		log = func(string, ...interface{}) {}
	}
	s := &Service{
		client:   client,
		log:      log,
		endpoint: uploadEndpoint,
		sessions: make(map[string]int64),
	}
	for _, opt := range opts {
		opt(s)
	}

	api, err := youtubeapi.NewService(ctx,
		option.WithHTTPClient(client),
		option.WithEndpoint(apiEndpointFor(s.endpoint)),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create youtube service: %w", err)
	}
	s.api = api
	return s, nil
}

// apiEndpointFor derives the Data API base for a given upload
// endpoint. For the production endpoint the generated client default
// is kept; for overridden (test) endpoints the same host is used.
func apiEndpointFor(upload string) string {
	if upload == uploadEndpoint {
		return "https://youtube.googleapis.com/"
	}
	if i := strings.Index(upload, "/upload"); i > 0 {
		return upload[:i] + "/"
	}
	return upload
}

// OpenSession negotiates a resumable upload session, declaring the
// video metadata and total byte length. The returned session reference
// is the platform-issued session URI.
func (s *Service) OpenSession(ctx context.Context, meta publish.SessionMeta, size int64) (string, error) {
	video := &youtubeapi.Video{
		Snippet: &youtubeapi.VideoSnippet{
			Title:           meta.Title,
			Description:     meta.Description,
			Tags:            meta.Tags, // The API returns a 400 Bad Request response if tags is an empty string.
			CategoryId:      meta.CategoryID,
			DefaultLanguage: languageCode(meta.Language),
		},
		Status: &youtubeapi.VideoStatus{
			PrivacyStatus:           meta.Privacy,
			SelfDeclaredMadeForKids: false,
			ForceSendFields:         []string{"SelfDeclaredMadeForKids"},
		},
	}
	if meta.PublishAt != nil {
		video.Status.PublishAt = meta.PublishAt.UTC().Format(time.RFC3339)
	}

	body, err := json.Marshal(video)
	if err != nil {
		return "", fmt.Errorf("could not marshal video metadata: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("could not create session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("X-Upload-Content-Length", strconv.FormatInt(size, 10))
	req.Header.Set("X-Upload-Content-Type", "video/*")

	s.log("negotiating upload session, title: %s, privacy: %s, size: %d", meta.Title, meta.Privacy, size)
	resp, err := s.client.Do(req)
	if err != nil {
		return "", transportErr(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", classifyResponse(resp)
	}

	session := resp.Header.Get("Location")
	if session == "" {
		return "", &publish.RejectedByPlatformError{
			HTTPStatus: resp.StatusCode,
			Message:    "platform returned no session URI",
		}
	}

	s.mu.Lock()
	s.sessions[session] = size
	s.mu.Unlock()

	return session, nil
}

// UploadChunk transfers one chunk against the session URI with a
// Content-Range header. A 308 response advances the acknowledged
// offset; a 2xx response carries the completed video resource.
func (s *Service) UploadChunk(ctx context.Context, session string, offset int64, chunk []byte, last bool) (publish.ChunkResult, error) {
	s.mu.Lock()
	total, ok := s.sessions[session]
	s.mu.Unlock()
	if !ok {
		return publish.ChunkResult{}, &publish.RejectedByPlatformError{Message: "unknown upload session"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, session, bytes.NewReader(chunk))
	if err != nil {
		return publish.ChunkResult{}, fmt.Errorf("could not create chunk request: %w", err)
	}
	req.Header.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", offset, offset+int64(len(chunk))-1, total))
	req.ContentLength = int64(len(chunk))

	resp, err := s.client.Do(req)
	if err != nil {
		return publish.ChunkResult{}, transportErr(ctx, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusPermanentRedirect: // 308: resume incomplete.
		return publish.ChunkResult{NextOffset: nextOffsetFromRange(resp.Header.Get("Range"), offset, chunk)}, nil

	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		var video youtubeapi.Video
		if err := json.NewDecoder(resp.Body).Decode(&video); err != nil {
			return publish.ChunkResult{}, fmt.Errorf("could not decode completed video resource: %w", err)
		}
		s.mu.Lock()
		delete(s.sessions, session)
		s.mu.Unlock()
		return publish.ChunkResult{NextOffset: offset + int64(len(chunk)), Done: true, VideoID: video.Id}, nil

	default:
		return publish.ChunkResult{}, classifyResponse(resp)
	}
}

// nextOffsetFromRange parses a "Range: bytes=0-N" acknowledgement. If
// the header is absent the platform has acknowledged nothing beyond
// the current chunk, so the local end offset is assumed.
func nextOffsetFromRange(rangeHeader string, offset int64, chunk []byte) int64 {
	const prefix = "bytes=0-"
	if strings.HasPrefix(rangeHeader, prefix) {
		if n, err := strconv.ParseInt(rangeHeader[len(prefix):], 10, 64); err == nil {
			return n + 1
		}
	}
	return offset + int64(len(chunk))
}

// SetMonetization flips the monetization flag on a published video via
// a metadata update.
func (s *Service) SetMonetization(ctx context.Context, videoID string, enabled bool) error {
	s.log("setting monetization for video %s to %v", videoID, enabled)
	_, err := youtubeapi.NewVideosService(s.api).Update([]string{"monetizationDetails"}, &youtubeapi.Video{
		Id: videoID,
		MonetizationDetails: &youtubeapi.VideoMonetizationDetails{
			Access: &youtubeapi.AccessPolicy{Allowed: enabled, ForceSendFields: []string{"Allowed"}},
		},
	}).Context(ctx).Do()
	if err != nil {
		return classifyAPIError(err)
	}
	return nil
}

// AbortSession cancels an upload session. Best-effort; callers treat a
// failure as advisory since abandoned sessions expire platform-side.
func (s *Service) AbortSession(ctx context.Context, session string) error {
	s.mu.Lock()
	delete(s.sessions, session)
	s.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, session, nil)
	if err != nil {
		return fmt.Errorf("could not create abort request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return transportErr(ctx, err)
	}
	resp.Body.Close()
	return nil
}

// CheckStatus checks the processing status for the video with the
// associated videoID. The returned status will be one of:
// - UploadStatusUploaded
// - UploadStatusProcessed
// - UploadStatusFailed
// - UploadStatusRejected
// - UploadStatusDeleted
func (s *Service) CheckStatus(ctx context.Context, videoID string) (string, error) {
	vid, err := youtubeapi.NewVideosService(s.api).List([]string{"status"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		return "", classifyAPIError(err)
	}
	if len(vid.Items) == 0 {
		return "", fmt.Errorf("video not found")
	}

	switch vid.Items[0].Status.UploadStatus {
	case "processed":
		return UploadStatusProcessed, nil
	case "failed":
		return UploadStatusFailed, nil
	case "rejected":
		return UploadStatusRejected, nil
	case "deleted":
		return UploadStatusDeleted, nil
	case "uploaded":
		return UploadStatusUploaded, nil
	default:
		return "", ErrUnknownStatus
	}
}

// languageCode reduces a free-form language value to something
// resembling a BCP-47 code for the snippet's default language.
func languageCode(language string) string {
	l := strings.ToLower(strings.TrimSpace(language))
	switch {
	case l == "":
		return ""
	case len(l) <= 5 && !strings.Contains(l, " "):
		return l
	default:
		// Best effort for spelled-out names, e.g. "English" -> "en".
		return l[:2]
	}
}

// transportErr classifies a client.Do failure: context expiry is a
// timeout-flavoured transient error, anything else is a retryable
// network condition.
func transportErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return &publish.TransientNetworkError{Cause: ctx.Err()}
	}
	return &publish.TransientNetworkError{Cause: err}
}

// apiErrorBody is the shape of a Data API error response body.
type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

// classifyResponse maps a non-success HTTP response onto the publish
// error taxonomy, preserving the platform's diagnostic message.
func classifyResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var parsed apiErrorBody
	msg := strings.TrimSpace(string(body))
	reason := ""
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		msg = parsed.Error.Message
		if len(parsed.Error.Errors) > 0 {
			reason = parsed.Error.Errors[0].Reason
		}
	}

	return classify(resp.StatusCode, reason, msg)
}

// classifyAPIError maps a generated-client error onto the publish
// error taxonomy.
func classifyAPIError(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return &publish.TransientNetworkError{Cause: err}
	}
	reason := ""
	if len(gerr.Errors) > 0 {
		reason = gerr.Errors[0].Reason
	}
	return classify(gerr.Code, reason, gerr.Message)
}

// quotaReasons are 403 reasons that indicate quota or rate limiting
// rather than a credential problem.
var quotaReasons = map[string]bool{
	"quotaExceeded":         true,
	"rateLimitExceeded":     true,
	"userRateLimitExceeded": true,
	"dailyLimitExceeded":    true,
	"uploadLimitExceeded":   true,
	"servingLimitExceeded":  true,
	"youtube.quotaExceeded": true,
}

func classify(status int, reason, msg string) error {
	cause := fmt.Errorf("%s (reason: %s)", msg, reason)
	switch {
	case status == http.StatusUnauthorized:
		return &publish.AuthError{Cause: cause}
	case status == http.StatusTooManyRequests:
		return &publish.QuotaError{Cause: cause}
	case status == http.StatusForbidden && quotaReasons[reason]:
		return &publish.QuotaError{Cause: cause}
	case status == http.StatusForbidden:
		return &publish.AuthError{Cause: cause}
	case status >= 500:
		return &publish.TransientNetworkError{Cause: cause}
	default:
		return &publish.RejectedByPlatformError{HTTPStatus: status, Message: msg}
	}
}
