/*
DESCRIPTION
  orchestrator.go provides the upload orchestrator, which validates
  publishing directives, negotiates a resumable upload session, drives
  the chunk transfer state machine with retry and backoff, and applies
  the monetization follow-up.

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

// Package publish drives the video publishing pipeline against an
// abstract hosting platform. Each publish call is handled end to end
// by a single task; chunks are transferred sequentially since the
// platform tracks a single resumable offset per session.
package publish

import (
	"context"
	"fmt"
	"time"

	"github.com/clipcast/publisher/model"
)

// Transfer bounds and defaults.
const (
	// DefaultChunkSize is the upload chunk size.
	DefaultChunkSize = 8 << 20 // 8 MiB

	// DefaultPublishTimeout bounds a whole publish call when the
	// caller's context carries no earlier deadline.
	DefaultPublishTimeout = 120 * time.Second

	// defaultMaxAttempts is the per-chunk attempt ceiling for
	// transient failures.
	defaultMaxAttempts = 4

	// defaultBackoffBase is the first retry delay; it doubles on each
	// subsequent attempt.
	defaultBackoffBase = 500 * time.Millisecond

	// abortTimeout bounds the best-effort session abort performed
	// after a terminal failure.
	abortTimeout = 5 * time.Second
)

// uploadState is the state of a single publish call.
type uploadState int

const (
	stateInit uploadState = iota
	stateSessionOpened
	stateChunksInFlight
	stateComplete
	stateFailed
)

func stateToString(s uploadState) string {
	switch s {
	case stateInit:
		return "init"
	case stateSessionOpened:
		return "session opened"
	case stateChunksInFlight:
		return "chunks in flight"
	case stateComplete:
		return "complete"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Orchestrator publishes videos through a PlatformService. It holds no
// per-call state and is safe for concurrent use.
type Orchestrator struct {
	svc         PlatformService
	log         func(string, ...interface{})
	chunkSize   int64
	maxAttempts int
	backoffBase time.Duration
	now         func() time.Time
}

// OrchestratorOption is a functional option for configuring an
// Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithChunkSize sets the upload chunk size. Sizes below one byte are
// ignored.
func WithChunkSize(n int64) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

// WithRetryPolicy sets the per-chunk attempt ceiling and the base
// backoff delay for transient failures.
func WithRetryPolicy(maxAttempts int, backoffBase time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if maxAttempts > 0 {
			o.maxAttempts = maxAttempts
		}
		if backoffBase > 0 {
			o.backoffBase = backoffBase
		}
	}
}

// NewOrchestrator creates an Orchestrator using the given platform
// service. log may be nil for silence.
func NewOrchestrator(svc PlatformService, log func(string, ...interface{}), opts ...OrchestratorOption) *Orchestrator {
	if log == nil {
		log = func(string, ...interface{}) {}
	}
	o := &Orchestrator{
		svc:         svc,
		log:         log,
		chunkSize:   DefaultChunkSize,
		maxAttempts: defaultMaxAttempts,
		backoffBase: defaultBackoffBase,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// publishPlan is the validated form of an UploadDirective.
type publishPlan struct {
	categoryID string
	privacy    string
	publishAt  *time.Time
}

// resolveDirective validates the directive before any network call. An
// unparseable schedule time is a validation error; a schedule that
// resolves to a past or current instant means publish immediately.
func (o *Orchestrator) resolveDirective(d model.UploadDirective) (publishPlan, error) {
	plan := publishPlan{
		categoryID: model.Lookup(d.Category).YouTubeCategoryID,
		privacy:    PrivacyPublic,
	}

	if len(d.Language) < 2 {
		return publishPlan{}, &ValidationError{Field: "language", Msg: "must be at least 2 characters"}
	}

	if d.ScheduleTime == "" {
		return plan, nil
	}

	at, err := time.Parse(time.RFC3339, d.ScheduleTime)
	if err != nil {
		return publishPlan{}, &ValidationError{Field: "scheduleTime", Msg: fmt.Sprintf("unparseable timestamp %q", d.ScheduleTime)}
	}
	if at.After(o.now()) {
		plan.privacy = PrivacyPrivate
		plan.publishAt = &at
	}
	return plan, nil
}

// Publish uploads the payload with the given metadata bundle according
// to the directive, returning the platform-assigned video identifier
// and the schedule actually honoured. The whole call is bounded by
// DefaultPublishTimeout unless the caller's context expires sooner.
//
// The call proceeds through the states init, session opened and chunks
// in flight; a terminal failure aborts the remote session best-effort
// and no partial video is ever reported as complete.
func (o *Orchestrator) Publish(ctx context.Context, payload *model.VideoSourcePayload, bundle model.SeoBundle, directive model.UploadDirective) (*model.UploadResult, error) {
	state := stateInit

	plan, err := o.resolveDirective(directive)
	if err != nil {
		return nil, err
	}
	if payload == nil || payload.Size == 0 {
		return nil, &ValidationError{Field: "video", Msg: "empty payload"}
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultPublishTimeout)
		defer cancel()
	}

	meta := SessionMeta{
		Title:       bundle.Title,
		Description: bundle.Description,
		Tags:        bundle.Tags,
		CategoryID:  plan.categoryID,
		Language:    directive.Language,
		Privacy:     plan.privacy,
		PublishAt:   plan.publishAt,
	}

	o.log("opening upload session, name: %s, size: %d, privacy: %s", payload.Name, payload.Size, plan.privacy)
	session, err := o.svc.OpenSession(ctx, meta, payload.Size)
	if err != nil {
		state = stateFailed
		o.log("publish %s in state %s: %v", payload.Name, stateToString(state), err)
		return nil, fmt.Errorf("could not open upload session: %w", err)
	}
	state = stateSessionOpened
	o.log("publish %s in state %s, session: %s", payload.Name, stateToString(state), session)

	state = stateChunksInFlight
	videoID, err := o.transferChunks(ctx, session, payload)
	if err != nil {
		state = stateFailed
		o.log("publish %s in state %s: %v", payload.Name, stateToString(state), err)
		o.abort(session)
		return nil, err
	}
	state = stateComplete
	o.log("publish %s in state %s, video ID: %s", payload.Name, stateToString(state), videoID)

	result := &model.UploadResult{VideoID: videoID, PublishAt: plan.publishAt}

	// The video exists at this point, so a monetization follow-up
	// failure is reported as a warning on the otherwise-successful
	// publish rather than masked either way.
	if directive.Monetization == model.MonetizationEnabled {
		if err := o.svc.SetMonetization(ctx, videoID, true); err != nil {
			result.Warning = fmt.Sprintf("video published but monetization flag not set: %v", err)
			o.log("monetization follow-up failed for video %s: %v", videoID, err)
		}
	}

	return result, nil
}

// transferChunks moves the payload through the session in bounded
// sequential chunks, retrying transient failures with exponential
// backoff up to the attempt ceiling and resuming from the last
// acknowledged offset.
func (o *Orchestrator) transferChunks(ctx context.Context, session string, payload *model.VideoSourcePayload) (string, error) {
	offset := int64(0)
	for offset < payload.Size {
		end := offset + o.chunkSize
		if end > payload.Size {
			end = payload.Size
		}
		last := end == payload.Size

		res, err := o.uploadChunkWithRetry(ctx, session, offset, payload.Data[offset:end], last)
		if err != nil {
			return "", err
		}

		if res.Done {
			if res.VideoID == "" {
				return "", &RejectedByPlatformError{Message: "platform completed upload without a video ID"}
			}
			return res.VideoID, nil
		}

		if res.NextOffset > offset {
			offset = res.NextOffset
		} else {
			offset = end
		}
	}
	return "", &RejectedByPlatformError{Message: "payload exhausted before platform reported completion"}
}

// uploadChunkWithRetry transfers one chunk, retrying classified
// transient failures. Non-transient errors fail immediately.
func (o *Orchestrator) uploadChunkWithRetry(ctx context.Context, session string, offset int64, chunk []byte, last bool) (ChunkResult, error) {
	var lastErr error
	delay := o.backoffBase

	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		res, err := o.svc.UploadChunk(ctx, session, offset, chunk, last)
		if err == nil {
			return res, nil
		}
		if !transient(err) {
			return ChunkResult{}, err
		}
		lastErr = err
		o.log("chunk at offset %d failed on attempt %d: %v", offset, attempt, err)

		if attempt == o.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ChunkResult{}, &TransientNetworkError{Cause: ctx.Err()}
		case <-time.After(delay):
		}
		delay *= 2
	}

	return ChunkResult{}, fmt.Errorf("chunk retry budget exhausted at offset %d: %w", offset, lastErr)
}

// abort cleans up the remote session after a terminal failure. It is
// best-effort: an unabortable session is left to platform-side expiry.
// A fresh context is used since the publish context may already be
// cancelled.
func (o *Orchestrator) abort(session string) {
	ctx, cancel := context.WithTimeout(context.Background(), abortTimeout)
	defer cancel()
	if err := o.svc.AbortSession(ctx, session); err != nil {
		o.log("could not abort upload session: %v", err)
	}
}
