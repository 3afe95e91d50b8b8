/*
DESCRIPTION
  service.go provides the PlatformService interface, the capability
  boundary between the upload orchestrator and a video hosting
  platform's resumable upload protocol.

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

package publish

import (
	"context"
	"time"
)

// Privacy statuses requested at session negotiation.
const (
	PrivacyPublic  = "public"
	PrivacyPrivate = "private"
)

// SessionMeta is the full metadata declared when negotiating a
// resumable upload session.
type SessionMeta struct {
	Title       string
	Description string
	Tags        []string
	CategoryID  string
	Language    string

	// Privacy is PrivacyPublic for immediate publication, or
	// PrivacyPrivate together with PublishAt for a scheduled release.
	Privacy   string
	PublishAt *time.Time
}

// ChunkResult reports the platform's acknowledgement of a chunk.
type ChunkResult struct {
	// NextOffset is the byte offset the platform expects next.
	NextOffset int64

	// Done is true once the platform has accepted the final chunk, in
	// which case VideoID carries the assigned video identifier.
	Done    bool
	VideoID string
}

// PlatformService is the video hosting platform capability used by the
// orchestrator. Implementations must return errors from the publish
// error taxonomy so the orchestrator can distinguish retryable
// conditions from fatal ones. Credentials are provisioned externally.
type PlatformService interface {
	// OpenSession negotiates a resumable upload session, declaring the
	// total byte length and the full video metadata. It returns an
	// opaque session reference for subsequent chunk transfers.
	OpenSession(ctx context.Context, meta SessionMeta, size int64) (string, error)

	// UploadChunk transfers one chunk against the session at the given
	// offset. last marks the final chunk of the payload.
	UploadChunk(ctx context.Context, session string, offset int64, chunk []byte, last bool) (ChunkResult, error)

	// SetMonetization flips the monetization flag on a published video.
	SetMonetization(ctx context.Context, videoID string, enabled bool) error

	// AbortSession cancels an upload session. Best-effort; a session
	// that cannot be aborted is left to platform-side expiry.
	AbortSession(ctx context.Context, session string) error

	// CheckStatus reports the platform's processing status for a
	// previously uploaded video.
	CheckStatus(ctx context.Context, videoID string) (string, error)
}
