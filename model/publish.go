/*
DESCRIPTION
  Value types passed through the publishing pipeline.

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

package model

import (
	"fmt"
	"strings"
	"time"
)

// MonetizationSetting indicates whether revenue sharing should be
// requested for a published video.
type MonetizationSetting string

// Accepted monetization settings.
const (
	MonetizationEnabled  MonetizationSetting = "enabled"
	MonetizationDisabled MonetizationSetting = "disabled"
)

// ParseMonetization validates a raw monetization string from the boundary.
func ParseMonetization(s string) (MonetizationSetting, error) {
	switch MonetizationSetting(strings.ToLower(strings.TrimSpace(s))) {
	case MonetizationEnabled:
		return MonetizationEnabled, nil
	case MonetizationDisabled:
		return MonetizationDisabled, nil
	default:
		return "", fmt.Errorf("unknown monetization setting: %q", s)
	}
}

// SeoBundle is the generated metadata package attached to a published
// video. Bundles are produced fresh per request and never mutated.
type SeoBundle struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Tags            []string `json:"tags"`
	Hashtags        []string `json:"hashtags"`
	ThumbnailPrompt string   `json:"thumbnailPrompt"`
}

// VideoSourcePayload owns the raw video bytes to be uploaded, along
// with a derived file name and the declared byte length. A payload is
// owned by the call that produced it until handed to the orchestrator,
// and is discarded once the upload session completes or fails.
type VideoSourcePayload struct {
	Name string
	Data []byte
	Size int64
}

// NewVideoSourcePayload creates a payload from bytes already in hand,
// for example from an uploaded multipart file.
func NewVideoSourcePayload(name string, data []byte) *VideoSourcePayload {
	return &VideoSourcePayload{Name: name, Data: data, Size: int64(len(data))}
}

// UploadDirective carries the caller's raw publishing preferences. The
// category and monetization fields are already validated enums; the
// schedule time is parsed by the orchestrator before any network call.
type UploadDirective struct {
	Category     VideoCategory
	Language     string
	Monetization MonetizationSetting

	// ScheduleTime is an optional RFC 3339 timestamp. Empty means
	// publish immediately.
	ScheduleTime string
}

// UploadResult reports the outcome of a successful publish.
type UploadResult struct {
	// VideoID is the platform-assigned identifier of the video.
	VideoID string

	// PublishAt is the schedule honoured by the platform, or nil when
	// the video was published immediately.
	PublishAt *time.Time

	// Warning is non-empty when the video was published but a follow-up
	// metadata call failed, e.g. the monetization flag could not be set.
	Warning string
}
