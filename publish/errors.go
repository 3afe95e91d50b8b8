/*
DESCRIPTION
  errors.go provides the error taxonomy for the publishing pipeline,
  distinguishing validation failures, platform rejections, credential
  and quota problems, and retryable network conditions.

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
	"errors"
	"fmt"
)

// ValidationError reports bad or missing input detected before any
// network interaction.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Msg)
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Msg)
}

// AuthError reports that the platform rejected our credentials. It is
// fatal for the request and never retried; remediation is out of band.
type AuthError struct {
	Cause error
}

func (e *AuthError) Error() string { return fmt.Sprintf("platform rejected credentials: %v", e.Cause) }
func (e *AuthError) Unwrap() error { return e.Cause }

// QuotaError reports that the platform refused the request on quota or
// rate-limit grounds. Fatal for the request, never retried.
type QuotaError struct {
	Cause error
}

func (e *QuotaError) Error() string { return fmt.Sprintf("platform quota exceeded: %v", e.Cause) }
func (e *QuotaError) Unwrap() error { return e.Cause }

// RejectedByPlatformError reports a semantic rejection by the platform,
// preserving its diagnostic message. Never retried.
type RejectedByPlatformError struct {
	HTTPStatus int
	Message    string
}

func (e *RejectedByPlatformError) Error() string {
	return fmt.Sprintf("rejected by platform (status %d): %s", e.HTTPStatus, e.Message)
}

// TransientNetworkError reports a condition worth retrying, such as a
// network timeout or a 5xx response. The orchestrator retries these
// with bounded backoff during chunk transfer; once the retry budget is
// exhausted the error is surfaced to the caller.
type TransientNetworkError struct {
	Cause error
}

func (e *TransientNetworkError) Error() string { return fmt.Sprintf("transient network error: %v", e.Cause) }
func (e *TransientNetworkError) Unwrap() error { return e.Cause }

// transient reports whether err is classified as retryable.
func transient(err error) bool {
	var te *TransientNetworkError
	return errors.As(err, &te)
}
