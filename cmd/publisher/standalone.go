/*
DESCRIPTION
  standalone.go provides an in-memory platform used when the service
  runs without platform credentials, for local development.

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

package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/clipcast/publisher/publish"
	"github.com/clipcast/publisher/youtube"
)

// standalonePlatform accepts uploads and discards the bytes. It lets
// the whole pipeline run end to end without touching the real
// platform.
type standalonePlatform struct {
	mu       sync.Mutex
	log      func(string, ...interface{})
	sessions map[string]int64 // Session URI to bytes received.
}

func newStandalonePlatform(log func(string, ...interface{})) *standalonePlatform {
	return &standalonePlatform{log: log, sessions: make(map[string]int64)}
}

func (p *standalonePlatform) OpenSession(ctx context.Context, meta publish.SessionMeta, size int64) (string, error) {
	session := "standalone-" + uuid.NewString()
	p.mu.Lock()
	p.sessions[session] = 0
	p.mu.Unlock()
	p.log("standalone: opened session %s for %q (%d bytes)", session, meta.Title, size)
	return session, nil
}

func (p *standalonePlatform) UploadChunk(ctx context.Context, session string, offset int64, chunk []byte, last bool) (publish.ChunkResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.sessions[session]; !ok {
		return publish.ChunkResult{}, fmt.Errorf("unknown session: %s", session)
	}
	next := offset + int64(len(chunk))
	p.sessions[session] = next
	if !last {
		return publish.ChunkResult{NextOffset: next}, nil
	}
	delete(p.sessions, session)
	return publish.ChunkResult{NextOffset: next, Done: true, VideoID: "standalone-" + uuid.NewString()[:8]}, nil
}

func (p *standalonePlatform) SetMonetization(ctx context.Context, videoID string, enabled bool) error {
	p.log("standalone: monetization for %s set to %t", videoID, enabled)
	return nil
}

func (p *standalonePlatform) AbortSession(ctx context.Context, session string) error {
	p.mu.Lock()
	delete(p.sessions, session)
	p.mu.Unlock()
	return nil
}

func (p *standalonePlatform) CheckStatus(ctx context.Context, videoID string) (string, error) {
	return youtube.UploadStatusProcessed, nil
}
