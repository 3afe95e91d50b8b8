/*
DESCRIPTION
  auth.go provides construction of an authorized HTTP client for the
  YouTube Data API from client secrets and a stored OAuth2 token.

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
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	youtubeapi "google.golang.org/api/youtube/v3"
)

// NewClient builds an OAuth2-authorized HTTP client for the YouTube
// upload scope. secretsPath points at a Google client secrets JSON
// file and tokenPath at a previously granted token JSON file; both are
// provisioned externally (see the YOUTUBE_SECRETS and YOUTUBE_TOKEN
// environment variables of cmd/publisher).
func NewClient(ctx context.Context, secretsPath, tokenPath string) (*http.Client, error) {
	cfg, err := googleConfig(secretsPath, youtubeapi.YoutubeUploadScope, youtubeapi.YoutubeScope)
	if err != nil {
		return nil, fmt.Errorf("could not get google config: %w", err)
	}

	tok, err := tokenFromFile(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("could not get youtube credentials token: %w", err)
	}

	return cfg.Client(ctx, tok), nil
}

// googleConfig creates an oauth2.Config from the client secrets file
// and the provided scopes.
func googleConfig(secretsPath string, scopes ...string) (*oauth2.Config, error) {
	secrets, err := os.ReadFile(secretsPath)
	if err != nil {
		return nil, fmt.Errorf("could not read client secrets: %w", err)
	}

	cfg, err := google.ConfigFromJSON(secrets, scopes...)
	if err != nil {
		return nil, fmt.Errorf("could not create config from client secrets: %w", err)
	}
	return cfg, nil
}

// tokenFromFile loads a stored OAuth2 token.
func tokenFromFile(path string) (*oauth2.Token, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read token file: %w", err)
	}
	tok := new(oauth2.Token)
	if err := json.Unmarshal(b, tok); err != nil {
		return nil, fmt.Errorf("could not unmarshal token: %w", err)
	}
	return tok, nil
}
