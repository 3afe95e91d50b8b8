/*
DESCRIPTION
  handlers.go provides the HTTP handlers for the publisher service:
  video upload, bundle preview, category listing and upload status.

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
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/clipcast/publisher/fetch"
	"github.com/clipcast/publisher/model"
	"github.com/clipcast/publisher/publish"
	"github.com/clipcast/publisher/seo"
)

// Source types accepted in the upload form.
const (
	sourceTypeFile = "file"
	sourceTypeLink = "link"
)

// publisher is the slice of the orchestrator the handlers need.
type publisher interface {
	Publish(ctx context.Context, payload *model.VideoSourcePayload, bundle model.SeoBundle, directive model.UploadDirective) (*model.UploadResult, error)
}

// fetcher resolves a remote video URL into a payload.
type fetcher interface {
	Fetch(ctx context.Context, url string) (*model.VideoSourcePayload, error)
}

// statusChecker reports the platform's processing status for a video.
type statusChecker interface {
	CheckStatus(ctx context.Context, videoID string) (string, error)
}

// service bundles the collaborators behind the HTTP handlers.
type service struct {
	pub    publisher
	fetch  fetcher
	status statusChecker
	log    func(string, ...interface{})
}

// registerRoutes attaches the service's routes to the fiber app.
func (s *service) registerRoutes(app *fiber.App) {
	app.Get("/health", s.handleHealth)
	app.Get("/api/categories", s.handleCategories)
	app.Post("/api/preview", s.handlePreview)
	app.Post("/api/upload", s.handleUpload)
	app.Get("/api/videos/:id/status", s.handleStatus)
}

// envelope shapes for JSON responses.
type okResponse struct {
	Ok   bool        `json:"ok"`
	Data interface{} `json:"data"`
}

type errResponse struct {
	Ok      bool              `json:"ok"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// uploadData is the success payload of the upload endpoint.
type uploadData struct {
	VideoID         string     `json:"videoId"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Tags            []string   `json:"tags"`
	Hashtags        []string   `json:"hashtags"`
	ThumbnailPrompt string     `json:"thumbnailPrompt,omitempty"`
	PublishAt       *time.Time `json:"publishAt"`
	CategoryID      string     `json:"categoryId"`
	Warning         string     `json:"warning,omitempty"`
}

func ok(c *fiber.Ctx, data interface{}) error {
	return c.JSON(okResponse{Ok: true, Data: data})
}

func fail(c *fiber.Ctx, status int, msg string, details map[string]string) error {
	return c.Status(status).JSON(errResponse{Ok: false, Error: msg, Details: details})
}

func (s *service) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "UP"})
}

// handleCategories lists the accepted categories with their platform
// identifiers, for form population and previews.
func (s *service) handleCategories(c *fiber.Ctx) error {
	type entry struct {
		Category   string   `json:"category"`
		CategoryID string   `json:"categoryId"`
		Keywords   []string `json:"keywords"`
	}
	var out []entry
	for _, cat := range model.Categories() {
		meta := model.Lookup(cat)
		out = append(out, entry{Category: string(cat), CategoryID: meta.YouTubeCategoryID, Keywords: meta.Keywords})
	}
	return ok(c, out)
}

// uploadForm is the validated content of an upload or preview request.
type uploadForm struct {
	sourceType string
	source     string // File name or URL, used for SEO derivation.
	videoURL   string
	category   model.VideoCategory
	directive  model.UploadDirective
}

// parseForm validates the common multipart fields. Validation problems
// are collected per field so the caller sees all of them at once.
func (s *service) parseForm(c *fiber.Ctx, needSource bool) (*uploadForm, map[string]string) {
	details := map[string]string{}
	form := &uploadForm{sourceType: c.FormValue("sourceType")}

	category, err := model.ParseCategory(c.FormValue("category"))
	if err != nil {
		details["category"] = err.Error()
	}
	form.category = category

	monetization, err := model.ParseMonetization(c.FormValue("monetization"))
	if err != nil {
		details["monetization"] = err.Error()
	}

	language := c.FormValue("language")
	if len(language) < 2 {
		details["language"] = "must be at least 2 characters"
	}

	switch form.sourceType {
	case sourceTypeFile:
		if needSource {
			fh, err := c.FormFile("videoFile")
			if err != nil {
				details["videoFile"] = "file is required when sourceType is file"
			} else {
				form.source = fh.Filename
			}
		} else {
			form.source = c.FormValue("videoName")
		}
	case sourceTypeLink:
		form.videoURL = c.FormValue("videoUrl")
		if form.videoURL == "" {
			details["videoUrl"] = "url is required when sourceType is link"
		}
		form.source = form.videoURL
	default:
		details["sourceType"] = "must be file or link"
	}

	if len(details) > 0 {
		return nil, details
	}

	form.directive = model.UploadDirective{
		Category:     category,
		Language:     language,
		Monetization: monetization,
		ScheduleTime: c.FormValue("scheduleTime"),
	}
	return form, nil
}

// handlePreview generates the SEO bundle without uploading anything.
// Generation is deterministic, so the preview matches the bundle used
// by a subsequent upload with the same inputs.
func (s *service) handlePreview(c *fiber.Ctx) error {
	form, details := s.parseForm(c, false)
	if details != nil {
		return fail(c, http.StatusBadRequest, "invalid preview request", details)
	}

	bundle := seo.Generate(form.source, form.category, form.directive.Language, form.directive.Monetization)
	return ok(c, bundle)
}

// handleUpload resolves the video source, generates the SEO bundle and
// publishes through the orchestrator.
func (s *service) handleUpload(c *fiber.Ctx) error {
	reqID := uuid.NewString()

	form, details := s.parseForm(c, true)
	if details != nil {
		return fail(c, http.StatusBadRequest, "invalid upload request", details)
	}

	payload, err := s.resolvePayload(c, form)
	if err != nil {
		var fe *fetch.FetchError
		if errors.As(err, &fe) {
			s.log("request %s: fetch failed: %v", reqID, err)
			return fail(c, http.StatusBadRequest, fe.Error(), map[string]string{"videoUrl": fe.Reason})
		}
		s.log("request %s: could not read upload: %v", reqID, err)
		return fail(c, http.StatusBadRequest, "could not read uploaded file", nil)
	}

	bundle := seo.Generate(form.source, form.category, form.directive.Language, form.directive.Monetization)

	s.log("request %s: publishing %s (%d bytes), category: %s", reqID, payload.Name, payload.Size, form.category)
	result, err := s.pub.Publish(c.Context(), payload, bundle, form.directive)
	if err != nil {
		return s.publishError(c, reqID, err)
	}

	return ok(c, uploadData{
		VideoID:         result.VideoID,
		Title:           bundle.Title,
		Description:     bundle.Description,
		Tags:            bundle.Tags,
		Hashtags:        bundle.Hashtags,
		ThumbnailPrompt: bundle.ThumbnailPrompt,
		PublishAt:       result.PublishAt,
		CategoryID:      model.Lookup(form.category).YouTubeCategoryID,
		Warning:         result.Warning,
	})
}

// resolvePayload obtains the video bytes per the declared source type.
func (s *service) resolvePayload(c *fiber.Ctx, form *uploadForm) (*model.VideoSourcePayload, error) {
	if form.sourceType == sourceTypeLink {
		return s.fetch.Fetch(c.Context(), form.videoURL)
	}

	fh, err := c.FormFile("videoFile")
	if err != nil {
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return model.NewVideoSourcePayload(fh.Filename, data), nil
}

// publishError maps orchestrator failures onto the HTTP boundary:
// validation problems are the caller's (400), everything else is a
// downstream failure (500).
func (s *service) publishError(c *fiber.Ctx, reqID string, err error) error {
	s.log("request %s: publish failed: %v", reqID, err)

	var ve *publish.ValidationError
	if errors.As(err, &ve) {
		return fail(c, http.StatusBadRequest, ve.Error(), map[string]string{ve.Field: ve.Msg})
	}
	return fail(c, http.StatusInternalServerError, err.Error(), nil)
}

// handleStatus reports the platform's processing status for an
// uploaded video.
func (s *service) handleStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	status, err := s.status.CheckStatus(c.Context(), id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, err.Error(), nil)
	}
	return ok(c, fiber.Map{"videoId": id, "status": status})
}
