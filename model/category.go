/*
DESCRIPTION
  Video category type and the static category registry.

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
)

// VideoCategory is a content category from the closed set accepted at
// the system boundary. Values are only ever produced by ParseCategory,
// so downstream code can treat a VideoCategory as already validated.
type VideoCategory string

// The accepted content categories.
const (
	CategoryTech     VideoCategory = "tech"
	CategoryVlog     VideoCategory = "vlog"
	CategoryShorts   VideoCategory = "shorts"
	CategoryGaming   VideoCategory = "gaming"
	CategoryTutorial VideoCategory = "tutorial"
)

// CategoryMeta holds the platform category identifier and the phrasing
// hints used when generating SEO metadata for a category.
//
// YouTubeCategoryID values follow the YouTube Data API category table:
//
// 20 - Gaming
// 22 - People & Blogs
// 27 - Education
// 28 - Science & Technology
// 42 - Shorts
type CategoryMeta struct {
	YouTubeCategoryID string   // Category ID recognised by the YouTube Data API.
	Keywords          []string // Seed keywords mixed into generated tags.
	Audience          string   // Short audience phrase used in descriptions.
	StyleHint         string   // Visual style phrase used in thumbnail prompts.
}

// categories maps each VideoCategory to its metadata. It is built once
// at process start and never written thereafter, so unsynchronised
// concurrent reads are safe.
var categories = map[VideoCategory]CategoryMeta{
	CategoryTech: {
		YouTubeCategoryID: "28",
		Keywords:          []string{"technology", "review", "gadgets"},
		Audience:          "tech enthusiasts",
		StyleHint:         "clean futuristic layout with bold product shots",
	},
	CategoryVlog: {
		YouTubeCategoryID: "22",
		Keywords:          []string{"vlog", "daily life", "lifestyle"},
		Audience:          "everyday viewers",
		StyleHint:         "warm candid photography with a personal feel",
	},
	CategoryShorts: {
		YouTubeCategoryID: "42",
		Keywords:          []string{"shorts", "viral", "trending"},
		Audience:          "short-form scrollers",
		StyleHint:         "high-contrast vertical frame with large text",
	},
	CategoryGaming: {
		YouTubeCategoryID: "20",
		Keywords:          []string{"gaming", "gameplay", "walkthrough"},
		Audience:          "gamers",
		StyleHint:         "vivid game art with dramatic lighting",
	},
	CategoryTutorial: {
		YouTubeCategoryID: "27",
		Keywords:          []string{"tutorial", "howto", "guide"},
		Audience:          "learners",
		StyleHint:         "step-by-step visual with numbered callouts",
	},
}

// Lookup returns the CategoryMeta for the given category. It is total
// over the VideoCategory set; categories are validated at the boundary
// by ParseCategory so an unknown value cannot reach here.
func Lookup(c VideoCategory) CategoryMeta {
	return categories[c]
}

// Categories returns the accepted categories in a stable order, for
// listing at the HTTP boundary.
func Categories() []VideoCategory {
	return []VideoCategory{CategoryTech, CategoryVlog, CategoryShorts, CategoryGaming, CategoryTutorial}
}

// ParseCategory validates a raw category string from the boundary and
// returns the corresponding VideoCategory.
func ParseCategory(s string) (VideoCategory, error) {
	c := VideoCategory(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := categories[c]; !ok {
		return "", fmt.Errorf("unknown category: %q", s)
	}
	return c, nil
}
