/*
DESCRIPTION
  seo.go provides deterministic generation of search-optimised video
  metadata (title, description, tags, hashtags and a thumbnail prompt).

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

// Package seo generates the metadata bundle attached to a published
// video. Generation is pure and deterministic; the bundle previewed
// before submission is byte-identical to the bundle used at publish
// time.
package seo

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/clipcast/publisher/model"
)

// Platform limits and generation bounds.
const (
	// MaxTitleLen is the YouTube video title limit.
	MaxTitleLen = 100

	// MaxDescriptionLen is the YouTube video description limit.
	MaxDescriptionLen = 5000

	// MaxTags bounds the number of generated tags.
	MaxTags = 15

	// MaxTagLen bounds the length of a single tag.
	MaxTagLen = 30

	// MaxHashtags bounds the number of hashtags rendered in the
	// description footer.
	MaxHashtags = 5

	// fallbackLabel is used when no human-readable label can be
	// derived from the source name or URL.
	fallbackLabel = "New Video"

	// disclosure is appended to the description footer when
	// monetization is enabled.
	disclosure = "This video may contain paid promotion or affiliate links."
)

// stopWords are dropped when extracting tag tokens from the base label.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "at": true, "by": true,
	"for": true, "from": true, "in": true, "my": true, "of": true,
	"on": true, "or": true, "our": true, "the": true, "to": true,
	"with": true, "your": true,
}

// Generate derives a complete SEO bundle from the source name or URL
// and the validated publishing preferences. Identical inputs always
// yield identical bundles; there are no clock reads and no randomness.
func Generate(sourceNameOrURL string, category model.VideoCategory, language string, monetization model.MonetizationSetting) model.SeoBundle {
	meta := model.Lookup(category)
	label := baseLabel(sourceNameOrURL)

	tags := buildTags(label, language, meta)
	hashtags := buildHashtags(tags)

	return model.SeoBundle{
		Title:           buildTitle(label, language, meta),
		Description:     buildDescription(label, category, monetization, hashtags, meta),
		Tags:            tags,
		Hashtags:        hashtags,
		ThumbnailPrompt: fmt.Sprintf("Thumbnail for %q, a %s video: %s.", label, category, meta.StyleHint),
	}
}

// baseLabel derives a human-readable phrase from a file name or URL.
// For URLs the last non-empty path segment is used. The extension is
// stripped, separators become spaces, and words are title-cased. An
// empty result falls back to a fixed generic label.
func baseLabel(src string) string {
	s := strings.TrimSpace(src)
	if strings.Contains(s, "://") {
		if u, err := url.Parse(s); err == nil {
			s = lastPathSegment(u.Path)
		}
	} else {
		// Strip any path components from plain file names.
		s = lastPathSegment(strings.ReplaceAll(s, "\\", "/"))
	}

	s = strings.TrimSuffix(s, path.Ext(s))
	for _, sep := range []string{"-", "_", "+", "."} {
		s = strings.ReplaceAll(s, sep, " ")
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return fallbackLabel
	}
	for i, w := range words {
		words[i] = titleCase(w)
	}
	return strings.Join(words, " ")
}

// lastPathSegment returns the final non-empty segment of a slash
// separated path, or an empty string if there is none.
func lastPathSegment(p string) string {
	segs := strings.Split(p, "/")
	for i := len(segs) - 1; i >= 0; i-- {
		if segs[i] != "" {
			return segs[i]
		}
	}
	return ""
}

// buildTitle combines the base label, category keyword hint and
// language, bounded by MaxTitleLen without splitting words.
func buildTitle(label, language string, meta model.CategoryMeta) string {
	hint := titleCase(meta.Keywords[0])
	title := fmt.Sprintf("%s | %s Video in %s", label, hint, titleCase(language))
	return truncateAtWord(title, MaxTitleLen)
}

// buildTags forms the tag set from the category keyword hints, tokens
// extracted from the base label, and the language. Tags are
// deduplicated case-insensitively preserving first-seen order.
func buildTags(label, language string, meta model.CategoryMeta) []string {
	var tags []string
	seen := map[string]bool{}

	add := func(tag string) {
		tag = strings.TrimSpace(tag)
		if tag == "" || len(tags) >= MaxTags {
			return
		}
		if r := []rune(tag); len(r) > MaxTagLen {
			tag = strings.TrimSpace(string(r[:MaxTagLen]))
		}
		key := strings.ToLower(tag)
		if seen[key] {
			return
		}
		seen[key] = true
		tags = append(tags, tag)
	}

	for _, kw := range meta.Keywords {
		add(strings.ToLower(kw))
	}
	for _, tok := range strings.Fields(strings.ToLower(label)) {
		tok = stripNonAlnum(tok)
		if tok == "" || stopWords[tok] {
			continue
		}
		add(tok)
	}
	add(strings.ToLower(language))

	return tags
}

// buildHashtags re-renders the leading tags as hashtags: a "#" marker,
// no internal whitespace, multi-word tags camel-joined.
func buildHashtags(tags []string) []string {
	n := len(tags)
	if n > MaxHashtags {
		n = MaxHashtags
	}
	hashtags := make([]string, 0, n)
	for _, tag := range tags[:n] {
		words := strings.Fields(tag)
		for i, w := range words {
			words[i] = titleCase(w)
		}
		hashtags = append(hashtags, "#"+strings.Join(words, ""))
	}
	return hashtags
}

// buildDescription composes the multi-paragraph description: an
// opening hook, category context lines, and a hashtag footer. The
// footer varies with the monetization setting. If the composed text
// exceeds MaxDescriptionLen, trailing sections are dropped first.
func buildDescription(label string, category model.VideoCategory, monetization model.MonetizationSetting, hashtags []string, meta model.CategoryMeta) string {
	hook := fmt.Sprintf("%s is here! A fresh %s video made for %s.", label, category, meta.Audience)

	middle := fmt.Sprintf("In this video: %s. Whether you're new to %s or a regular, there's something here for you.",
		strings.Join(meta.Keywords, ", "), meta.Keywords[0])

	footer := strings.Join(hashtags, " ")
	if monetization == model.MonetizationEnabled {
		footer += "\n" + disclosure
	}

	sections := []string{hook, middle, footer}
	for len(sections) > 1 {
		desc := strings.Join(sections, "\n\n")
		if len([]rune(desc)) <= MaxDescriptionLen {
			return desc
		}
		sections = sections[:len(sections)-1]
	}
	return truncateAtWord(sections[0], MaxDescriptionLen)
}

// truncateAtWord bounds s to max runes, cutting back to the last word
// boundary rather than splitting inside a word.
func truncateAtWord(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	cut := string(r[:max])
	if i := strings.LastIndexAny(cut, " \t\n"); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " \t\n|,.")
}

// titleCase upper-cases the first rune of each space separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
	}
	return strings.Join(words, " ")
}

// stripNonAlnum removes all non-alphanumeric runes from s.
func stripNonAlnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
