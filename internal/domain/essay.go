package domain

import "strings"

// Essay is a published or draft piece of writing on the site.
// Content is HTML markup produced by the admin editor and rendered
// unescaped by consumers.
type Essay struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	FileURL     string   `json:"file_url,omitempty"`
	Tags        []string `json:"tags"`
	Views       int64    `json:"views"`
	Published   bool     `json:"published"`
	Timestamps
}

// EssayPatch is a partial update to an essay. Pointer fields are
// applied when non-nil; Optional fields additionally distinguish
// "explicitly cleared" (JSON null) from "absent".
// ID, Views, and CreatedAt are never patchable.
type EssayPatch struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Content     *string          `json:"content,omitempty"`
	Thumbnail   Optional[string] `json:"thumbnail,omitzero"`
	FileURL     Optional[string] `json:"file_url,omitzero"`
	Tags        *[]string        `json:"tags,omitempty"`
	Published   *bool            `json:"published,omitempty"`
}

// IsZero reports whether the patch changes nothing.
func (p EssayPatch) IsZero() bool {
	return p.Title == nil && p.Description == nil && p.Content == nil &&
		!p.Thumbnail.Present && !p.FileURL.Present &&
		p.Tags == nil && p.Published == nil
}

// Apply merges the patch over the essay field by field and refreshes
// UpdatedAt. Identity and counter fields are left alone.
func (e *Essay) Apply(p EssayPatch) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Content != nil {
		e.Content = *p.Content
	}
	if p.Thumbnail.Present {
		e.Thumbnail = p.Thumbnail.Value
	}
	if p.FileURL.Present {
		e.FileURL = p.FileURL.Value
	}
	if p.Tags != nil {
		e.Tags = NormalizeTags(*p.Tags)
	}
	if p.Published != nil {
		e.Published = *p.Published
	}
	e.Touch()
}

// NormalizeTags trims whitespace, drops empties, and deduplicates
// while preserving first-appearance order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
