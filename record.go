package lawharvest

import (
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Record is one normalized unit of collected content: a consultation
// question, a guide post, or a precedent summary. Timestamps are kept as the
// source system's ISO-8601 strings; they are only parsed when compared
// against a crawl watermark.
type Record struct {
	ID        string         `json:"id,omitempty"`
	Category  string         `json:"category,omitempty"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	CreatedAt string         `json:"createdAt,omitempty"`
	UpdatedAt string         `json:"updatedAt,omitempty"`
	Meta      map[string]any `json:"meta,omitempty"`
}

// Validate returns an error if the record lacks a required field.
// The ID may be absent; some sites do not expose one on listing pages.
func (r Record) Validate() error {
	if r.Title == "" {
		return Errorf(EINVALID, "record title required")
	}
	if r.Body == "" {
		return Errorf(EINVALID, "record body required")
	}
	return nil
}

// TextContent returns the record's fields combined into a single block of
// text suitable for downstream retrieval pipelines.
func (r Record) TextContent() string {
	var parts []string
	if r.Title != "" {
		parts = append(parts, "질문: "+r.Title)
	}
	if r.Body != "" {
		parts = append(parts, "답변: "+r.Body)
	}
	if r.Category != "" {
		parts = append(parts, "카테고리: "+r.Category)
	}
	return strings.Join(parts, "\n\n")
}

// Detail selects how much of a record survives projection before persistence.
type Detail string

// Detail levels.
const (
	DetailSimple Detail = "simple"
	DetailFull   Detail = "detail"
)

// Valid reports whether d is a known detail level.
func (d Detail) Valid() bool {
	return d == DetailSimple || d == DetailFull
}

// Project returns the record shaped for the given detail level. Simple mode
// keeps a fixed subset of fields and is idempotent. Full mode keeps every
// field and adds derived metadata: the combined text content, a content
// hash, and the projection timestamp.
func (r Record) Project(level Detail) Record {
	if level == DetailSimple {
		return Record{
			ID:        r.ID,
			Category:  r.Category,
			Title:     r.Title,
			Body:      r.Body,
			UpdatedAt: r.UpdatedAt,
		}
	}

	text := r.TextContent()
	meta := make(map[string]any, len(r.Meta)+3)
	for k, v := range r.Meta {
		meta[k] = v
	}
	meta["textContent"] = text
	meta["contentHash"] = fmt.Sprintf("%x", xxhash.Sum64String(text))
	meta["crawledAt"] = time.Now().UTC().Format(time.RFC3339)

	out := r
	out.Meta = meta
	return out
}
