package domain

import (
	"fmt"
	"strings"
	"time"
)

// Contact represents a "met person P at event E" record.
// ID is a local autoincrement surrogate; the real identity is the
// (EventKey, PersonKey) pair, which is unique in the local store.
// Identity fields are immutable after creation; only Note and Tags change.
type Contact struct {
	ID          int64     `json:"id"`
	EventKey    int64     `json:"event_key"`
	PersonKey   int64     `json:"person_key"`
	PersonLabel string    `json:"person_label"`
	Note        string    `json:"note,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks the contact invariants for creation.
func (c *Contact) Validate() error {
	if c.EventKey <= 0 {
		return fmt.Errorf("event key must be positive, got %d", c.EventKey)
	}
	if c.PersonKey <= 0 {
		return fmt.Errorf("person key must be positive, got %d", c.PersonKey)
	}
	if strings.TrimSpace(c.PersonLabel) == "" {
		return fmt.Errorf("person label must not be blank")
	}
	return nil
}

// NormalizeTagSlug converts a free-form tag label to its canonical slug form:
// lowercase, trimmed, internal whitespace collapsed to single hyphens.
// Returns an empty string for labels with no usable content.
func NormalizeTagSlug(label string) string {
	fields := strings.Fields(strings.ToLower(label))
	return strings.Join(fields, "-")
}

// NormalizeTags maps labels to slugs, dropping empties and duplicates while
// preserving first-seen order.
func NormalizeTags(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		slug := NormalizeTagSlug(label)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		out = append(out, slug)
	}
	return out
}

// Person represents a remote directory entry returned by people search.
// People are never persisted locally; PersonKey feeds contact creation.
type Person struct {
	PersonKey   int64  `json:"person_key"`
	Nickname    string `json:"nickname"`
	DisplayName string `json:"display_name,omitempty"`
	Bio         string `json:"bio,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	ProfileURL  string `json:"profile_url"`
}

// Label returns the preferred display label for a person.
func (p *Person) Label() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Nickname
}
