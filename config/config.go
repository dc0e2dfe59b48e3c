package config

import (
	"fmt"
	"strings"
)

// Field names as they appear in error messages and on the command line.
const (
	FieldLink     = "link"
	FieldClientID = "client_id"
)

// Config holds what a fetch needs: the gallery link and the Imgur Client-ID.
// It is passed explicitly to every operation; nothing is read from globals.
type Config struct {
	GalleryLink string `json:"link"`
	ClientID    string `json:"client_id"`
}

// New creates a Config. No validation happens here; unset values surface
// when a fetch is attempted.
func New(link, clientID string) Config {
	return Config{
		GalleryLink: strings.TrimSpace(link),
		ClientID:    strings.TrimSpace(clientID),
	}
}

// MissingFields returns the names of the fields that are not set, in a stable order.
func (c Config) MissingFields() []string {
	var missing []string
	if c.GalleryLink == "" {
		missing = append(missing, FieldLink)
	}
	if c.ClientID == "" {
		missing = append(missing, FieldClientID)
	}
	return missing
}

// IsComplete reports whether both fields are set.
func (c Config) IsComplete() bool {
	return len(c.MissingFields()) == 0
}

// String masks the credential so configs can be logged.
func (c Config) String() string {
	id := "<unset>"
	if c.ClientID != "" {
		id = maskSecret(c.ClientID)
	}
	link := c.GalleryLink
	if link == "" {
		link = "<unset>"
	}
	return fmt.Sprintf("{link: %s, client_id: %s}", link, id)
}

func maskSecret(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
