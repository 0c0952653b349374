package plex

import (
	"context"
	"errors"
	"fmt"
)

// ErrSectionNotFound matches any *SectionNotFoundError via errors.Is.
var ErrSectionNotFound = errors.New("library section not found")

// SectionNotFoundError is returned when no library section has the requested type.
type SectionNotFoundError struct {
	MediaType string
}

func (e *SectionNotFoundError) Error() string {
	return fmt.Sprintf("no %s section found in plex library", e.MediaType)
}

func (e *SectionNotFoundError) Is(target error) bool { return target == ErrSectionNotFound }

// Section represents a Plex library section.
type Section struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Type  string `json:"type"` // movie, show, artist, photo
}

// Sections returns all library sections.
func (c *Client) Sections(ctx context.Context) ([]Section, error) {
	var result mediaContainer
	if err := c.get(ctx, "library/sections", &result); err != nil {
		return nil, err
	}
	sections := make([]Section, 0, len(result.Directories))
	for _, d := range result.Directories {
		sections = append(sections, Section{Key: d.Key, Title: d.Title, Type: d.Type})
	}
	return sections, nil
}

// SectionKey returns the key of the first section whose type is mediaType.
func (c *Client) SectionKey(ctx context.Context, mediaType string) (string, error) {
	sections, err := c.Sections(ctx)
	if err != nil {
		return "", fmt.Errorf("list sections: %w", err)
	}
	for _, s := range sections {
		if s.Type == mediaType && s.Key != "" {
			return s.Key, nil
		}
	}
	return "", &SectionNotFoundError{MediaType: mediaType}
}

// Identity holds Plex server identity information.
type Identity struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Identity returns the Plex server name and version.
func (c *Client) Identity(ctx context.Context) (*Identity, error) {
	var result mediaContainer
	if err := c.get(ctx, "", &result); err != nil {
		return nil, err
	}
	return &Identity{Name: result.FriendlyName, Version: result.Version}, nil
}
