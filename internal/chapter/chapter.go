// Package chapter holds the organizational units players and events belong to.
package chapter

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/candlewick-games/candlewick/internal/platform/errors"
	"github.com/candlewick-games/candlewick/internal/platform/id"
)

// ErrEmptyName indicates a missing chapter name.
var ErrEmptyName = apperrors.New(apperrors.CodeChapterEmptyName, "chapter name is required")

// Chapter is a regional branch of the organization.
type Chapter struct {
	ID        string
	Name      string
	Location  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateChapterInput describes the metadata needed to create a chapter.
type CreateChapterInput struct {
	Name     string
	Location string
}

// CreateChapter creates a new chapter with a generated ID and timestamps.
func CreateChapter(input CreateChapterInput, now func() time.Time, idGenerator func() (string, error)) (Chapter, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return Chapter{}, ErrEmptyName
	}

	chapterID, err := idGenerator()
	if err != nil {
		return Chapter{}, fmt.Errorf("generate chapter id: %w", err)
	}

	createdAt := now().UTC()
	return Chapter{
		ID:        chapterID,
		Name:      input.Name,
		Location:  strings.TrimSpace(input.Location),
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}, nil
}
