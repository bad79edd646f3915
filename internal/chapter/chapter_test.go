package chapter

import (
	"errors"
	"testing"
	"time"
)

func TestCreateChapter(t *testing.T) {
	now := func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	idGen := func() (string, error) { return "chap-1", nil }

	c, err := CreateChapter(CreateChapterInput{Name: "  Northern Reach  ", Location: " Umeå "}, now, idGen)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ID != "chap-1" || c.Name != "Northern Reach" || c.Location != "Umeå" {
		t.Fatalf("chapter = %+v", c)
	}
	if !c.CreatedAt.Equal(now()) || !c.UpdatedAt.Equal(now()) {
		t.Fatalf("timestamps = %v / %v", c.CreatedAt, c.UpdatedAt)
	}
}

func TestCreateChapterRequiresName(t *testing.T) {
	if _, err := CreateChapter(CreateChapterInput{Name: " "}, nil, nil); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("err = %v, want ErrEmptyName", err)
	}
}
