package content_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"winwin/internal/content"
)

func TestLevelFromType(t *testing.T) {
	assert.Equal(t, content.LevelBeginner, content.LevelFromType(""))
	assert.Equal(t, content.LevelBeginner, content.LevelFromType("course"))
	assert.Equal(t, content.LevelIntermediate, content.LevelFromType("Course-Intermediate"))
	assert.Equal(t, content.LevelAdvanced, content.LevelFromType("ADVANCED"))
}

func TestMapContentToCourse(t *testing.T) {
	course := content.MapContentToCourse(content.Content{
		ID:          42,
		Title:       "Safety",
		Description: "Basics",
		FileLink:    "/uploads/cover.png",
		Language:    content.Language{Code: "fr", Name: "French"},
		Type:        "advanced course",
	})

	assert.Equal(t, content.Course{
		ID:          "42",
		Title:       "Safety",
		Description: "Basics",
		Image:       "/uploads/cover.png",
		Languages:   []string{"French"},
		Level:       content.LevelAdvanced,
		Duration:    "4 weeks",
	}, course)
	assert.Equal(t, "advanced", course.LevelKey())
}

func TestMapContentToCourse_NoFile(t *testing.T) {
	course := content.MapContentToCourse(content.Content{ID: 1, FileLink: content.NoFile})
	assert.Empty(t, course.Image)
}

func TestMapContentsToCourses_LevelFilter(t *testing.T) {
	items := []content.Content{
		{ID: 1, Type: "course"},
		{ID: 2, Type: "intermediate"},
		{ID: 3, Type: "advanced"},
	}
	assert.Len(t, content.MapContentsToCourses(items, ""), 3)

	filtered := content.MapContentsToCourses(items, "intermediate")
	assert.Len(t, filtered, 1)
	assert.Equal(t, "2", filtered[0].ID)
}

func TestParseID(t *testing.T) {
	id, ok := content.ParseID("17")
	assert.True(t, ok)
	assert.Equal(t, 17, id)

	for _, bad := range []string{"", "abc", "0", "-3"} {
		_, ok := content.ParseID(bad)
		assert.False(t, ok, bad)
	}
}
