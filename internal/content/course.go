package content

import (
	"strconv"
	"strings"
)

// Course levels shown on the training catalog.
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

// DefaultDuration is shown for every course; the backend has no duration field.
const DefaultDuration = "4 weeks"

// Course is the catalog card view of a content item.
type Course struct {
	ID          string
	Title       string
	Description string
	Image       string
	Languages   []string
	Level       string
	Duration    string
}

// LevelKey is the translation key of the course level.
func (c Course) LevelKey() string {
	return strings.ToLower(c.Level)
}

// LevelFromType derives the course level from the free-form content type.
func LevelFromType(contentType string) string {
	lowered := strings.ToLower(contentType)
	switch {
	case strings.Contains(lowered, "intermediate"):
		return LevelIntermediate
	case strings.Contains(lowered, "advanced"):
		return LevelAdvanced
	default:
		return LevelBeginner
	}
}

// MapContentToCourse builds the catalog card for c.
func MapContentToCourse(c Content) Course {
	course := Course{
		ID:          strconv.Itoa(c.ID),
		Title:       c.Title,
		Description: c.Description,
		Languages:   []string{c.Language.Name},
		Level:       LevelFromType(c.Type),
		Duration:    DefaultDuration,
	}
	if c.HasFile() {
		course.Image = c.FileLink
	}
	return course
}

// MapContentsToCourses maps items and keeps those matching level. An empty
// level keeps everything; matching is case-insensitive.
func MapContentsToCourses(items []Content, level string) []Course {
	courses := make([]Course, 0, len(items))
	for _, item := range items {
		course := MapContentToCourse(item)
		if level != "" && !strings.EqualFold(course.Level, level) {
			continue
		}
		courses = append(courses, course)
	}
	return courses
}

// ParseID parses a positive content id.
func ParseID(value string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
