package main

import (
	"time"

	"winwin/internal/content"
)

func seedLanguages() []content.Language {
	return []content.Language{
		{ID: 1, Code: "en", Name: "English"},
		{ID: 2, Code: "fr", Name: "French"},
		{ID: 3, Code: "ar", Name: "Arabic"},
		{ID: 4, Code: "pt", Name: "Portuguese"},
	}
}

func seedContent(languages []content.Language) []content.Content {
	now := time.Now().UTC()
	stamp := func(age time.Duration) string { return now.Add(-age).Format(time.RFC3339) }
	byCode := make(map[string]content.Language, len(languages))
	for _, lang := range languages {
		byCode[lang.Code] = lang
	}
	leadership := 1
	return []content.Content{
		{
			ID:          1,
			Title:       "Women in Leadership",
			Description: "An introduction to **leadership** for women entrepreneurs. Level: beginner.",
			FileLink:    "/uploads/leadership.pdf",
			Language:    byCode["en"],
			CreatedAt:   stamp(30 * 24 * time.Hour),
			UpdatedAt:   stamp(2 * 24 * time.Hour),
			IsOriginal:  true,
			Type:        content.TypeCourse,
		},
		{
			ID:          2,
			Title:       "Les femmes et le leadership",
			Description: "Une introduction au **leadership** pour les entrepreneuses. Niveau : débutant.",
			FileLink:    "/uploads/leadership-fr.pdf",
			Language:    byCode["fr"],
			CreatedAt:   stamp(20 * 24 * time.Hour),
			UpdatedAt:   stamp(20 * 24 * time.Hour),
			CourseID:    &leadership,
		},
		{
			ID:          3,
			Title:       "المرأة والقيادة",
			Description: "مقدمة في القيادة لرائدات الأعمال.",
			FileLink:    content.NoFile,
			Language:    byCode["ar"],
			CreatedAt:   stamp(10 * 24 * time.Hour),
			UpdatedAt:   stamp(10 * 24 * time.Hour),
			CourseID:    &leadership,
		},
		{
			ID:          4,
			Title:       "Negotiation for Equal Pay",
			Description: "Prepare, argue and close a salary negotiation. Level: intermediate.",
			FileLink:    "https://videos.example.com/negotiation.mp4",
			Language:    byCode["en"],
			CreatedAt:   stamp(14 * 24 * time.Hour),
			UpdatedAt:   stamp(24 * time.Hour),
			IsOriginal:  true,
			Type:        content.TypeCourse,
		},
		{
			ID:          5,
			Title:       "Gestão financeira avançada",
			Description: "Orçamento, fluxo de caixa e investimento. Nível: avançado.",
			FileLink:    content.NoFile,
			Language:    byCode["pt"],
			CreatedAt:   stamp(5 * 24 * time.Hour),
			UpdatedAt:   stamp(5 * 24 * time.Hour),
			IsOriginal:  true,
			Type:        content.TypeModule,
		},
	}
}
