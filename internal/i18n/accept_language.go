package i18n

import (
	"sort"
	"strconv"
	"strings"
)

// WeightedLanguage is one Accept-Language entry reduced to its primary subtag.
type WeightedLanguage struct {
	Code   string
	Weight float64
}

// ParseAcceptLanguage splits an Accept-Language header into primary subtags
// ordered by descending quality. Entries of equal quality keep header order.
// A missing q parameter means 1.0 and an unparsable one means 0.
func ParseAcceptLanguage(header string) []WeightedLanguage {
	if strings.TrimSpace(header) == "" {
		return nil
	}
	items := strings.Split(header, ",")
	out := make([]WeightedLanguage, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		parts := strings.Split(item, ";")
		tag := strings.TrimSpace(parts[0])
		weight := 1.0
		for _, param := range parts[1:] {
			name, value, found := strings.Cut(param, "=")
			if !found || !strings.EqualFold(strings.TrimSpace(name), "q") {
				continue
			}
			parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil {
				parsed = 0
			}
			weight = parsed
		}
		primary, _, _ := strings.Cut(tag, "-")
		out = append(out, WeightedLanguage{Code: strings.ToLower(primary), Weight: weight})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Weight > out[j].Weight
	})
	return out
}

// PreferredLanguage returns the highest weighted supported language in header.
func PreferredLanguage(header string) (Language, bool) {
	for _, entry := range ParseAcceptLanguage(header) {
		if lang, ok := FromCode(entry.Code); ok {
			return lang, true
		}
	}
	return "", false
}
