package ai

import "strings"

// keywordTable lists multilingual keyword substrings per category, used when
// the external classifier is unavailable. Matching is case-insensitive
// substring containment against the raw post content; categories are scanned
// in table order so results are deterministic.
var keywordTable = []struct {
	category string
	keywords []string
}{
	{"Design", []string{
		"design", "සැලසුම", "வடிவமைப்பு", "डिज़ाइन", "设计", "デザイン", "تصميم",
		"layout", "blueprint", "drawing",
	}},
	{"Business", []string{
		"business", "ව්‍යාපාර", "வணிகம்", "व्यापार", "商业", "ビジネス", "تجارة",
		"tender", "contract", "client",
	}},
	{"Academic", []string{
		"academic", "research", "university", "අධ්‍යයන", "ஆராய்ச்சி", "研究",
		"thesis", "study",
	}},
	{"Career", []string{
		"career", "job", "vacancy", "රැකියා", "வேலை", "नौकरी", "求职",
		"hiring", "internship",
	}},
}

// KeywordFallback scans content for known multilingual keywords and returns
// the matched category names restricted to those that actually exist, with
// a confidence of 0.6 when anything matched and 0.3 otherwise.
func KeywordFallback(content string, existingNames []string) ([]string, float64) {
	available := make(map[string]string, len(existingNames))
	for _, name := range existingNames {
		available[strings.ToLower(name)] = name
	}

	lowered := strings.ToLower(content)
	var matched []string
	for _, row := range keywordTable {
		actual, ok := available[strings.ToLower(row.category)]
		if !ok {
			continue
		}
		for _, kw := range row.keywords {
			if strings.Contains(lowered, strings.ToLower(kw)) {
				matched = append(matched, actual)
				break
			}
		}
	}
	if len(matched) == 0 {
		return nil, ConfidenceNone
	}
	return matched, ConfidenceKeywordMatch
}
