package services

import (
	"context"

	"github.com/archalley/forum/ai"
	"github.com/archalley/forum/models"
	"github.com/archalley/forum/utils"
)

// ImmediateSuggestion is the category suggestion set computed before the
// post is written, so the stored row is usable without waiting for the
// deferred refinement pass.
type ImmediateSuggestion struct {
	Primary     string
	Secondary   []string
	Confidence  float64
	Translation string
}

// SuggestImmediate determines the immediate category suggestion set.
//
// Non-English content is classified synchronously; when the classifier
// fails, the multilingual keyword table supplies zero or more secondary
// categories. English content trusts the client-supplied suggestions as-is
// or falls back to the primary category alone.
func SuggestImmediate(ctx context.Context, classifier ai.Classifier, content, language string, clientCategories []string, primaryName string, allNames []string) ImmediateSuggestion {
	if language != models.DefaultLanguage {
		if classifier != nil {
			s, err := classifier.ClassifyPost(ctx, content, allNames)
			if err == nil {
				primary := s.Primary
				if primary == "" {
					primary = primaryName
				}
				return ImmediateSuggestion{
					Primary:     primary,
					Secondary:   excludePrimary(s.Secondary, primary),
					Confidence:  s.Confidence,
					Translation: s.Translation,
				}
			}
			if utils.Sugar != nil {
				utils.Sugar.Warnf("classifier unavailable, using keyword fallback: %v", err)
			}
		}
		matched, confidence := ai.KeywordFallback(content, allNames)
		return ImmediateSuggestion{
			Primary:    primaryName,
			Secondary:  excludePrimary(matched, primaryName),
			Confidence: confidence,
		}
	}

	if len(clientCategories) > 0 {
		primary := clientCategories[0]
		return ImmediateSuggestion{
			Primary:    primary,
			Secondary:  excludePrimary(clientCategories[1:], primary),
			Confidence: ai.ConfidenceClientTrusted,
		}
	}
	return ImmediateSuggestion{Primary: primaryName, Confidence: ai.ConfidenceNone}
}
