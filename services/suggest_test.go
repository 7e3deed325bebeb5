package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/archalley/forum/ai"
)

type stubClassifier struct {
	suggestion ai.Suggestion
	err        error
}

func (s *stubClassifier) ClassifyPost(ctx context.Context, content string, categoryNames []string) (ai.Suggestion, error) {
	return s.suggestion, s.err
}

func (s *stubClassifier) TranslateToEnglish(ctx context.Context, content string) (string, error) {
	return s.suggestion.Translation, s.err
}

var allCategoryNames = []string{"Design", "Business", "Academic", "Career", "General"}

func TestSuggestImmediateEnglishClientCategories(t *testing.T) {
	got := SuggestImmediate(context.Background(), &stubClassifier{}, "hello", "en",
		[]string{"Design", "Business", "Design"}, "General", allCategoryNames)

	assert.Equal(t, "Design", got.Primary)
	assert.Equal(t, []string{"Business"}, got.Secondary)
	assert.Equal(t, ai.ConfidenceClientTrusted, got.Confidence)
	assert.Empty(t, got.Translation)
}

func TestSuggestImmediateEnglishNoClientCategories(t *testing.T) {
	got := SuggestImmediate(context.Background(), &stubClassifier{}, "hello", "en",
		nil, "General", allCategoryNames)

	assert.Equal(t, "General", got.Primary)
	assert.Empty(t, got.Secondary)
	assert.Equal(t, ai.ConfidenceNone, got.Confidence)
}

func TestSuggestImmediateNonEnglishClassified(t *testing.T) {
	stub := &stubClassifier{suggestion: ai.Suggestion{
		Primary:     "Design",
		Secondary:   []string{"Design", "Business"},
		Confidence:  ai.ConfidenceClientTrusted,
		Translation: "a building design question",
	}}
	got := SuggestImmediate(context.Background(), stub, "una pregunta de diseño", "es",
		nil, "General", allCategoryNames)

	assert.Equal(t, "Design", got.Primary)
	assert.Equal(t, []string{"Business"}, got.Secondary)
	assert.Equal(t, "a building design question", got.Translation)
}

func TestSuggestImmediateNonEnglishClassifierFailure(t *testing.T) {
	stub := &stubClassifier{err: errors.New("upstream down")}
	// Sinhala content containing a Design keyword.
	got := SuggestImmediate(context.Background(), stub, "මගේ සැලසුම ගැන ප්‍රශ්නයක්", "si",
		nil, "General", allCategoryNames)

	assert.Equal(t, "General", got.Primary)
	assert.Equal(t, []string{"Design"}, got.Secondary)
	assert.Equal(t, ai.ConfidenceKeywordMatch, got.Confidence)
	assert.Empty(t, got.Translation)
}

func TestSuggestImmediateNonEnglishNoKeywordMatch(t *testing.T) {
	stub := &stubClassifier{err: errors.New("upstream down")}
	got := SuggestImmediate(context.Background(), stub, "zzzz", "fr",
		nil, "General", allCategoryNames)

	assert.Equal(t, "General", got.Primary)
	assert.Empty(t, got.Secondary)
	assert.Equal(t, ai.ConfidenceNone, got.Confidence)
}

func TestSuggestImmediateClassifierEmptyPrimaryFallsBack(t *testing.T) {
	stub := &stubClassifier{suggestion: ai.Suggestion{Secondary: []string{"Career"}}}
	got := SuggestImmediate(context.Background(), stub, "texte", "fr",
		nil, "General", allCategoryNames)

	assert.Equal(t, "General", got.Primary)
	assert.Equal(t, []string{"Career"}, got.Secondary)
}
