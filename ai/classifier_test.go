package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var forumCategories = []string{"Design", "Business", "Academic", "Career", "General"}

func TestParseClassifyResponse(t *testing.T) {
	text := "PRIMARY: design\nSECONDARY: Business, career, Unknown\nLANGUAGE: si\nTRANSLATION: A question about residential design."
	s := parseClassifyResponse(text, forumCategories)

	assert.Equal(t, "Design", s.Primary)
	assert.Equal(t, []string{"Business", "Career"}, s.Secondary, "unknown names are dropped, casing canonicalized")
	assert.Equal(t, "si", s.Language)
	assert.Equal(t, "A question about residential design.", s.Translation)
}

func TestParseClassifyResponseMultilineTranslation(t *testing.T) {
	text := "PRIMARY: Design\nSECONDARY:\nLANGUAGE: ta\nTRANSLATION: First line.\nSecond line."
	s := parseClassifyResponse(text, forumCategories)
	assert.Equal(t, "First line.\nSecond line.", s.Translation)
}

func TestParseClassifyResponseExcludesPrimaryFromSecondary(t *testing.T) {
	text := "PRIMARY: Design\nSECONDARY: Design, Business\nLANGUAGE: en\nTRANSLATION: hi"
	s := parseClassifyResponse(text, forumCategories)
	assert.Equal(t, []string{"Business"}, s.Secondary)
}

func TestKeywordFallbackSinhalaDesign(t *testing.T) {
	content := "මගේ නිවසේ සැලසුම ගැන උදව් ඕනෑ"
	matched, confidence := KeywordFallback(content, forumCategories)

	assert.Equal(t, []string{"Design"}, matched)
	assert.Equal(t, ConfidenceKeywordMatch, confidence)
}

func TestKeywordFallbackNoMatch(t *testing.T) {
	matched, confidence := KeywordFallback("random unrelated text", forumCategories)
	assert.Empty(t, matched)
	assert.Equal(t, ConfidenceNone, confidence)
}

func TestKeywordFallbackIgnoresMissingCategories(t *testing.T) {
	// "Design" keyword hit, but the forum has no Design category.
	matched, confidence := KeywordFallback("a design question", []string{"General"})
	assert.Empty(t, matched)
	assert.Equal(t, ConfidenceNone, confidence)
}

func TestKeywordFallbackMultipleMatches(t *testing.T) {
	matched, confidence := KeywordFallback("design contract for a new client", forumCategories)
	assert.Equal(t, []string{"Design", "Business"}, matched, "matches follow the fixed table order")
	assert.Equal(t, ConfidenceKeywordMatch, confidence)
}

func TestHTTPClassifierClassifyPost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 1)

		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{
					"content": "PRIMARY: Design\nSECONDARY: Business\nLANGUAGE: si\nTRANSLATION: Need help with my house plan.",
				}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL, "test-key", "test-model", 5*time.Second)
	s, err := c.ClassifyPost(context.Background(), "content", forumCategories)
	require.NoError(t, err)
	assert.Equal(t, "Design", s.Primary)
	assert.Equal(t, []string{"Business"}, s.Secondary)
	assert.Equal(t, "Need help with my house plan.", s.Translation)
}

func TestHTTPClassifierErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL, "k", "m", 5*time.Second)
	_, err := c.ClassifyPost(context.Background(), "content", forumCategories)
	assert.Error(t, err)

	_, err = c.TranslateToEnglish(context.Background(), "content")
	assert.Error(t, err)
}

func TestHTTPClassifierTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "  Hello world.  "}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL, "k", "m", 5*time.Second)
	out, err := c.TranslateToEnglish(context.Background(), "හෙලෝ")
	require.NoError(t, err)
	assert.Equal(t, "Hello world.", out)
}
