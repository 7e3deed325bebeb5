package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Confidence levels attached to category suggestions.
const (
	ConfidenceClientTrusted = 0.9
	ConfidenceKeywordMatch  = 0.6
	ConfidenceNone          = 0.3
)

// Suggestion is the outcome of classifying a post against the known
// category names.
type Suggestion struct {
	Primary     string
	Secondary   []string
	Confidence  float64
	Language    string
	Translation string
}

// Classifier classifies post content and translates it to English. It is an
// opaque external collaborator; callers must treat every error as
// recoverable and fall back to local heuristics.
type Classifier interface {
	ClassifyPost(ctx context.Context, content string, categoryNames []string) (Suggestion, error)
	TranslateToEnglish(ctx context.Context, content string) (string, error)
}

// HTTPClassifier talks to an OpenAI-compatible chat completion endpoint.
type HTTPClassifier struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewHTTPClassifier creates a classifier client. timeout bounds each call.
func NewHTTPClassifier(baseURL, apiKey, model string, timeout time.Duration) *HTTPClassifier {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &HTTPClassifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

const classifyPrompt = `You are categorizing a post from a construction and architecture community forum.
Available categories: %s

Classify the post below. Detect its language (ISO 639-1 code) and, when it is not English, translate it to English.

Format your response EXACTLY like this:
PRIMARY: <one category from the list>
SECONDARY: <zero or more categories from the list, comma separated>
LANGUAGE: <iso code>
TRANSLATION: <english translation, or the original text if already English>

Post:
%s`

const translatePrompt = `Translate the following text to English. Respond with ONLY the translation, nothing else.

%s`

// ClassifyPost asks the model for a category suggestion set.
func (c *HTTPClassifier) ClassifyPost(ctx context.Context, content string, categoryNames []string) (Suggestion, error) {
	prompt := fmt.Sprintf(classifyPrompt, strings.Join(categoryNames, ", "), content)
	text, err := c.call(ctx, prompt)
	if err != nil {
		return Suggestion{}, err
	}
	s := parseClassifyResponse(text, categoryNames)
	if s.Primary == "" && len(s.Secondary) == 0 {
		return Suggestion{}, fmt.Errorf("classifier returned no usable categories")
	}
	return s, nil
}

// TranslateToEnglish returns the English rendering of content.
func (c *HTTPClassifier) TranslateToEnglish(ctx context.Context, content string) (string, error) {
	text, err := c.call(ctx, fmt.Sprintf(translatePrompt, content))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *HTTPClassifier) call(ctx context.Context, prompt string) (string, error) {
	body, _ := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("classifier API status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return "", err
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("classifier API returned no choices")
	}
	return cr.Choices[0].Message.Content, nil
}

// parseClassifyResponse extracts a Suggestion from the line-oriented reply,
// keeping only categories present in the known set (case-insensitive).
func parseClassifyResponse(text string, known []string) Suggestion {
	canonical := make(map[string]string, len(known))
	for _, name := range known {
		canonical[strings.ToLower(name)] = name
	}
	lookup := func(name string) string {
		return canonical[strings.ToLower(strings.TrimSpace(name))]
	}

	s := Suggestion{Confidence: ConfidenceClientTrusted}
	inTranslation := false
	var translation []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "PRIMARY:"):
			inTranslation = false
			s.Primary = lookup(strings.TrimPrefix(trimmed, "PRIMARY:"))
		case strings.HasPrefix(trimmed, "SECONDARY:"):
			inTranslation = false
			for _, part := range strings.Split(strings.TrimPrefix(trimmed, "SECONDARY:"), ",") {
				if name := lookup(part); name != "" && name != s.Primary {
					s.Secondary = append(s.Secondary, name)
				}
			}
		case strings.HasPrefix(trimmed, "LANGUAGE:"):
			inTranslation = false
			s.Language = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(trimmed, "LANGUAGE:")))
		case strings.HasPrefix(trimmed, "TRANSLATION:"):
			inTranslation = true
			translation = append(translation, strings.TrimSpace(strings.TrimPrefix(trimmed, "TRANSLATION:")))
		case inTranslation:
			translation = append(translation, line)
		}
	}
	s.Translation = strings.TrimSpace(strings.Join(translation, "\n"))
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
