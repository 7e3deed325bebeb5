package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validInput() CreatePostInput {
	return CreatePostInput{
		Content:    "a question about facade detailing",
		CategoryID: "0f8fad5b-d9cb-469f-a165-70867728950e",
	}
}

func TestCreatePostInputValidateDefaults(t *testing.T) {
	in := validInput()
	assert.Nil(t, in.Validate())
	assert.Equal(t, "en", in.OriginalLanguage)
}

func TestCreatePostInputValidateSlugCategory(t *testing.T) {
	in := validInput()
	in.CategoryID = "general-discussion"
	assert.Nil(t, in.Validate())
}

func TestCreatePostInputValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreatePostInput)
		field  string
	}{
		{"blank content", func(in *CreatePostInput) { in.Content = "   " }, "content"},
		{"oversized content", func(in *CreatePostInput) { in.Content = strings.Repeat("x", 10001) }, "content"},
		{"missing category", func(in *CreatePostInput) { in.CategoryID = "" }, "categoryId"},
		{"malformed category", func(in *CreatePostInput) { in.CategoryID = "not a category!" }, "categoryId"},
		{"too many tags", func(in *CreatePostInput) { in.Tags = make([]string, 11) }, "tags"},
		{"unknown language", func(in *CreatePostInput) { in.OriginalLanguage = "xx" }, "originalLanguage"},
		{"too many suggestions", func(in *CreatePostInput) { in.AISuggestedCategories = make([]string, 6) }, "aiSuggestedCategories"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			verr := in.Validate()
			if assert.NotNil(t, verr) {
				assert.Contains(t, verr.Fields, tt.field)
			}
		})
	}
}

func TestValidateListQueryDefaults(t *testing.T) {
	q := ListQuery{}
	assert.Nil(t, ValidateListQuery(&q))
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, "created_at", q.SortBy)
	assert.Equal(t, "desc", q.SortOrder)
}

func TestValidateListQueryRanges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ListQuery)
		field  string
	}{
		{"page too large", func(q *ListQuery) { q.Page = 1001 }, "page"},
		{"page negative", func(q *ListQuery) { q.Page = -1 }, "page"},
		{"limit too large", func(q *ListQuery) { q.Limit = 101 }, "limit"},
		{"limit negative", func(q *ListQuery) { q.Limit = -5 }, "limit"},
		{"bad sort field", func(q *ListQuery) { q.SortBy = "score" }, "sortBy"},
		{"bad sort order", func(q *ListQuery) { q.SortOrder = "sideways" }, "sortOrder"},
		{"category not uuid", func(q *ListQuery) { q.Category = "design" }, "category"},
		{"author not uuid", func(q *ListQuery) { q.AuthorID = "alice" }, "authorId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := ListQuery{}
			tt.mutate(&q)
			verr := ValidateListQuery(&q)
			if assert.NotNil(t, verr) {
				assert.Contains(t, verr.Fields, tt.field)
			}
		})
	}
}

func TestValidateListQueryVotesSortAllowed(t *testing.T) {
	q := ListQuery{SortBy: "votes", SortOrder: "asc"}
	assert.Nil(t, ValidateListQuery(&q))
}
