package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectMimeType(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"plan.pdf", "application/pdf"},
		{"photo.JPG", "image/jpeg"},
		{"render.png", "image/png"},
		{"drawing.dwg", "image/vnd.dwg"},
		{"notes.txt", "text/plain"},
		{"archive.unknownext", "application/octet-stream"},
		{"noextension", "application/octet-stream"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectMimeType(tt.filename), tt.filename)
	}
}

func TestFilenameFromURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://cdn.example.com/uploads/2026/plan.pdf", "plan.pdf"},
		{"https://cdn.example.com/uploads/photo.png?sig=abc", "photo.png"},
		{"plain-name.jpg", "plain-name.jpg"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FilenameFromURL(tt.raw), tt.raw)
	}
}

func TestSupportedLanguages(t *testing.T) {
	assert.True(t, IsSupportedLanguage("en"))
	assert.True(t, IsSupportedLanguage("si"))
	assert.False(t, IsSupportedLanguage("xx"))
	assert.Equal(t, "en", DefaultLanguage)
}
