package models

import (
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attachment references an uploaded file belonging to a post. Files live in
// external storage; only the URL and derived metadata are recorded here.
// Size may be zero when the uploader did not report it.
type Attachment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	PostID    string    `gorm:"size:36;index;not null" json:"post_id"`
	URL       string    `gorm:"size:1024;not null" json:"url"`
	Filename  string    `gorm:"size:255" json:"filename"`
	MimeType  string    `gorm:"size:128" json:"mime_type"`
	Size      int64     `gorm:"not null;default:0" json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID and infers the MIME type when missing.
func (a *Attachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.MimeType == "" {
		a.MimeType = DetectMimeType(a.Filename)
	}
	return nil
}

// mimeByExtension is the fixed whitelist of recognized attachment types.
var mimeByExtension = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".bmp":  "image/bmp",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".txt":  "text/plain",
	".zip":  "application/zip",
	".dwg":  "image/vnd.dwg",
}

// DetectMimeType maps a filename extension to a MIME type using the fixed
// whitelist. Unknown extensions map to a generic binary type.
func DetectMimeType(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if mt, ok := mimeByExtension[ext]; ok {
		return mt
	}
	return "application/octet-stream"
}

// FilenameFromURL extracts the last path segment of a URL for use as a
// fallback attachment filename.
func FilenameFromURL(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		if name := path.Base(u.Path); name != "." && name != "/" {
			return name
		}
	}
	if idx := strings.LastIndex(raw, "/"); idx >= 0 && idx < len(raw)-1 {
		return raw[idx+1:]
	}
	return raw
}
