package services

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/archalley/forum/models"
)

// ExportService builds a ZIP archive of everything a user has contributed:
// their profile, every post with its metadata, every comment, and a manifest
// of attachment URLs. Attachment bytes live in external storage and are not
// downloaded into the archive.
type ExportService struct {
	db *gorm.DB
}

func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{db: db}
}

// Export assembles the archive in memory and returns its bytes together with
// a suggested filename.
func (s *ExportService) Export(ctx context.Context, userID string) ([]byte, string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}

	var posts []models.Post
	if err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Attachments").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&posts).Error; err != nil {
		return nil, "", err
	}
	var comments []models.Comment
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	if err := writeZipFile(zw, "profile.txt", profileText(&user, len(posts), len(comments))); err != nil {
		return nil, "", err
	}
	var manifest strings.Builder
	for i := range posts {
		p := &posts[i]
		name := fmt.Sprintf("posts/%s-%s.txt", p.CreatedAt.Format("2006-01-02"), p.ID)
		if err := writeZipFile(zw, name, postText(p)); err != nil {
			return nil, "", err
		}
		for _, a := range p.Attachments {
			manifest.WriteString(fmt.Sprintf("%s\t%s\t%s\n", p.ID, a.Filename, a.URL))
		}
	}
	for i := range comments {
		c := &comments[i]
		name := fmt.Sprintf("comments/%s-%s.txt", c.CreatedAt.Format("2006-01-02"), c.ID)
		body := fmt.Sprintf("Post: %s\nDate: %s\n\n%s\n", c.PostID, c.CreatedAt.Format(time.RFC3339), c.Content)
		if err := writeZipFile(zw, name, body); err != nil {
			return nil, "", err
		}
	}
	if manifest.Len() > 0 {
		if err := writeZipFile(zw, "attachments.txt", manifest.String()); err != nil {
			return nil, "", err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("archalley-export-%s-%s.zip", user.Username, time.Now().Format("20060102"))
	return buf.Bytes(), filename, nil
}

func writeZipFile(zw *zip.Writer, name, content string) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write([]byte(content))
	return err
}

func profileText(u *models.User, posts, comments int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Username: %s\n", u.Username)
	fmt.Fprintf(&b, "Email: %s\n", u.Email)
	fmt.Fprintf(&b, "Profession: %s\n", u.Profession)
	fmt.Fprintf(&b, "Company: %s\n", u.Company)
	fmt.Fprintf(&b, "Joined: %s\n", u.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Posts: %d\nComments: %d\n", posts, comments)
	return b.String()
}

func postText(p *models.Post) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Date: %s\n", p.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Category: %s\n", p.Category.Name)
	fmt.Fprintf(&b, "Language: %s\n", p.OriginalLanguage)
	fmt.Fprintf(&b, "Anonymous: %t\n\n", p.IsAnonymous)
	b.WriteString(p.Content)
	b.WriteString("\n")
	if p.TranslatedContent != "" && p.TranslatedContent != p.Content {
		b.WriteString("\n--- Translation ---\n")
		b.WriteString(p.TranslatedContent)
		b.WriteString("\n")
	}
	return b.String()
}
