package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StringList stores a JSON-encoded list of strings in a text column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported type for StringList")
	}
}

// Post represents a forum post created by a user.
//
// CategoryIDs always starts with the primary CategoryID, is deduplicated and
// holds at most four entries; use BuildCategoryIDs to construct it.
// TranslatedContent defaults to Content until a translation is produced.
type Post struct {
	ID                    string     `gorm:"primaryKey;size:36" json:"id"`
	UserID                string     `gorm:"size:36;index;not null" json:"user_id"`
	Content               string     `gorm:"type:text;not null" json:"content"`
	TranslatedContent     string     `gorm:"type:text" json:"translated_content"`
	CategoryID            string     `gorm:"size:36;index;not null" json:"category_id"`
	CategoryIDs           StringList `gorm:"type:text" json:"category_ids"`
	IsAnonymous           bool       `gorm:"not null;default:false" json:"is_anonymous"`
	IsPinned              bool       `gorm:"not null;default:false" json:"is_pinned"`
	AIPrimaryCategory     string     `gorm:"size:64" json:"ai_primary_category"`
	AISecondaryCategories StringList `gorm:"type:text" json:"ai_secondary_categories"`
	OriginalLanguage      string     `gorm:"size:8;default:'en'" json:"original_language"`
	CreatedAt             time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
	User                  User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Category              Category   `json:"category"`
	Attachments           []Attachment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"attachments"`
	Comments              []Comment    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"comments"`
}

// BeforeCreate assigns a UUID and defaults TranslatedContent to the original text.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.TranslatedContent == "" {
		p.TranslatedContent = p.Content
	}
	if p.OriginalLanguage == "" {
		p.OriginalLanguage = DefaultLanguage
	}
	return nil
}
