package worker

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/archalley/forum/ai"
	"github.com/archalley/forum/cache"
	"github.com/archalley/forum/models"
	"github.com/archalley/forum/utils"
)

// Job is one deferred refinement request for a freshly created post.
type Job struct {
	PostID              string
	HasClientCategories bool
}

// Refiner consumes refinement jobs from an in-memory queue, one at a time.
// For each post it completes the translation when needed, re-classifies the
// content unless the client already supplied categories, merges the refined
// categories into the stored set, and updates counters and the response
// cache only when something actually changed. Jobs are fire-and-forget: a
// full queue drops new jobs and every processing failure is logged and
// swallowed.
type Refiner struct {
	db         *gorm.DB
	classifier ai.Classifier
	cache      *cache.ResponseCache
	jobs       chan Job

	jobTimeout time.Duration

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewRefiner creates a Refiner with the given queue capacity.
func NewRefiner(db *gorm.DB, classifier ai.Classifier, rc *cache.ResponseCache, queueSize int) *Refiner {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Refiner{
		db:         db,
		classifier: classifier,
		cache:      rc,
		jobs:       make(chan Job, queueSize),
		jobTimeout: 60 * time.Second,
		done:       make(chan struct{}),
	}
}

// Start launches the single consumer goroutine.
func (r *Refiner) Start() {
	go func() {
		defer close(r.done)
		for job := range r.jobs {
			r.process(job)
		}
	}()
}

// Enqueue submits a job without blocking. It returns false when the queue is
// full or already closed.
func (r *Refiner) Enqueue(postID string, hasClientCategories bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	select {
	case r.jobs <- Job{PostID: postID, HasClientCategories: hasClientCategories}:
		return true
	default:
		return false
	}
}

// Stop closes the queue and waits for queued jobs to drain.
func (r *Refiner) Stop() {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.jobs)
	}
	r.mu.Unlock()
	<-r.done
}

func (r *Refiner) process(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), r.jobTimeout)
	defer cancel()

	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, "id = ?", job.PostID).Error; err != nil {
		utils.Sugar.Warnf("refinement: post load failed id=%s: %v", job.PostID, err)
		return
	}

	translated := post.TranslatedContent
	if post.OriginalLanguage != models.DefaultLanguage && post.TranslatedContent == post.Content {
		if text, err := r.classifier.TranslateToEnglish(ctx, post.Content); err != nil {
			utils.Sugar.Warnf("refinement: translation failed post=%s: %v", post.ID, err)
		} else if text != "" {
			translated = text
		}
	}

	refinedIDs := post.CategoryIDs
	primary := post.AIPrimaryCategory
	var secondary models.StringList = post.AISecondaryCategories
	if !job.HasClientCategories {
		names, idByName, err := r.categoryIndex(ctx)
		if err != nil {
			utils.Sugar.Warnf("refinement: category load failed: %v", err)
			return
		}
		if s, err := r.classifier.ClassifyPost(ctx, post.Content, names); err != nil {
			utils.Sugar.Warnf("refinement: classification failed post=%s: %v", post.ID, err)
		} else {
			suggested := make([]string, 0, 1+len(s.Secondary))
			if id, ok := idByName[strings.ToLower(s.Primary)]; ok {
				suggested = append(suggested, id)
				primary = s.Primary
			}
			for _, name := range s.Secondary {
				if id, ok := idByName[strings.ToLower(name)]; ok {
					suggested = append(suggested, id)
				}
			}
			secondary = s.Secondary
			refinedIDs, _ = models.MergeCategoryIDs(post.CategoryIDs, suggested)
		}
	}

	if !changed(post.CategoryIDs, refinedIDs) && translated == post.TranslatedContent {
		return
	}

	_, added := models.MergeCategoryIDs(post.CategoryIDs, refinedIDs)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"translated_content":      translated,
			"category_ids":            models.StringList(refinedIDs),
			"ai_primary_category":     primary,
			"ai_secondary_categories": secondary,
		}
		if err := tx.Model(&models.Post{}).Where("id = ?", post.ID).Updates(updates).Error; err != nil {
			return err
		}
		for _, catID := range added {
			if err := tx.Model(&models.Category{}).
				Where("id = ?", catID).
				UpdateColumn("post_count", gorm.Expr("post_count + 1")).Error; err != nil {
				utils.Sugar.Warnf("refinement: post count increment failed category=%s: %v", catID, err)
			}
		}
		return nil
	})
	if err != nil {
		utils.Sugar.Warnf("refinement: persist failed post=%s: %v", post.ID, err)
		return
	}

	if r.cache != nil {
		r.cache.ClearDebounced()
	}
	utils.Sugar.Infof("refinement applied post=%s categories=%d translated=%t",
		post.ID, len(refinedIDs), translated != post.TranslatedContent)
}

func (r *Refiner) categoryIndex(ctx context.Context) ([]string, map[string]string, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Find(&categories).Error; err != nil {
		return nil, nil, err
	}
	names := make([]string, 0, len(categories))
	idByName := make(map[string]string, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
		idByName[strings.ToLower(c.Name)] = c.ID
	}
	return names, idByName, nil
}

// changed compares two ID sets ignoring order.
func changed(a, b []string) bool {
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	slices.Sort(as)
	slices.Sort(bs)
	return !slices.Equal(as, bs)
}
