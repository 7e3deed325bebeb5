package main

import (
	"time"

	"github.com/archalley/forum/ai"
	"github.com/archalley/forum/cache"
	"github.com/archalley/forum/config"
	"github.com/archalley/forum/models"
	"github.com/archalley/forum/ratelimit"
	"github.com/archalley/forum/routes"
	"github.com/archalley/forum/services"
	"github.com/archalley/forum/utils"
	"github.com/archalley/forum/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Badge{},
		&models.UserBadge{},
		&models.Category{},
		&models.Post{},
		&models.Comment{},
		&models.Vote{},
		&models.Attachment{},
		&models.Notification{},
	)

	responseCache := cache.New(
		time.Duration(cfg.CacheTTLSeconds)*time.Second,
		cfg.CacheCapacity,
		time.Duration(cfg.CacheClearDebounceMS)*time.Millisecond,
	)
	classifier := ai.NewHTTPClassifier(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel,
		time.Duration(cfg.AITimeoutSeconds)*time.Second)
	voteLimiter := ratelimit.NewFixedWindow(cfg.VoteLimitPerWindow,
		time.Duration(cfg.VoteWindowSeconds)*time.Second)

	refiner := worker.NewRefiner(db, classifier, responseCache, cfg.RefineQueueSize)
	refiner.Start()
	defer refiner.Stop()

	badges := services.NewBadgeService(db)
	notify := services.NewNotifyService(db)
	posts := services.NewPostService(db, classifier, responseCache, badges, notify, refiner)
	votes := services.NewVoteService(db, voteLimiter,
		time.Duration(cfg.VoteTxTimeoutSeconds)*time.Second, notify)
	comments := services.NewCommentService(db, badges, notify)
	exports := services.NewExportService(db)

	r := routes.SetupRouter(routes.Deps{
		DB:       db,
		Cache:    responseCache,
		Posts:    posts,
		Votes:    votes,
		Comments: comments,
		Exports:  exports,
	})

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
