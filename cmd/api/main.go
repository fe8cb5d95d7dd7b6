package main

import (
	"context"
	"log"
	"os"
	"time"

	"newsbot/api"
	"newsbot/common"
	"newsbot/config"
	"newsbot/handoff"
	"newsbot/history"
	"newsbot/oracle"
	"newsbot/registry"
	"newsbot/rssfeeds"
	"newsbot/selector"

	"github.com/joho/godotenv"
)

// The ops API exposes registry inspection and an on-demand selection run
// for debugging; the scheduled batch entry point is the root command.
func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	ctx := context.Background()

	store, err := registry.NewDynamo(ctx, registry.DynamoConfig{
		Region: cfg.AWSRegion,
		Table:  cfg.RegistryTable,
	})
	if err != nil {
		log.Fatalf("Failed to initialize registry: %v", err)
	}

	s3Client, err := common.NewS3(ctx, common.S3Config{Region: cfg.AWSRegion})
	if err != nil {
		log.Fatalf("Failed to initialize S3 client: %v", err)
	}

	writer, err := handoff.NewWriter(handoff.WriterConfig{
		Store:  s3Client,
		Bucket: cfg.Bucket,
		Prefix: cfg.PendingPrefix,
	})
	if err != nil {
		log.Fatalf("Failed to initialize hand-off writer: %v", err)
	}

	var publishHistory history.Source
	if cfg.RedisAddr != "" {
		redisHistory := history.NewRedis(history.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
			Key:      cfg.PublishedKey,
		})
		defer redisHistory.Close()
		publishHistory = redisHistory
	}

	pipeline, err := selector.New(selector.Options{
		Registry:       store,
		Oracle:         oracle.NewCohere(cfg.CohereAPIKey, cfg.CohereModel),
		Handoff:        writer,
		History:        publishHistory,
		Excerpt:        rssfeeds.Excerpt,
		Threshold:      cfg.ScoreThreshold,
		StockWindow:    cfg.StockWindow,
		PublishWindow:  cfg.PublishWindow,
		MaxEvalRetries: cfg.MaxEvalRetries,
	})
	if err != nil {
		log.Fatalf("Failed to initialize pipeline: %v", err)
	}

	run := func(ctx context.Context) (*selector.Result, error) {
		sources, err := rssfeeds.LoadSources(cfg.SourcesPath)
		if err != nil {
			return nil, err
		}
		candidates := rssfeeds.Collect(ctx, sources.GroupA, time.Now(), cfg.FreshnessHorizon)
		reaction := rssfeeds.FetchReaction(ctx, sources.GroupB)
		return pipeline.Run(ctx, candidates, reaction, selector.NewBudget(cfg.RunBudget))
	}

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	r := api.NewRouter(api.Deps{Registry: store, Run: run})
	log.Printf("Starting API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  GET  /api/health")
	log.Println("  GET  /api/registry/record?url=...")
	log.Println("  POST /api/selector/run")

	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
