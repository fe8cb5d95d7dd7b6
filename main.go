package main

import (
	"context"
	"log"
	"time"

	"newsbot/common"
	"newsbot/config"
	"newsbot/handoff"
	"newsbot/history"
	"newsbot/kafka"
	"newsbot/oracle"
	"newsbot/registry"
	"newsbot/rssfeeds"
	"newsbot/selector"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()
	cfg := config.FromEnv()
	ctx := context.Background()

	log.Println("=== Selector run started ===")

	sources, err := rssfeeds.LoadSources(cfg.SourcesPath)
	if err != nil {
		log.Fatalf("Failed to load feed sources: %v", err)
	}

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

	// Kafka notifications are optional; the hand-off object is the durable signal.
	var notifier handoff.Notifier
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(kafka.ProducerConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		if err != nil {
			log.Printf("Kafka unavailable, continuing without notifications: %v", err)
		} else {
			defer producer.Close()
			notifier = producer
		}
	}

	writer, err := handoff.NewWriter(handoff.WriterConfig{
		Store:    s3Client,
		Bucket:   cfg.Bucket,
		Prefix:   cfg.PendingPrefix,
		Notifier: notifier,
	})
	if err != nil {
		log.Fatalf("Failed to initialize hand-off writer: %v", err)
	}

	// Publish history is optional; the topic filter fails open without it.
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

	budget := selector.NewBudget(cfg.RunBudget)

	log.Printf("Step 1: Fetching %d feed(s)...", len(sources.GroupA))
	candidates := rssfeeds.Collect(ctx, sources.GroupA, time.Now(), cfg.FreshnessHorizon)
	log.Printf("Collected %d fresh candidate(s)", len(candidates))

	log.Println("Step 2: Fetching reaction summary...")
	reaction := rssfeeds.FetchReaction(ctx, sources.GroupB)

	log.Println("Step 3: Running selection...")
	result, err := pipeline.Run(ctx, candidates, reaction, budget)
	if err != nil {
		log.Fatalf("Selection run failed: %v", err)
	}

	log.Printf("Run outcome: %s (new=%d stock=%d evaluated=%d duplicates=%d failed=%d)",
		result.Outcome, result.NewCount, result.StockCount,
		result.EvaluatedCount, result.DuplicateCount, result.FailedCount)
	if result.Outcome == selector.OutcomeSelected {
		log.Printf("Hand-off written: s3://%s/%s", cfg.Bucket, result.HandoffKey)
	}

	log.Println("=== Selector run complete ===")
}
