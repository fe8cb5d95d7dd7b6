package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoConfig contains configuration for the DynamoDB-backed store.
// Region and Profile fall back to the standard AWS config/credential chain.
type DynamoConfig struct {
	Region  string
	Profile string
	// Table is the registry table name; its primary key is the url attribute.
	Table string
}

// Dynamo implements Store on a DynamoDB table. Conditional expressions
// carry the concurrency control: create-if-absent and select-once.
type Dynamo struct {
	client *dynamodb.Client
	table  string
	now    func() time.Time
}

// dynamoItem mirrors the registry row shape. Timestamps are ISO-8601 UTC
// strings; ttl is epoch seconds for the table's TTL attribute.
type dynamoItem struct {
	URL         string  `dynamodbav:"url"`
	Status      string  `dynamodbav:"status"`
	Score       float64 `dynamodbav:"score"`
	Title       string  `dynamodbav:"title"`
	ProcessedAt string  `dynamodbav:"processed_at"`
	UpdatedAt   string  `dynamodbav:"updated_at"`
	TTL         int64   `dynamodbav:"ttl"`
}

// NewDynamo creates a DynamoDB-backed store using the default AWS
// configuration chain with optional overrides.
func NewDynamo(ctx context.Context, cfg DynamoConfig) (*Dynamo, error) {
	if cfg.Table == "" {
		return nil, fmt.Errorf("registry table name is required")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	return &Dynamo{
		client: dynamodb.NewFromConfig(awsCfg),
		table:  cfg.Table,
		now:    time.Now,
	}, nil
}

func (d *Dynamo) Get(ctx context.Context, url string) (*Record, error) {
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.table),
		Key:       urlKey(url),
	})
	if err != nil {
		return nil, fmt.Errorf("registry get %s: %w", url, err)
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}

	var item dynamoItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("registry unmarshal %s: %w", url, err)
	}
	return item.toRecord(), nil
}

func (d *Dynamo) CreatePending(ctx context.Context, url, title string, processedAt time.Time) error {
	now := d.now().UTC()
	item := dynamoItem{
		URL:         url,
		Status:      string(StatusPending),
		Score:       0,
		Title:       title,
		ProcessedAt: processedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   now.Format(time.RFC3339),
		TTL:         RecordTTL(now),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("registry marshal %s: %w", url, err)
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(d.table),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#u)"),
		ExpressionAttributeNames: map[string]string{
			"#u": "url",
		},
	})
	if isConditionalCheckFailed(err) {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("registry create pending %s: %w", url, err)
	}
	return nil
}

func (d *Dynamo) SetEvaluated(ctx context.Context, url string, score float64, processedAt time.Time) error {
	now := d.now().UTC()
	_, err := d.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(d.table),
		Key:                 urlKey(url),
		UpdateExpression:    aws.String("SET #s = :st, score = :score, processed_at = :pa, updated_at = :ua, #t = :ttl"),
		ConditionExpression: aws.String("attribute_not_exists(#s) OR #s <> :sel"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
			"#t": "ttl",
		},
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":st":    &ddbtypes.AttributeValueMemberS{Value: string(StatusEvaluated)},
			":sel":   &ddbtypes.AttributeValueMemberS{Value: string(StatusSelected)},
			":score": &ddbtypes.AttributeValueMemberN{Value: formatScore(score)},
			":pa":    &ddbtypes.AttributeValueMemberS{Value: processedAt.UTC().Format(time.RFC3339)},
			":ua":    &ddbtypes.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
			":ttl":   &ddbtypes.AttributeValueMemberN{Value: fmt.Sprintf("%d", RecordTTL(now))},
		},
	})
	if isConditionalCheckFailed(err) {
		// Already selected: terminal status never reverts.
		return nil
	}
	if err != nil {
		return fmt.Errorf("registry set evaluated %s: %w", url, err)
	}
	return nil
}

func (d *Dynamo) SetTerminal(ctx context.Context, url string, status Status, title string) error {
	if status != StatusEvalFailed && status != StatusTopicDuplicate {
		return errNotScorelessTerminal(status)
	}

	now := d.now().UTC()
	_, err := d.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(d.table),
		Key:                 urlKey(url),
		UpdateExpression:    aws.String("SET #s = :st, score = :zero, #title = :title, updated_at = :ua, #t = :ttl"),
		ConditionExpression: aws.String("attribute_not_exists(#s) OR #s <> :sel"),
		ExpressionAttributeNames: map[string]string{
			"#s":     "status",
			"#t":     "ttl",
			"#title": "title",
		},
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":st":    &ddbtypes.AttributeValueMemberS{Value: string(status)},
			":sel":   &ddbtypes.AttributeValueMemberS{Value: string(StatusSelected)},
			":zero":  &ddbtypes.AttributeValueMemberN{Value: "0"},
			":title": &ddbtypes.AttributeValueMemberS{Value: title},
			":ua":    &ddbtypes.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
			":ttl":   &ddbtypes.AttributeValueMemberN{Value: fmt.Sprintf("%d", RecordTTL(now))},
		},
	})
	if isConditionalCheckFailed(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("registry set %s %s: %w", status, url, err)
	}
	return nil
}

func (d *Dynamo) MarkSelected(ctx context.Context, url string, score float64, title string) error {
	now := d.now().UTC()
	_, err := d.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(d.table),
		Key:                 urlKey(url),
		UpdateExpression:    aws.String("SET #s = :st, score = :score, #title = :title, updated_at = :ua, #t = :ttl"),
		ConditionExpression: aws.String("attribute_exists(#u) AND #s <> :st"),
		ExpressionAttributeNames: map[string]string{
			"#u":     "url",
			"#s":     "status",
			"#t":     "ttl",
			"#title": "title",
		},
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":st":    &ddbtypes.AttributeValueMemberS{Value: string(StatusSelected)},
			":score": &ddbtypes.AttributeValueMemberN{Value: formatScore(score)},
			":title": &ddbtypes.AttributeValueMemberS{Value: title},
			":ua":    &ddbtypes.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
			":ttl":   &ddbtypes.AttributeValueMemberN{Value: fmt.Sprintf("%d", RecordTTL(now))},
		},
	})
	if isConditionalCheckFailed(err) {
		// The pipeline only selects records it evaluated in this run, so a
		// failed condition means another run selected the URL first.
		return ErrAlreadySelected
	}
	if err != nil {
		return fmt.Errorf("registry mark selected %s: %w", url, err)
	}
	return nil
}

func (item *dynamoItem) toRecord() *Record {
	rec := &Record{
		URL:    item.URL,
		Status: Status(item.Status),
		Score:  item.Score,
		Title:  item.Title,
		TTL:    item.TTL,
	}
	if t, err := time.Parse(time.RFC3339, item.ProcessedAt); err == nil {
		rec.ProcessedAt = t
	}
	if t, err := time.Parse(time.RFC3339, item.UpdatedAt); err == nil {
		rec.UpdatedAt = t
	}
	return rec
}

func urlKey(url string) map[string]ddbtypes.AttributeValue {
	return map[string]ddbtypes.AttributeValue{
		"url": &ddbtypes.AttributeValueMemberS{Value: url},
	}
}

func formatScore(score float64) string {
	return fmt.Sprintf("%g", score)
}

func isConditionalCheckFailed(err error) bool {
	if err == nil {
		return false
	}
	var ccf *ddbtypes.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
