// Package mongo is the MongoDB backend of the sample log.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"content_metrics/internal/domain"
)

const collectionName = "content_metrics"

type sampleDocument struct {
	ID                string         `bson:"_id"`
	UserID            int64          `bson:"user_id"`
	Platform          string         `bson:"platform"`
	PlatformContentID string         `bson:"platform_content_id"`
	RetrievedAt       time.Time      `bson:"retrieved_at"`
	Views             *int64         `bson:"views"`
	Likes             *int64         `bson:"likes"`
	Comments          *int64         `bson:"comments"`
	Shares            *int64         `bson:"shares"`
	EngagementRate    float64        `bson:"engagement_rate"`
	PlatformSpecific  map[string]any `bson:"platform_specific"`
}

type dayDocument struct {
	Date     string `bson:"_id"`
	Views    int64  `bson:"views"`
	Likes    int64  `bson:"likes"`
	Comments int64  `bson:"comments"`
}

// MetricsStore keeps samples in one collection. It only ever inserts.
type MetricsStore struct {
	col      *mongo.Collection
	timezone string
}

func NewMetricsStore(db *mongo.Database, timezone string) *MetricsStore {
	if timezone == "" {
		timezone = "UTC"
	}
	return &MetricsStore{
		col:      db.Collection(collectionName),
		timezone: timezone,
	}
}

// Connect opens a client, checks connectivity and returns the database handle.
func Connect(ctx context.Context, uri, database string) (*mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client.Database(database), nil
}

// EnsureIndexes creates the indexes the read paths rely on.
func (s *MetricsStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "platform", Value: 1}, {Key: "platform_content_id", Value: 1}, {Key: "retrieved_at", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "retrieved_at", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

func (s *MetricsStore) Append(ctx context.Context, sample *domain.MetricSample) error {
	doc := sampleDocument{
		ID:                sample.ID,
		UserID:            sample.UserID,
		Platform:          sample.Platform,
		PlatformContentID: sample.PlatformContentID,
		RetrievedAt:       sample.RetrievedAt,
		Views:             sample.Views,
		Likes:             sample.Likes,
		Comments:          sample.Comments,
		Shares:            sample.Shares,
		EngagementRate:    sample.EngagementRate,
		PlatformSpecific:  sample.PlatformSpecific,
	}
	if doc.PlatformSpecific == nil {
		doc.PlatformSpecific = map[string]any{}
	}

	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}
	return nil
}

func (s *MetricsStore) Latest(ctx context.Context, key domain.ContentKey) (*domain.MetricSample, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "retrieved_at", Value: -1}})

	var doc sampleDocument
	err := s.col.FindOne(ctx, keyFilter(key), opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find latest sample: %w", err)
	}
	sample := doc.toDomain()
	return &sample, nil
}

func (s *MetricsStore) All(ctx context.Context, key domain.ContentKey) ([]domain.MetricSample, error) {
	opts := options.Find().SetSort(bson.D{{Key: "retrieved_at", Value: 1}})

	cursor, err := s.col.Find(ctx, keyFilter(key), opts)
	if err != nil {
		return nil, fmt.Errorf("find samples: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	docs := make([]sampleDocument, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode samples: %w", err)
	}
	return toDomain(docs), nil
}

// DayAggregates sums counters per calendar day from start onwards, counting
// only the latest sample of each content item within a day.
func (s *MetricsStore) DayAggregates(ctx context.Context, scope domain.Scope, start time.Time) ([]domain.DayAggregate, error) {
	match := scopeFilter(scope)
	match["retrieved_at"] = bson.M{"$gte": start}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "retrieved_at", Value: 1}}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"platform":            "$platform",
				"platform_content_id": "$platform_content_id",
				"day": bson.M{"$dateToString": bson.M{
					"format":   "%Y-%m-%d",
					"date":     "$retrieved_at",
					"timezone": s.timezone,
				}},
			},
			"views":    bson.M{"$last": "$views"},
			"likes":    bson.M{"$last": "$likes"},
			"comments": bson.M{"$last": "$comments"},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":      "$_id.day",
			"views":    bson.M{"$sum": "$views"},
			"likes":    bson.M{"$sum": "$likes"},
			"comments": bson.M{"$sum": "$comments"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate days: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	docs := make([]dayDocument, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode day aggregates: %w", err)
	}

	aggs := make([]domain.DayAggregate, 0, len(docs))
	for _, d := range docs {
		aggs = append(aggs, domain.DayAggregate{Date: d.Date, Views: d.Views, Likes: d.Likes, Comments: d.Comments})
	}
	return aggs, nil
}

func (s *MetricsStore) LatestPerContent(ctx context.Context, scope domain.Scope) ([]domain.MetricSample, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: scopeFilter(scope)}},
		{{Key: "$sort", Value: bson.D{{Key: "retrieved_at", Value: -1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":    bson.M{"platform": "$platform", "platform_content_id": "$platform_content_id"},
			"latest": bson.M{"$first": "$$ROOT"},
		}}},
		{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$latest"}}},
		{{Key: "$sort", Value: bson.D{{Key: "platform", Value: 1}, {Key: "platform_content_id", Value: 1}}}},
	}

	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate latest per content: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	docs := make([]sampleDocument, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode latest per content: %w", err)
	}
	return toDomain(docs), nil
}

func keyFilter(key domain.ContentKey) bson.M {
	return bson.M{"platform": key.Platform, "platform_content_id": key.PlatformContentID}
}

func scopeFilter(scope domain.Scope) bson.M {
	filter := bson.M{}
	if scope.UserID != 0 {
		filter["user_id"] = scope.UserID
	}
	if scope.Platform != "" {
		filter["platform"] = scope.Platform
	}
	if scope.PlatformContentID != "" {
		filter["platform_content_id"] = scope.PlatformContentID
	}
	return filter
}

func (d sampleDocument) toDomain() domain.MetricSample {
	return domain.MetricSample{
		ID:                d.ID,
		UserID:            d.UserID,
		Platform:          d.Platform,
		PlatformContentID: d.PlatformContentID,
		RetrievedAt:       d.RetrievedAt.UTC(),
		Counters: domain.Counters{
			Views:    d.Views,
			Likes:    d.Likes,
			Comments: d.Comments,
			Shares:   d.Shares,
		},
		EngagementRate:   d.EngagementRate,
		PlatformSpecific: d.PlatformSpecific,
	}
}

func toDomain(docs []sampleDocument) []domain.MetricSample {
	samples := make([]domain.MetricSample, 0, len(docs))
	for _, d := range docs {
		samples = append(samples, d.toDomain())
	}
	return samples
}
