package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/karanxa1/trade-mart/internal/models"
)

// IReferenceService serves the small static category/condition collections
// through a redis read-through cache.
type IReferenceService interface {
	Categories(ctx context.Context) ([]models.Category, error)
	Conditions(ctx context.Context) ([]models.Condition, error)
	Seed(ctx context.Context) error
}

const (
	categoriesCollection = "categories"
	conditionsCollection = "conditions"

	categoriesCacheKey = "ref:categories"
	conditionsCacheKey = "ref:conditions"
)

type referenceService struct {
	db       *mongo.Database
	rdb      *redis.Client
	cacheTTL time.Duration
}

// NewReferenceService creates a new ReferenceService. rdb may be nil, in
// which case every read goes to mongo.
func NewReferenceService(db *mongo.Database, rdb *redis.Client, cacheTTL time.Duration) IReferenceService {
	return &referenceService{db: db, rdb: rdb, cacheTTL: cacheTTL}
}

// cachedRead fetches a JSON value from redis, falling back to loader and
// populating the cache on a miss. Cache failures degrade to mongo reads.
func (s *referenceService) cachedRead(ctx context.Context, key string, out interface{}, loader func() (interface{}, error)) error {
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, key).Result()
		if err == nil {
			if jsonErr := json.Unmarshal([]byte(raw), out); jsonErr == nil {
				return nil
			}
			// Corrupt payload; drop it and reload.
			s.rdb.Del(ctx, key)
		} else if !errors.Is(err, redis.Nil) {
			log.Printf("WARN: redis read for %s failed: %v", key, err)
		}
	}

	value, err := loader()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return err
	}
	if s.rdb != nil {
		if err := s.rdb.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
			log.Printf("WARN: redis write for %s failed: %v", key, err)
		}
	}
	return nil
}

// Categories returns all categories, cached.
func (s *referenceService) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.cachedRead(ctx, categoriesCacheKey, &categories, func() (interface{}, error) {
		opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
		cursor, err := s.db.Collection(categoriesCollection).Find(ctx, bson.M{}, opts)
		if err != nil {
			return nil, fmt.Errorf("db error listing categories: %w", err)
		}
		defer cursor.Close(ctx)
		var rows []models.Category
		if err = cursor.All(ctx, &rows); err != nil {
			return nil, err
		}
		return rows, nil
	})
	return categories, err
}

// Conditions returns all conditions, cached.
func (s *referenceService) Conditions(ctx context.Context) ([]models.Condition, error) {
	var conditions []models.Condition
	err := s.cachedRead(ctx, conditionsCacheKey, &conditions, func() (interface{}, error) {
		opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
		cursor, err := s.db.Collection(conditionsCollection).Find(ctx, bson.M{}, opts)
		if err != nil {
			return nil, fmt.Errorf("db error listing conditions: %w", err)
		}
		defer cursor.Close(ctx)
		var rows []models.Condition
		if err = cursor.All(ctx, &rows); err != nil {
			return nil, err
		}
		return rows, nil
	})
	return conditions, err
}

// Seed installs the default category and condition sets. Upserts, so it is
// safe to run on every startup; the cache is invalidated afterwards.
func (s *referenceService) Seed(ctx context.Context) error {
	for i, name := range models.DefaultCategories {
		id := strconv.Itoa(i + 1)
		_, err := s.db.Collection(categoriesCollection).UpdateOne(ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{"name": name}},
			options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("failed to seed category %q: %w", name, err)
		}
	}
	for i, name := range models.DefaultConditions {
		id := strconv.Itoa(i + 1)
		_, err := s.db.Collection(conditionsCollection).UpdateOne(ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{"name": name}},
			options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("failed to seed condition %q: %w", name, err)
		}
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, categoriesCacheKey, conditionsCacheKey).Err(); err != nil {
			log.Printf("WARN: failed to invalidate reference cache: %v", err)
		}
	}
	return nil
}
