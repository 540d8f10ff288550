package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/config"
	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/domain"
)

const (
	recordKeyPrefix = "foodcost:record:"
	recordIndexKey  = "foodcost:records"
)

// RedisStore keeps usage records as JSON documents in Redis. Each record
// lives under its own key; a hash indexes id -> summary so listing and
// duplicate checks never load full payloads.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects and pings the configured Redis instance.
func NewRedisStore(cfg config.RedisConfig) (*RedisStore, error) {
	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func buildRedisOptions(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL != "" {
		opt, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := cfg.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.Password,
		DB:       cfg.DB,
	}, nil
}

func (s *RedisStore) Save(ctx context.Context, record domain.UsageRecord) (string, error) {
	summaries, err := s.List(ctx)
	if err != nil {
		return "", err
	}
	if findDuplicate(record, summaries) {
		return "", domain.ErrDuplicateRecord
	}

	now := time.Now().UTC()
	record.ID = newRecordID(record, now)
	record.CreatedAt = now

	payload, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encode usage record: %w", err)
	}
	summary, err := json.Marshal(record.Summarize())
	if err != nil {
		return "", fmt.Errorf("encode record summary: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, recordKeyPrefix+record.ID, payload, 0)
	pipe.HSet(ctx, recordIndexKey, record.ID, summary)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("redis save failed: %w", err)
	}

	return record.ID, nil
}

func (s *RedisStore) Load(ctx context.Context, id string) (domain.UsageRecord, error) {
	payload, err := s.client.Get(ctx, recordKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return domain.UsageRecord{}, domain.ErrRecordNotFound
	}
	if err != nil {
		return domain.UsageRecord{}, fmt.Errorf("redis get failed: %w", err)
	}

	var record domain.UsageRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return domain.UsageRecord{}, fmt.Errorf("decode usage record: %w", err)
	}
	return record, nil
}

func (s *RedisStore) List(ctx context.Context) ([]domain.RecordSummary, error) {
	entries, err := s.client.HGetAll(ctx, recordIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis index read failed: %w", err)
	}

	summaries := make([]domain.RecordSummary, 0, len(entries))
	for _, raw := range entries {
		var summary domain.RecordSummary
		if err := json.Unmarshal([]byte(raw), &summary); err != nil {
			return nil, fmt.Errorf("decode record summary: %w", err)
		}
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	deleted, err := s.client.Del(ctx, recordKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	if deleted == 0 {
		return domain.ErrRecordNotFound
	}
	return s.client.HDel(ctx, recordIndexKey, id).Err()
}

var _ RecordStore = (*RedisStore)(nil)
