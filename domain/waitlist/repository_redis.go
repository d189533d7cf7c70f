package waitlist

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/akeren/launch-waitlist/internal/models"
	apperrors "github.com/akeren/launch-waitlist/pkg/errors"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const DefaultRedisKeyPrefix = "waitlist:"

// The hash (email -> entry JSON) enforces uniqueness; the sorted set (email scored by
// created_at in microseconds) serves the recency feed. Both are written in one script.
var createEntryScript = redis.NewScript(`
	local entries = KEYS[1]
	local recent = KEYS[2]
	local email = ARGV[1]
	local payload = ARGV[2]
	local score = ARGV[3]

	if redis.call('HSETNX', entries, email, payload) == 0 then
		return 0
	end

	redis.call('ZADD', recent, score, email)
	return 1
`)

var errRedisDuplicate = errors.New("duplicate waitlist email")

type redisWaitlistRepository struct {
	client     *redis.Client
	entriesKey string
	recentKey  string
}

// NewRedisWaitlistRepository stores entries under keyPrefix ("waitlist:" when empty).
func NewRedisWaitlistRepository(client *redis.Client, keyPrefix string) WaitlistRepository {
	if keyPrefix == "" {
		keyPrefix = DefaultRedisKeyPrefix
	}

	return &redisWaitlistRepository{
		client:     client,
		entriesKey: keyPrefix + "entries",
		recentKey:  keyPrefix + "recent",
	}
}

func (rr *redisWaitlistRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	exists, err := rr.client.HExists(ctx, rr.entriesKey, email).Result()
	if err != nil {
		return false, apperrors.NewDatabaseError("unable to look up waitlist entry", err)
	}

	return exists, nil
}

func (rr *redisWaitlistRepository) CreateEntry(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CreatedAt = entry.CreatedAt.UTC()

	payload, err := json.Marshal(entry)
	if err != nil {
		return nil, apperrors.NewDatabaseError("unable to encode waitlist entry", err)
	}

	created, err := createEntryScript.Run(
		ctx,
		rr.client,
		[]string{rr.entriesKey, rr.recentKey},
		entry.Email,
		payload,
		entry.CreatedAt.UnixMicro(),
	).Int()
	if err != nil {
		return nil, apperrors.NewDatabaseError("unable to create waitlist entry", err)
	}

	if created == 0 {
		return nil, apperrors.NewConflictError(MessageEmailTaken, errRedisDuplicate)
	}

	return entry, nil
}

func (rr *redisWaitlistRepository) CountEntries(ctx context.Context) (int64, error) {
	count, err := rr.client.HLen(ctx, rr.entriesKey).Result()
	if err != nil {
		return 0, apperrors.NewDatabaseError("unable to count waitlist entries", err)
	}

	return count, nil
}

func (rr *redisWaitlistRepository) RecentEntries(ctx context.Context, limit int) ([]*models.WaitlistEntry, error) {
	if limit <= 0 {
		return []*models.WaitlistEntry{}, nil
	}

	members, err := rr.client.ZRevRangeWithScores(ctx, rr.recentKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, apperrors.NewDatabaseError("unable to fetch recent waitlist entries", err)
	}

	entries := make([]*models.WaitlistEntry, 0, len(members))
	for _, member := range members {
		email, ok := member.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, &models.WaitlistEntry{
			Email:     email,
			CreatedAt: time.UnixMicro(int64(member.Score)).UTC(),
		})
	}

	return entries, nil
}
