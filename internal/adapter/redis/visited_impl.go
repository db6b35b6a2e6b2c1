package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/storefront-harvester/pkg/utils"
)

const visitedSeedPrefix = "harvest:visited:"

// VisitedRepoImpl provides a concrete implementation for the VisitedRepository interface using Redis.
type VisitedRepoImpl struct {
	client *redis.Client
	prefix string
}

// NewVisitedRepo creates a new instance of VisitedRepoImpl. Keys are
// namespaced by profile so listing and comment runs do not collide.
func NewVisitedRepo(client *redis.Client, profile string) *VisitedRepoImpl {
	return &VisitedRepoImpl{client: client, prefix: visitedSeedPrefix + profile + ":"}
}

// key hashes the seed so arbitrary URLs make safe keys.
func (r *VisitedRepoImpl) key(seed string) string {
	return fmt.Sprintf("%s%s", r.prefix, utils.HashURL(seed))
}

// MarkVisited records a harvested seed for expiry.
func (r *VisitedRepoImpl) MarkVisited(ctx context.Context, seed string, expiry time.Duration) error {
	return r.client.SetEx(ctx, r.key(seed), time.Now().UTC().Format(time.RFC3339), expiry).Err()
}

// IsVisited checks whether the seed was harvested within its expiry.
func (r *VisitedRepoImpl) IsVisited(ctx context.Context, seed string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(seed)).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// RemoveVisited forgets a seed.
func (r *VisitedRepoImpl) RemoveVisited(ctx context.Context, seed string) error {
	return r.client.Del(ctx, r.key(seed)).Err()
}
