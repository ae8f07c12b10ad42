// Package cache keeps loaded review views so paging through a session does
// not re-query the operational store.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Store is a TTL key-value store
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
	Close() error
}

const viewPrefix = "ctec:view:"

// ViewCache stores loaded views per reviewer and filter set. A cache fault
// only costs a re-read, so errors are logged and never returned.
type ViewCache struct {
	store  Store
	ttl    time.Duration
	logger *zap.Logger
}

// NewViewCache creates a view cache over store
func NewViewCache(store Store, ttl time.Duration, logger *zap.Logger) *ViewCache {
	return &ViewCache{store: store, ttl: ttl, logger: logger}
}

// Load decodes the cached view into dst and reports whether it was found
func (v *ViewCache) Load(ctx context.Context, reviewerID string, filters interface{}, dst interface{}) bool {
	raw, ok, err := v.store.Get(ctx, v.key(reviewerID, filters))
	if err != nil {
		v.warn("view cache read failed", reviewerID, err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		v.warn("view cache entry corrupt", reviewerID, err)
		return false
	}
	return true
}

// Save caches a view for the reviewer
func (v *ViewCache) Save(ctx context.Context, reviewerID string, filters interface{}, view interface{}) {
	b, err := json.Marshal(view)
	if err != nil {
		v.warn("view cache encode failed", reviewerID, err)
		return
	}
	if err := v.store.Set(ctx, v.key(reviewerID, filters), string(b), v.ttl); err != nil {
		v.warn("view cache write failed", reviewerID, err)
	}
}

// Invalidate drops every cached view of the reviewer
func (v *ViewCache) Invalidate(ctx context.Context, reviewerID string) {
	if err := v.store.DeletePrefix(ctx, viewPrefix+reviewerID+":"); err != nil {
		v.warn("view cache invalidation failed", reviewerID, err)
		return
	}
	if v.logger != nil {
		v.logger.Debug("🧹 View cache invalidated", zap.String("reviewer_id", reviewerID))
	}
}

func (v *ViewCache) key(reviewerID string, filters interface{}) string {
	b, _ := json.Marshal(filters)
	sum := sha1.Sum(b)
	return viewPrefix + reviewerID + ":" + hex.EncodeToString(sum[:])
}

func (v *ViewCache) warn(msg, reviewerID string, err error) {
	if v.logger != nil {
		v.logger.Warn("⚠️ "+msg, zap.String("reviewer_id", reviewerID), zap.Error(err))
	}
}
