// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// file.go caches parsed lg files in Valkey so building a table does not
// hit Postgres for both the active and the default-locale file on every
// request. Entries are dropped whenever their file is mutated.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"lgstudio/internal/models"
)

const (
	// fileKeyPrefix is the Valkey key prefix for cached lg files.
	fileKeyPrefix = "lgfile:"

	// DefaultFileTTL is how long a parsed file stays cached.
	DefaultFileTTL = 10 * time.Minute
)

// FileCache manages parsed lg file caching in Valkey. Cache failures are
// logged and treated as misses.
type FileCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFileCache creates a new file cache backed by the given Valkey client.
func NewFileCache(client *redis.Client, ttl time.Duration) *FileCache {
	if ttl == 0 {
		ttl = DefaultFileTTL
	}
	return &FileCache{client: client, ttl: ttl}
}

// FileKey returns the cache key for a file id.
func FileKey(id string) string {
	return fileKeyPrefix + id
}

// Get returns the cached file for id.
func (fc *FileCache) Get(ctx context.Context, id string) (*models.TemplateFile, bool) {
	val, err := fc.client.Get(ctx, FileKey(id)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("file cache get error", "file", id, "error", err)
		return nil, false
	}

	var f models.TemplateFile
	if err := json.Unmarshal(val, &f); err != nil {
		slog.Warn("file cache decode error", "file", id, "error", err)
		return nil, false
	}
	slog.Debug("file cache hit", "file", id)
	return &f, true
}

// Set stores a parsed file. Unparsed files are not cached, since they
// change as soon as parsing completes.
func (fc *FileCache) Set(ctx context.Context, f *models.TemplateFile) {
	if f == nil || f.IsContentUnparsed {
		return
	}
	data, err := json.Marshal(f)
	if err != nil {
		slog.Warn("file cache encode error", "file", f.ID, "error", err)
		return
	}
	if err := fc.client.Set(ctx, FileKey(f.ID), data, fc.ttl).Err(); err != nil {
		slog.Warn("file cache set error", "file", f.ID, "error", err)
	}
}

// Invalidate drops a file from the cache.
func (fc *FileCache) Invalidate(ctx context.Context, id string) {
	if err := fc.client.Del(ctx, FileKey(id)).Err(); err != nil {
		slog.Warn("file cache invalidate error", "file", id, "error", err)
		return
	}
	slog.Debug("file cache invalidated", "file", id)
}

// InvalidateAll removes every cached file by scanning for the prefix.
func (fc *FileCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, next, err := fc.client.Scan(ctx, cursor, fileKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("file cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := fc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("file cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("file cache fully cleared", "deleted", deleted)
	}
}
