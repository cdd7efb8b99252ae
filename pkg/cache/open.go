package cache

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Open returns a backend selected by the scheme of dsn:
//
//	""                     NullCache
//	file:///path or path   FileCache
//	redis://host:port/db   RedisCache
//	mongodb://host/db      MongoCache (collection "dungeon_cache")
func Open(ctx context.Context, dsn string) (Cache, error) {
	switch {
	case dsn == "" || dsn == "none":
		return NewNullCache(), nil
	case strings.HasPrefix(dsn, "redis://"), strings.HasPrefix(dsn, "rediss://"):
		return NewRedisCache(ctx, dsn, "dungeongen:")
	case strings.HasPrefix(dsn, "mongodb://"), strings.HasPrefix(dsn, "mongodb+srv://"):
		u, err := url.Parse(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse mongo uri: %w", err)
		}
		db := strings.TrimPrefix(u.Path, "/")
		if db == "" {
			db = "dungeongen"
		}
		return NewMongoCache(ctx, dsn, db, "dungeon_cache")
	case strings.HasPrefix(dsn, "file://"):
		return NewFileCache(strings.TrimPrefix(dsn, "file://"))
	}
	return NewFileCache(dsn)
}
