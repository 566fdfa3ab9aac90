package catalog

import (
	"database/sql"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

const dirCacheSize = 4096

var dbDirCaches sync.Map // map[*sql.DB]*lru.Cache[string, int64]

func getDirCache(db *sql.DB) *lru.Cache[string, int64] {
	if db == nil {
		return nil
	}
	if existing, ok := dbDirCaches.Load(db); ok {
		return existing.(*lru.Cache[string, int64])
	}
	cache, err := lru.New[string, int64](dirCacheSize)
	if err != nil {
		return nil
	}
	actual, _ := dbDirCaches.LoadOrStore(db, cache)
	return actual.(*lru.Cache[string, int64])
}

// ForgetCache drops the directory id cache of a closed database.
func ForgetCache(db *sql.DB) {
	dbDirCaches.Delete(db)
}

// lookupDirID resolves a directory path to its id, consulting the cache first.
func lookupDirID(db *sql.DB, path string) (int64, error) {
	cache := getDirCache(db)
	if cache != nil {
		if id, ok := cache.Get(path); ok {
			return id, nil
		}
	}

	var id int64
	if err := db.QueryRow(`SELECT id FROM dirs WHERE path = ?`, path).Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			return 0, err
		}
		return 0, fmt.Errorf("failed to look up %s: %w", path, err)
	}
	if cache != nil {
		cache.Add(path, id)
	}
	return id, nil
}
