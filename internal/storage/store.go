// Package storage persists the little state gazette keeps between runs:
// the theme flag and per-article view counts.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
)

// MemoryPath opens a throwaway database that is removed on Close.
const MemoryPath = ":memory:"

var (
	prefsBucket = []byte("prefs")
	viewsBucket = []byte("views")

	themeKey = []byte("theme")
)

type Store struct {
	db      *bolt.DB
	tempDir string
}

func NewStore(dbPath string) (*Store, error) {
	var tempDir string
	if dbPath == MemoryPath {
		dir, err := os.MkdirTemp("", "gazette-db-*")
		if err != nil {
			return nil, fmt.Errorf("creating temp database dir: %w", err)
		}
		tempDir = dir
		dbPath = filepath.Join(dir, "gazette.db")
	}

	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		if tempDir != "" {
			os.RemoveAll(tempDir)
		}
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{prefsBucket, viewsBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})

	if err != nil {
		db.Close()
		if tempDir != "" {
			os.RemoveAll(tempDir)
		}
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db, tempDir: tempDir}, nil
}

func (s *Store) Close() error {
	err := s.db.Close()
	if s.tempDir != "" {
		os.RemoveAll(s.tempDir)
	}
	return err
}

// Theme returns ThemeLight when the light flag is set and ThemeDark
// otherwise, including for unknown stored values.
func (s *Store) Theme() (string, error) {
	theme := ThemeDark
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(prefsBucket).Get(themeKey); string(v) == ThemeLight {
			theme = ThemeLight
		}
		return nil
	})
	return theme, err
}

// SetTheme stores the flag. Dark deletes the key.
func (s *Store) SetTheme(theme string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(prefsBucket)
		switch theme {
		case ThemeLight:
			return b.Put(themeKey, []byte(ThemeLight))
		case ThemeDark, "":
			return b.Delete(themeKey)
		default:
			return fmt.Errorf("unknown theme %q", theme)
		}
	})
}

// RecordView bumps the view count for an article.
func (s *Store) RecordView(articleID string, at time.Time) error {
	if articleID == "" {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(viewsBucket)
		vc := ViewCount{ArticleID: articleID}
		if data := b.Get([]byte(articleID)); data != nil {
			if err := json.Unmarshal(data, &vc); err != nil {
				return err
			}
		}
		vc.Count++
		vc.LastViewed = at
		data, err := json.Marshal(vc)
		if err != nil {
			return err
		}
		return b.Put([]byte(articleID), data)
	})
}

// MostViewed returns up to limit view counts, highest first. Ties go to
// the most recently viewed article. A limit <= 0 returns all.
func (s *Store) MostViewed(limit int) ([]ViewCount, error) {
	var counts []ViewCount
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(viewsBucket).ForEach(func(_ []byte, v []byte) error {
			var vc ViewCount
			if err := json.Unmarshal(v, &vc); err != nil {
				return err
			}
			counts = append(counts, vc)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		if !counts[i].LastViewed.Equal(counts[j].LastViewed) {
			return counts[i].LastViewed.After(counts[j].LastViewed)
		}
		return counts[i].ArticleID < counts[j].ArticleID
	})

	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	return counts, nil
}
