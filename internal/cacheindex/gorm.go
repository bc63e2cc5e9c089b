package cacheindex

import (
	"context"
	"time"

	"github.com/creatorstation/urlshot/internal/models"
	"gorm.io/gorm"
)

// GormIndex stores records in a SQL table through gorm. It works with the
// embedded sqlite database as well as postgres.
type GormIndex struct {
	db  *gorm.DB
	now NowFunc
}

// NewGormIndex wraps an open, migrated database.
func NewGormIndex(db *gorm.DB, opts ...Option) *GormIndex {
	o := buildOptions(opts)
	return &GormIndex{db: db, now: o.now}
}

func (g *GormIndex) LookupFresh(ctx context.Context, url string, maxAge time.Duration) (*Record, error) {
	var rows []models.CacheRecord

	result := g.db.WithContext(ctx).
		Where("url = ?", url).
		Where("created_at > ?", cutoff(g.now(), maxAge)).
		Order("created_at desc").
		Limit(1).
		Find(&rows)
	if result.Error != nil {
		return nil, &StorageError{Op: "lookup", Err: result.Error}
	}

	if len(rows) == 0 {
		return nil, nil
	}

	row := rows[0]
	return &Record{
		URL:         row.URL,
		Fingerprint: row.Fingerprint,
		CreatedAt:   time.UnixMilli(row.CreatedAt),
	}, nil
}

func (g *GormIndex) Insert(ctx context.Context, rec Record) error {
	row := models.CacheRecord{
		URL:         rec.URL,
		Fingerprint: rec.Fingerprint,
		CreatedAt:   rec.CreatedAt.UnixMilli(),
	}

	if err := g.db.WithContext(ctx).Create(&row).Error; err != nil {
		return &StorageError{Op: "insert", Err: err}
	}
	return nil
}
