package models

// CacheRecord is one row of the screenshot cache index. Rows are append-only;
// a newer row for the same URL supersedes older ones.
type CacheRecord struct {
	ID          uint   `gorm:"primaryKey"`
	URL         string `gorm:"column:url;not null;index:idx_cache_records_url_created,priority:1"`
	Fingerprint string `gorm:"column:fingerprint;size:8;not null"`
	CreatedAt   int64  `gorm:"column:created_at;not null;autoCreateTime:milli;index:idx_cache_records_url_created,priority:2"`
}

// TableName pins the table name regardless of naming strategy.
func (CacheRecord) TableName() string {
	return "cache_records"
}
