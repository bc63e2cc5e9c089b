// Package cacheindex records which URLs have been rendered and when.
package cacheindex

import (
	"context"
	"fmt"
	"time"
)

// Record maps a URL to the fingerprint its images are stored under.
type Record struct {
	URL         string
	Fingerprint string
	CreatedAt   time.Time
}

// Index is a durable, append-only URL to fingerprint mapping.
type Index interface {
	// LookupFresh returns the newest record for url younger than maxAge, or
	// nil when there is none. A non-nil error is never a miss.
	LookupFresh(ctx context.Context, url string, maxAge time.Duration) (*Record, error)

	// Insert appends rec. Older records for the same URL are left in place.
	Insert(ctx context.Context, rec Record) error
}

// StorageError reports a failure of the backing store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("cache index %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NowFunc returns the current time.
type NowFunc func() time.Time

// Option configures an index backend.
type Option func(*indexOptions)

type indexOptions struct {
	now NowFunc
}

// WithNowFunc sets the clock used for freshness checks.
func WithNowFunc(now NowFunc) Option {
	return func(o *indexOptions) {
		o.now = now
	}
}

func buildOptions(opts []Option) indexOptions {
	o := indexOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// cutoff returns the oldest creation time, in Unix milliseconds, that is
// still fresh: a record is fresh iff createdAt > cutoff.
func cutoff(now time.Time, maxAge time.Duration) int64 {
	return now.Add(-maxAge).UnixMilli()
}
