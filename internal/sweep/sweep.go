// Package sweep removes full-size renders and temp files that a failed or
// interrupted resolve left in the image directory.
package sweep

import (
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/creatorstation/urlshot/internal/artifact"
	"github.com/gofiber/fiber/v2/log"
	"github.com/robfig/cron/v3"
)

// Report summarises one sweep.
type Report struct {
	Renders int `json:"renders"`
	Temps   int `json:"temps"`
	Failed  int `json:"failed"`
}

// Sweeper deletes leftovers older than a grace period. The grace period must
// be well above the render timeout so in-flight work is never touched.
type Sweeper struct {
	store *artifact.Store
	after time.Duration
	now   func() time.Time

	// running keeps a manual trigger from overlapping a scheduled run.
	running sync.Mutex
}

func New(store *artifact.Store, after time.Duration) *Sweeper {
	return &Sweeper{store: store, after: after, now: time.Now}
}

// Run performs one sweep. Sized variants are never removed.
func (s *Sweeper) Run() (Report, error) {
	s.running.Lock()
	defer s.running.Unlock()

	var report Report

	entries, err := s.store.List()
	if err != nil {
		return report, err
	}

	cutoff := s.now().Add(-s.after)
	for _, entry := range entries {
		if !entry.Info.ModTime().Before(cutoff) {
			continue
		}

		name := entry.Info.Name()
		temp := strings.HasPrefix(name, artifact.TempPrefix)
		if !temp {
			_, label, ok := artifact.Parse(name)
			if !ok || label != "" {
				continue
			}
		}

		if err := s.store.Remove(entry.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warnf("could not remove leftover %s: %v", entry.Path, err)
			report.Failed++
			continue
		}

		if temp {
			report.Temps++
		} else {
			report.Renders++
		}
	}

	return report, nil
}

func (s *Sweeper) runJob() {
	report, err := s.Run()
	if err != nil {
		log.Errorf("Sweep failed: %v", err)
		return
	}
	if report.Renders+report.Temps+report.Failed > 0 {
		log.Infof("Sweep removed %d renders and %d temp files (%d failed)", report.Renders, report.Temps, report.Failed)
	}
}

// Schedule runs the sweeper on spec until the returned cron is stopped.
func (s *Sweeper) Schedule(spec string) (*cron.Cron, error) {
	c := cron.New()

	if _, err := c.AddFunc(spec, s.runJob); err != nil {
		return nil, err
	}

	c.Start()
	log.Infof("Sweep of %s scheduled (%s), removing leftovers older than %s", s.store.Root(), spec, s.after)
	return c, nil
}
