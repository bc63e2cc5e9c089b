package config

import (
	"errors"

	v "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/robfig/cron/v3"
)

func (s Size) Validate() error {
	return v.ValidateStruct(&s,
		v.Field(&s.Name, v.Required, v.Length(1, 32)),
		v.Field(&s.Width, v.Required, v.Min(1)),
		v.Field(&s.Height, v.Required, v.Min(1)),
	)
}

func (vp Viewport) Validate() error {
	return v.ValidateStruct(&vp,
		v.Field(&vp.Width, v.Required, v.Min(1)),
		v.Field(&vp.Height, v.Required, v.Min(1)),
	)
}

func (c Config) Validate() error {
	return v.ValidateStruct(&c,
		v.Field(&c.ViewportSize),
		v.Field(&c.Sizes, v.Required, v.By(uniqueSizeNames)),
		v.Field(&c.Timeout, v.Required, v.Min(1)),
		v.Field(&c.Port, v.Min(0), v.Max(65535)),
		v.Field(&c.MaxAge, v.Required, v.Min(1)),
		v.Field(&c.ImgPath, v.Required),
		v.Field(&c.JPEGQuality, v.Min(1), v.Max(100)),
		v.Field(&c.CacheBackend, v.Required, v.In(BackendSQLite, BackendPostgres, BackendMongo)),
		v.Field(&c.CachePath, v.When(c.CacheBackend == BackendSQLite, v.Required)),
		v.Field(&c.CacheDSN, v.When(c.CacheBackend != BackendSQLite, v.Required)),
		v.Field(&c.SweepSchedule, v.By(cronSpec)),
		v.Field(&c.SweepAfter, v.Min(1)),
	)
}

func uniqueSizeNames(value interface{}) error {
	sizes, _ := value.([]Size)
	seen := make(map[string]bool, len(sizes))
	for _, s := range sizes {
		if seen[s.Name] {
			return errors.New("size names must be unique")
		}
		seen[s.Name] = true
	}
	return nil
}

func cronSpec(value interface{}) error {
	spec, _ := value.(string)
	if spec == "" {
		return nil
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return errors.New("must be a valid cron schedule")
	}
	return nil
}
