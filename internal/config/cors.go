package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// CORS is either a blanket switch or an origin whitelist. In config.json it
// is written as `true`, `false` or `["https://a.example", ...]`.
type CORS struct {
	All     bool
	Origins []string
}

// Enabled reports whether any cross-origin access is allowed.
func (c CORS) Enabled() bool {
	return c.All || len(c.Origins) > 0
}

// Allows reports whether origin may call the service.
func (c CORS) Allows(origin string) bool {
	if c.All {
		return true
	}
	return slices.Contains(c.Origins, origin)
}

func (c *CORS) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if bytes.Equal(data, []byte("null")) {
		*c = CORS{}
		return nil
	}

	var all bool
	if err := json.Unmarshal(data, &all); err == nil {
		*c = CORS{All: all}
		return nil
	}

	var origins []string
	if err := json.Unmarshal(data, &origins); err != nil {
		return fmt.Errorf("cors must be a boolean or a list of origins")
	}
	*c = CORS{Origins: origins}
	return nil
}
