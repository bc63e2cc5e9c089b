package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"OPENSHIFT_NODEJS_PORT", "PORT", "OPENSHIFT_NODEJS_IP", "OPENSHIFT_DATA_DIR", "URLSHOT_KEY", "URLSHOT_CACHE_DSN"} {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, Viewport{Width: 1024, Height: 768}, cfg.ViewportSize)
	assert.Equal(t, []string{"large", "medium", "small", "tiny"}, cfg.SizeNames())
	assert.Equal(t, 10*time.Second, cfg.RenderTimeout())
	assert.Equal(t, 30*24*time.Hour, cfg.MaxAgeDuration())
	assert.Equal(t, ":5050", cfg.Addr())
	assert.True(t, cfg.ServeImgs)
	assert.Equal(t, "./imgs", cfg.ImgPath)
	assert.Equal(t, "./cache.db", cfg.CachePath)
	assert.Equal(t, BackendSQLite, cfg.CacheBackend)
	assert.False(t, cfg.CORS.Enabled())
}

func TestLoadOverlaysFileWithComments(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `{
		// keep the thumbnails small
		"sizes": [{"name": "thumb", "width": 160, "height": 120}],
		"serveImgs": false,
		"maxAge": 7,
		"cors": ["https://app.example"],
		"key": "s3cret",
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []Size{{Name: "thumb", Width: 160, Height: 120}}, cfg.Sizes)
	assert.Equal(t, []string{"thumb"}, cfg.SizeNames())

	assert.False(t, cfg.ServeImgs)
	assert.Equal(t, 7*24*time.Hour, cfg.MaxAgeDuration())
	assert.True(t, cfg.CORS.Allows("https://app.example"))
	assert.False(t, cfg.CORS.Allows("https://evil.example"))
	assert.Equal(t, "s3cret", cfg.Key)
	// Untouched settings keep their defaults.
	assert.Equal(t, 10000, cfg.Timeout)
}

func TestLoadEnvironment(t *testing.T) {
	clearEnv(t)
	dataDir := t.TempDir()
	t.Setenv("OPENSHIFT_NODEJS_PORT", "8081")
	t.Setenv("OPENSHIFT_NODEJS_IP", "127.0.0.1")
	t.Setenv("OPENSHIFT_DATA_DIR", dataDir)
	t.Setenv("URLSHOT_KEY", "from-env")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8081", cfg.Addr())
	assert.Equal(t, filepath.Join(dataDir, "imgs"), cfg.ImgPath)
	assert.Equal(t, filepath.Join(dataDir, "cache.db"), cfg.CachePath)
	assert.Equal(t, "from-env", cfg.Key)
}

func TestLoadRejectsBadPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "eighty")

	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	cases := map[string]string{
		"duplicate sizes":  `{"sizes": [{"name": "a", "width": 1, "height": 1}, {"name": "a", "width": 2, "height": 2}]}`,
		"empty sizes":      `{"sizes": []}`,
		"zero width":       `{"sizes": [{"name": "a", "width": 0, "height": 1}]}`,
		"unknown backend":  `{"cacheBackend": "redis"}`,
		"postgres no dsn":  `{"cacheBackend": "postgres"}`,
		"bad cron":         `{"sweepSchedule": "whenever"}`,
		"bad cors":         `{"cors": 42}`,
		"malformed":        `{"sizes": `,
		"quality too high": `{"jpegQuality": 101}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestCORS(t *testing.T) {
	var off CORS
	assert.False(t, off.Enabled())
	assert.False(t, off.Allows("https://a.example"))

	all := CORS{All: true}
	assert.True(t, all.Enabled())
	assert.True(t, all.Allows("https://anything.example"))

	list := CORS{Origins: []string{"https://a.example"}}
	assert.True(t, list.Enabled())
	assert.True(t, list.Allows("https://a.example"))
	assert.False(t, list.Allows("https://b.example"))
}
