package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/heldkarp/config"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "heldkarp.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 7, cfg.Solver.MaxCities)
	require.Equal(t, "none", cfg.Cache.Backend)
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, `
[solver]
max_cities = 12

[cache]
backend = "badger"
path = "/tmp/heldkarp-cache"
ttl = "10m"

[server]
addr = "127.0.0.1:9000"
shutdown_timeout = "3s"

[log]
level = "debug"
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, 12, cfg.Solver.MaxCities)
	require.Equal(t, 4, cfg.Solver.Workers)
	require.Equal(t, "badger", cfg.Cache.Backend)
	require.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	require.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	require.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "[solver]\nmax_cities = 12\n")
	t.Setenv("HELDKARP_MAX_CITIES", "9")
	t.Setenv("HELDKARP_CACHE_BACKEND", "redis")
	t.Setenv("HELDKARP_REDIS_ADDR", "localhost:6379")
	t.Setenv("HELDKARP_RATE_LIMIT", "2.5")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, 9, cfg.Solver.MaxCities)
	require.Equal(t, "redis", cfg.Cache.Backend)
	require.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	require.Equal(t, 2.5, cfg.Server.RateLimit)
}

func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "UnknownKey", body: "[solver]\nmax_citys = 5\n"},
		{name: "CeilingAboveHard", body: "[solver]\nmax_cities = 17\n"},
		{name: "BadgerWithoutPath", body: "[cache]\nbackend = \"badger\"\n"},
		{name: "RedisWithoutAddr", body: "[cache]\nbackend = \"redis\"\n"},
		{name: "UnknownBackend", body: "[cache]\nbackend = \"memcached\"\n"},
		{name: "BadLevel", body: "[log]\nlevel = \"loud\"\n"},
		{name: "MalformedEnv", env: map[string]string{"HELDKARP_WORKERS": "many"}},
		{name: "MalformedDurationEnv", env: map[string]string{"HELDKARP_CACHE_TTL": "soon"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			path := ""
			if tc.body != "" {
				path = writeFile(t, tc.body)
			}
			_, err := config.Load(path)
			require.ErrorIs(t, err, config.ErrInvalid)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}
