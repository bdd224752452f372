package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
api:
  environment: test
  port: "9090"
  base_url: "localhost:9090"
  allowed_cors_domains:
    - "http://localhost:3000"
  jwt_signing_key: "secret"
gin:
  mode: test
postgres:
  host: localhost
  user: gamevault
  password: gamevault
  db: gamevault
redis:
  enabled: false
rerelease:
  cache_ttl: 5s
  max_attempts: 3
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	conf, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "9090", conf.API.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, conf.API.AllowedCORSDomains)
	assert.Equal(t, "5432", conf.Postgres.Port)
	assert.Equal(t, "disable", conf.Postgres.SSLMode)
	assert.Equal(t, 5*time.Second, conf.Rerelease.CacheTTL)
	assert.Equal(t, 3, conf.Rerelease.MaxAttempts)
	assert.Equal(t, 20, conf.Rerelease.DefaultPageSize)
	assert.Equal(t, 100, conf.Rerelease.MaxPageSize)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("API_PORT", "7070")
	t.Setenv("POSTGRES_HOST", "db.internal")

	conf, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "7070", conf.API.Port)
	assert.Equal(t, "db.internal", conf.Postgres.Host)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestPostgresConfig_DSN(t *testing.T) {
	c := &PostgresConfig{Host: "h", Port: "1", User: "u", Password: "p", DB: "d", SSLMode: "disable"}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=d sslmode=disable", c.DSN())
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, testConfig)

	ttls := make(chan time.Duration, 8)
	err := Watch(path, func(conf *AppConfig, err error) {
		if err == nil {
			ttls <- conf.Rerelease.CacheTTL
		}
	})
	require.NoError(t, err)

	updated := strings.Replace(testConfig, "cache_ttl: 5s", "cache_ttl: 42s", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o600))

	require.Eventually(t, func() bool {
		for {
			select {
			case ttl := <-ttls:
				if ttl == 42*time.Second {
					return true
				}
			default:
				return false
			}
		}
	}, 5*time.Second, 50*time.Millisecond)
}
