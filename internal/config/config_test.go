package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(vars map[string]string) func(string) string {
	return func(key string) string {
		return vars[key]
	}
}

func TestLoadStoreConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    *StoreConfig
		wantErr string
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			want: &StoreConfig{
				BaseURL:  DefaultStoreBaseURL,
				APIURL:   DefaultStoreBaseURL,
				Country:  "us",
				Timeout:  10 * time.Second,
				Headless: true,
				Retries:  3,
			},
		},
		{
			name: "overrides",
			env: map[string]string{
				"STORE_BASE_URL": "http://localhost:8080/",
				"STORE_API_URL":  "http://localhost:9090",
				"STORE_COUNTRY":  "RO",
				"STORE_TIMEOUT":  "2s",
				"STORE_HEADLESS": "false",
				"STORE_RETRIES":  "0",
			},
			want: &StoreConfig{
				BaseURL:  "http://localhost:8080/",
				APIURL:   "http://localhost:9090",
				Country:  "ro",
				Timeout:  2 * time.Second,
				Headless: false,
				Retries:  0,
			},
		},
		{name: "bad country", env: map[string]string{"STORE_COUNTRY": "usa"}, wantErr: "STORE_COUNTRY"},
		{name: "bad timeout", env: map[string]string{"STORE_TIMEOUT": "soon"}, wantErr: "STORE_TIMEOUT"},
		{name: "bad headless", env: map[string]string{"STORE_HEADLESS": "maybe"}, wantErr: "STORE_HEADLESS"},
		{name: "bad retries", env: map[string]string{"STORE_RETRIES": "-1"}, wantErr: "STORE_RETRIES"},
		{name: "bad base url", env: map[string]string{"STORE_BASE_URL": "not a url"}, wantErr: "STORE_BASE_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadStoreConfig(envOf(tt.env))
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStoreConfig_URL(t *testing.T) {
	c := &StoreConfig{BaseURL: "http://localhost:8080/"}
	assert.Equal(t, "http://localhost:8080/cart/", c.URL("/cart/"))
	assert.Equal(t, "http://localhost:8080/app/1/", c.URL("app/1/"))
}

func TestLoadPostgresConfig(t *testing.T) {
	env := map[string]string{
		"POSTGRES_USER":     "store",
		"POSTGRES_PASSWORD": "secret",
		"POSTGRES_DB":       "storecheck",
		"POSTGRES_HOSTNAME": "db",
	}
	with := func(extra map[string]string) map[string]string {
		out := map[string]string{}
		for k, v := range env {
			out[k] = v
		}
		for k, v := range extra {
			out[k] = v
		}
		return out
	}

	tests := []struct {
		name    string
		env     map[string]string
		want    string
		wantErr string
	}{
		{name: "defaults", env: env, want: "host=db port=5432 user=store password=secret dbname=storecheck sslmode=disable"},
		{name: "port and sslmode", env: with(map[string]string{"POSTGRES_PORT": "6432", "POSTGRES_SSLMODE": "require"}),
			want: "host=db port=6432 user=store password=secret dbname=storecheck sslmode=require"},
		{name: "bad port", env: with(map[string]string{"POSTGRES_PORT": "pg"}), wantErr: "POSTGRES_PORT"},
		{name: "port out of range", env: with(map[string]string{"POSTGRES_PORT": "70000"}), wantErr: "POSTGRES_PORT"},
		{name: "unknown sslmode", env: with(map[string]string{"POSTGRES_SSLMODE": "always"}), wantErr: "POSTGRES_SSLMODE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadPostgresConfig(envOf(tt.env))
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if got := config.ConnectionString(); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}

	for _, key := range []string{"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB", "POSTGRES_HOSTNAME"} {
		t.Run("missing "+key, func(t *testing.T) {
			partial := map[string]string{}
			for k, v := range env {
				if k != key {
					partial[k] = v
				}
			}
			_, err := LoadPostgresConfig(envOf(partial))
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestPostgresEnabled(t *testing.T) {
	assert.False(t, PostgresEnabled(envOf(nil)))
	assert.True(t, PostgresEnabled(envOf(map[string]string{"POSTGRES_HOSTNAME": "db"})))
}

func TestLoadServerConfig(t *testing.T) {
	assert.Equal(t, "8080", LoadServerConfig(envOf(nil)).Port)
	assert.Equal(t, "9000", LoadServerConfig(envOf(map[string]string{"PORT": "9000"})).Port)
}

func TestLoadFixtureConfig(t *testing.T) {
	assert.Equal(t, FixtureConfig{DataDir: "testdata/appdetails", TemplateDir: "templates", StaticDir: "static"}, LoadFixtureConfig(envOf(nil)))
	assert.Equal(t, FixtureConfig{DataDir: "/data", TemplateDir: "/tpl", StaticDir: "/assets"},
		LoadFixtureConfig(envOf(map[string]string{"FIXTURE_DIR": "/data", "TEMPLATE_DIR": "/tpl", "STATIC_DIR": "/assets"})))
}

func TestParseScenarios(t *testing.T) {
	t.Run("defaults filled", func(t *testing.T) {
		got, err := ParseScenarios([]byte(`
scenarios:
  - kind: item
    items: ["427520"]
  - name: cart in romania
    kind: cart
    items: ["427520", "648800"]
    resolve_cookies: true
`))
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, Scenario{Name: "item", Kind: KindItem, Country: "us", Items: []string{"427520"}}, got[0])
		assert.Equal(t, "ro", got[1].Country)
		assert.True(t, got[1].ResolveCookies)
	})

	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"empty", "scenarios: []", "no scenarios"},
		{"unknown kind", "scenarios: [{kind: wishlist, items: ['1']}]", "unknown kind"},
		{"no items", "scenarios: [{kind: item}]", "no items"},
		{"bad id", "scenarios: [{kind: cart, items: ['abc']}]", "not a product ID"},
		{"bad country", "scenarios: [{kind: cart, country: rom, items: ['1']}]", "two-letter"},
		{"bad yaml", "scenarios: [", "failed to parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenarios([]byte(tt.yaml))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadScenarios(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scenarios:\n  - kind: cart\n    items: ['609320']\n"), 0o600))

	got, err := LoadScenarios(path)
	require.NoError(t, err)
	assert.Equal(t, KindCart, got[0].Kind)

	_, err = LoadScenarios(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultScenarios(t *testing.T) {
	got := DefaultScenarios()
	require.Len(t, got, 2)
	assert.Equal(t, KindItem, got[0].Kind)
	assert.Equal(t, "us", got[0].Country)
	assert.Equal(t, KindCart, got[1].Kind)
	assert.Equal(t, "ro", got[1].Country)
	assert.Equal(t, DefaultItems, got[1].Items)
}
