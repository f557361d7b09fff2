package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailwright/mailwright/pkg/resolve"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, float64(10000), cfg.Browser.TimeoutMs)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mailwright.yaml")
	data := []byte(`
browser:
  headless: true
  timeout_ms: 5000
server:
  addr: ":9090"
profiles:
  gmail:
    compose:
      - "#custom-compose"
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, float64(5000), cfg.Browser.TimeoutMs)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"#custom-compose"}, cfg.Profiles["gmail"]["compose"])
}

func TestLoadMalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mailwright.yaml")
	require.NoError(t, os.WriteFile(path, []byte("browser: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestServiceProfilesDropsUnknownRoles(t *testing.T) {
	cfg := Default()
	cfg.Profiles = map[string]map[string][]string{
		"gmail": {
			"compose": {"#custom-compose"},
			"attach":  {"#attach-button"},
		},
	}

	profiles := cfg.ServiceProfiles()

	require.Contains(t, profiles, resolve.ServiceGmail)
	assert.Equal(t, []string{"#custom-compose"}, profiles[resolve.ServiceGmail][resolve.RoleCompose])
	assert.NotContains(t, profiles[resolve.ServiceGmail], resolve.FieldRole("attach"))
}

func TestServiceProfilesEmptyIsNil(t *testing.T) {
	assert.Nil(t, Default().ServiceProfiles())
}
