package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	BaseUrl  string `json:"base_url"`
	Username string `json:"username"`
	Password string `json:"password"`
	BrandID  int    `json:"brand_id"`
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "ccapi.json5")

	_, err := ReadConfig[testConfig](name)
	require.ErrorIs(t, err, os.ErrNotExist)

	err = os.WriteFile(name, []byte(`{
		// shared settings
		base_url: "https://seller.cloudcommercepro.com",
		username: "placeholder",
		brand_id: 341,
	}`), 0600)
	require.NoError(t, err)

	cfg, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, testConfig{
		BaseUrl:  "https://seller.cloudcommercepro.com",
		Username: "placeholder",
		BrandID:  341,
	}, cfg)

	err = os.WriteFile(filepath.Join(dir, "ccapi.local.json5"), []byte(`{
		username: "warehouse",
		password: "hunter2",
	}`), 0600)
	require.NoError(t, err)

	cfg, err = ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, "warehouse", cfg.Username)
	require.Equal(t, "hunter2", cfg.Password)
	require.Equal(t, 341, cfg.BrandID)
}

func TestReadConfigInvalid(t *testing.T) {
	name := filepath.Join(t.TempDir(), "ccapi.json5")
	require.NoError(t, os.WriteFile(name, []byte(`{ base_url: `), 0600))

	_, err := ReadConfig[testConfig](name)
	require.Error(t, err)
	require.NotErrorIs(t, err, os.ErrNotExist)
}
