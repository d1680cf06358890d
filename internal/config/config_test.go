package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("IMAGE_HOST", "")
	t.Setenv("INSTAGRAM_ACCESS_TOKEN", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, defaultAddr, cfg.Addr)
	assert.Equal(t, defaultGraphURL, cfg.Instagram.GraphURL)
	assert.Equal(t, defaultGraphVersion, cfg.Instagram.GraphVersion)
	assert.Equal(t, ImageHostImgBB, cfg.ImageHost.Provider)
	assert.Equal(t, defaultImgBBUploadURL, cfg.ImageHost.ImgBBUploadURL)
	assert.Empty(t, cfg.Instagram.AccessToken)
	assert.Same(t, cfg, Get())
}

func TestLoadMissingFileIsIgnored(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.json")
	body := `{
		"instagram": {"access_token": "file-token", "account_id": "file-account"},
		"imgbb": {"api_key": "file-key"},
		"google": {"spreadsheet_id": "sheet-1"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))

	t.Setenv("INSTAGRAM_ACCESS_TOKEN", "env-token")
	t.Setenv("INSTAGRAM_GRAPH_URL", "http://graph.local/")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Instagram.AccessToken)
	assert.Equal(t, "file-account", cfg.Instagram.AccountID)
	assert.Equal(t, "file-key", cfg.ImageHost.ImgBBAPIKey)
	assert.Equal(t, "sheet-1", cfg.Sheets.SpreadsheetID)
	assert.Equal(t, "http://graph.local", cfg.Instagram.GraphURL)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadImageHostSelection(t *testing.T) {
	t.Setenv("IMAGE_HOST", "S3")
	t.Setenv("IMAGE_S3_BUCKET", "")
	_, err := Load("")
	assert.Error(t, err)

	t.Setenv("IMAGE_S3_BUCKET", "studio-images")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ImageHostS3, cfg.ImageHost.Provider)

	t.Setenv("IMAGE_HOST", "dropbox")
	_, err = Load("")
	assert.Error(t, err)
}
