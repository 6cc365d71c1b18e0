package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitads/orbit/backend/testhelper"
)

const minimalConfig = `
server:
  port: 9090
database:
  host: localhost
  user: orbit
  dbname: orbit_media
storage:
  tempDir: scratch
  s3:
    endpoint: localhost:9000
    bucket: orbit-media
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	return dir
}

func TestLoadAppliesDefaults(t *testing.T) {
	viper.Reset()
	dir := writeConfig(t, minimalConfig)

	svc := NewConfigService(testhelper.NewTestLogger())
	cfg, err := svc.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, "disable", cfg.Database.Sslmode)
	assert.Equal(t, int64(2)*1024*1024*1024, cfg.Media.MaxFileSize)
	assert.Equal(t, 2, cfg.Media.MaxConcurrentTranscodes)
	assert.Equal(t, 3600, cfg.Media.SignedURLTTLSeconds)
	assert.Contains(t, cfg.Media.AllowedMimeTypes, "video/mp4")
	assert.Contains(t, cfg.Media.AllowedMimeTypes, "audio/mpeg")
	assert.Equal(t, "ffmpeg", cfg.Ffmpeg.Path)
	assert.Equal(t, "veryfast", cfg.Ffmpeg.Preset)
	assert.Equal(t, 28, cfg.Ffmpeg.CRF)
	assert.Equal(t, "creative", cfg.Storage.S3.Namespace)
	assert.False(t, cfg.Events.Enabled)
}

func TestLoadResolvesTempDir(t *testing.T) {
	viper.Reset()
	dir := writeConfig(t, minimalConfig)

	svc := NewConfigService(testhelper.NewTestLogger())
	cfg, err := svc.Load(dir)
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(cfg.Storage.TempDir))
	assert.Equal(t, "scratch", filepath.Base(cfg.Storage.TempDir))
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"missing database host", `
server:
  port: 8080
database:
  user: orbit
  dbname: orbit_media
storage:
  s3:
    endpoint: localhost:9000
    bucket: orbit-media
`},
		{"missing s3 bucket", `
server:
  port: 8080
database:
  host: localhost
  user: orbit
  dbname: orbit_media
storage:
  s3:
    endpoint: localhost:9000
`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			viper.Reset()
			dir := writeConfig(t, tc.content)

			svc := NewConfigService(testhelper.NewTestLogger())
			_, err := svc.Load(dir)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	viper.Reset()
	svc := NewConfigService(testhelper.NewTestLogger())
	_, err := svc.Load(t.TempDir())
	assert.Error(t, err)
}
