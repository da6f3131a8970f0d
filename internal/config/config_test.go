package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load("missing.yaml")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 4, cfg.Jianshu.PagesPerCollection)
	assert.Equal(t, DefaultCollections, cfg.Collections)
}

func TestLoadYAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "diszeroer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9000"
service_pages_footer: "Powered by diszeroer"
jianshu:
  timeout: 3s
  pages_per_collection: 2
collections:
  - name: 简友广场
    url: https://www.jianshu.com/c/7ecac177f5a8
log:
  level: debug
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DISZEROER_FOOTER='from env file'\n"), 0o644))
	t.Setenv("DISZEROER_ADDR", ":9100")
	t.Setenv("DISZEROER_FOOTER", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.Server.Addr)
	assert.Equal(t, "from env file", cfg.Footer)
	assert.Equal(t, 3*time.Second, cfg.Jianshu.Timeout)
	assert.Equal(t, 2, cfg.Jianshu.PagesPerCollection)
	assert.Equal(t, 10, cfg.Jianshu.PageSize)
	assert.Equal(t, "debug", cfg.Log.Level)
	require.Len(t, cfg.Collections, 1)
	assert.Equal(t, "简友广场", cfg.Collections[0].Name)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Collections = DefaultCollections
	require.NoError(t, cfg.Validate())

	bad := Default()
	bad.Collections = []Collection{{Name: "x", URL: "https://example.com/c/abc"}}
	require.Error(t, bad.Validate())

	dup := Default()
	dup.Collections = []Collection{DefaultCollections[0], DefaultCollections[0]}
	require.Error(t, dup.Validate())

	pages := Default()
	pages.Jianshu.PagesPerCollection = 0
	require.Error(t, pages.Validate())
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (stand-in for testing.T.Chdir, Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
