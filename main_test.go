package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chyiyaqing/diszeroer/internal/filter"
	"github.com/chyiyaqing/diszeroer/internal/jianshu"
)

func TestPrintArticles(t *testing.T) {
	var buf bytes.Buffer
	printArticles(&buf, []jianshu.Article{{
		ID:          9,
		Title:       "标题",
		Slug:        "s9",
		ReleaseTime: time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC),
		LikesCount:  1,
		User:        jianshu.User{Name: "名字", Slug: "u9"},
	}}, true)

	out := buf.String()
	require.Contains(t, out, "Found 1 articles")
	require.Contains(t, out, "1. 标题")
	require.Contains(t, out, "https://www.jianshu.com/p/s9")
	require.Contains(t, out, "发布时间: 2023-01-02 11:04:05")
	require.Contains(t, out, "App: jianshu://notes/9")
}

const collectionPage = `[
  {"object": {"data": {"id": 1, "title": "没人评论", "slug": "a1", "likes_count": 0, "public_comments_count": 0,
    "commentable": true, "paid": false, "first_shared_at": "2023-05-01T08:30:00Z", "user": {"nickname": "甲", "slug": "ua"}}}},
  {"object": {"data": {"id": 2, "title": "付费文章", "slug": "a2", "likes_count": 0, "public_comments_count": 0,
    "commentable": true, "paid": true, "user": {"nickname": "乙", "slug": "ub"}}}},
  {"object": {"data": {"id": 3, "title": "很热门", "slug": "a3", "likes_count": 9, "public_comments_count": 8,
    "commentable": true, "user": {"nickname": "丙", "slug": "uc"}}}}
]`

// runFetch executes the fetch command against a fake platform and returns
// stdout, stderr and the command error.
func runFetch(t *testing.T, baseURL string, args ...string) (string, string, error) {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "diszeroer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
jianshu:
  base_url: "`+baseURL+`"
  pages_per_collection: 1
  requests_per_second: 1000
log:
  level: error
`), 0o644))

	// Flag-bound state survives between executions of the same command tree.
	fetchOpts = filter.DefaultOptions()
	fetchFeatures = nil
	t.Cleanup(func() {
		fetchOpts = filter.DefaultOptions()
		fetchFeatures = nil
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(append([]string{"--config", path, "fetch"}, args...))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func fakePlatform(t *testing.T) (*httptest.Server, func() []string) {
	var mu sync.Mutex
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.Write([]byte(collectionPage))
	}))
	t.Cleanup(srv.Close)
	return srv, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), paths...)
	}
}

func TestFetchCommand(t *testing.T) {
	srv, paths := fakePlatform(t)

	out, _, err := runFetch(t, srv.URL, "--feature", "hide_paid,url_scheme")
	require.NoError(t, err)

	// Without --collection every configured collection is queried.
	got := strings.Join(paths(), " ")
	for _, slug := range []string{"7ecac177f5a8", "avQwgf", "qQB2Zn"} {
		assert.Contains(t, got, "/asimov/collections/slug/"+slug+"/public_notes")
	}

	assert.Contains(t, out, "Found 1 articles")
	assert.Contains(t, out, "1. 没人评论")
	assert.Contains(t, out, "App: jianshu://notes/1")
	assert.NotContains(t, out, "付费文章")
	assert.NotContains(t, out, "很热门")
}

func TestFetchCommandOneCollection(t *testing.T) {
	srv, paths := fakePlatform(t)

	out, _, err := runFetch(t, srv.URL, "--collection", "人物")
	require.NoError(t, err)
	assert.Equal(t, []string{"/asimov/collections/slug/avQwgf/public_notes"}, paths())
	assert.Contains(t, out, "Found 2 articles")
	assert.NotContains(t, out, "App:")
}

func TestFetchCommandInvalidOptions(t *testing.T) {
	srv, paths := fakePlatform(t)

	_, stderr, err := runFetch(t, srv.URL, "--likes", "0", "--feature", "bogus")
	require.Error(t, err)
	assert.Equal(t, "invalid options", err.Error())
	assert.Contains(t, stderr, "点赞数上限必须在 1 到 10 之间")
	assert.Contains(t, stderr, "未知选项：bogus")
	assert.Empty(t, paths())
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
