package jianshu

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
)

const siteURL = "https://www.jianshu.com"

var collectionPathRe = regexp.MustCompile(`^/c/([0-9A-Za-z]+)/?$`)

// CollectionSlug extracts the slug from a collection URL such as
// https://www.jianshu.com/c/7ecac177f5a8.
func CollectionSlug(collectionURL string) (string, error) {
	u, err := url.Parse(collectionURL)
	if err != nil {
		return "", fmt.Errorf("parse collection url %q: %w", collectionURL, err)
	}
	if u.Host != "www.jianshu.com" && u.Host != "jianshu.com" {
		return "", fmt.Errorf("not a jianshu collection url: %q", collectionURL)
	}
	m := collectionPathRe.FindStringSubmatch(u.Path)
	if m == nil {
		return "", fmt.Errorf("not a jianshu collection url: %q", collectionURL)
	}
	return m[1], nil
}

func ArticleURL(slug string) string {
	return siteURL + "/p/" + slug
}

func UserURL(slug string) string {
	return siteURL + "/u/" + slug
}

// ArticleURLScheme returns the deep link that opens an article in the mobile app.
func ArticleURLScheme(id int64) string {
	return "jianshu://notes/" + strconv.FormatInt(id, 10)
}
