package server

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/chyiyaqing/diszeroer/internal/filter"
	"github.com/chyiyaqing/diszeroer/internal/jianshu"
)

// shanghai is the display zone for release times.
var shanghai = time.FixedZone("CST", 8*60*60)

const releaseTimeLayout = "2006-01-02 15:04:05"

// ArticleView is the rendered form of one matching article.
type ArticleView struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	URLScheme     string  `json:"url_scheme,omitempty"`
	AuthorName    string  `json:"author_name"`
	AuthorURL     string  `json:"author_url"`
	ReleaseTime   string  `json:"release_time"`
	ViewsCount    int     `json:"views_count"`
	LikesCount    int     `json:"likes_count"`
	CommentsCount int     `json:"comments_count"`
	TotalFPAmount float64 `json:"total_fp_amount"`
	Paid          bool    `json:"paid"`
	Commentable   bool    `json:"commentable"`
	Summary       string  `json:"summary"`
}

// NewArticleView renders a; the app deep link is only filled when withScheme is set.
func NewArticleView(a jianshu.Article, withScheme bool) ArticleView {
	v := ArticleView{
		ID:            a.ID,
		Title:         a.Title,
		URL:           jianshu.ArticleURL(a.Slug),
		AuthorName:    a.User.Name,
		AuthorURL:     jianshu.UserURL(a.User.Slug),
		ReleaseTime:   FormatReleaseTime(a.ReleaseTime),
		ViewsCount:    a.ViewsCount,
		LikesCount:    a.LikesCount,
		CommentsCount: a.CommentsCount,
		TotalFPAmount: a.TotalFPAmount,
		Paid:          a.Paid,
		Commentable:   a.Commentable,
		Summary:       a.Summary,
	}
	if withScheme {
		v.URLScheme = jianshu.ArticleURLScheme(a.ID)
	}
	return v
}

func FormatReleaseTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(shanghai).Format(releaseTimeLayout)
}

// ParseOptions reads filter options from form values. A field that fails to
// parse keeps its default and is reported as a problem.
func ParseOptions(values url.Values) (filter.Options, filter.Problems) {
	o := filter.DefaultOptions()
	var p filter.Problems

	parseInt := func(key, label string, dst *int) {
		v := strings.TrimSpace(values.Get(key))
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			p = append(p, label+"必须是整数")
			return
		}
		*dst = n
	}
	parseInt("likes_limit", "点赞数上限", &o.LikesLimit)
	parseInt("comments_limit", "评论数上限", &o.CommentsLimit)
	parseInt("max_result_count", "结果数量", &o.MaxResultCount)

	if v := strings.TrimSpace(values.Get("fp_amount_limit")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			p = append(p, "文章获钻量限制必须是数字")
		} else {
			o.FPAmountLimit = f
		}
	}

	o.Collections = values["chosen_collections"]
	for _, f := range values["additional_features"] {
		o.Features = append(o.Features, filter.Feature(f))
	}
	return o, p
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
