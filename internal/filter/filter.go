package filter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/chyiyaqing/diszeroer/internal/jianshu"
)

// Feature is an optional switch from the "高级选项" group.
type Feature string

const (
	FeatureURLScheme       Feature = "url_scheme"
	FeatureCommentableOnly Feature = "commentable_only"
	FeatureHidePaid        Feature = "hide_paid"
)

// Features lists every feature in display order.
var Features = []Feature{FeatureURLScheme, FeatureCommentableOnly, FeatureHidePaid}

func (f Feature) Label() string {
	switch f {
	case FeatureURLScheme:
		return "开启 URL Scheme 跳转"
	case FeatureCommentableOnly:
		return "仅展示可评论的文章"
	case FeatureHidePaid:
		return "不展示付费文章"
	}
	return string(f)
}

const (
	MinLikesLimit    = 1
	MaxLikesLimit    = 10
	MinCommentsLimit = 1
	MaxCommentsLimit = 10
	MinResultCount   = 20
	MaxResultCount   = 100
	MinFPAmountLimit = 0.1
	MaxFPAmountLimit = 30.0
)

type Options struct {
	LikesLimit     int
	CommentsLimit  int
	MaxResultCount int
	Collections    []string
	Features       []Feature
	// FPAmountLimit of 0 disables the fp amount filter.
	FPAmountLimit float64
}

func DefaultOptions() Options {
	return Options{
		LikesLimit:     3,
		CommentsLimit:  3,
		MaxResultCount: 20,
	}
}

func (o Options) Has(f Feature) bool {
	return slices.Contains(o.Features, f)
}

// Problems is the list of validation messages for a rejected Options.
type Problems []string

func (p Problems) Error() string {
	return strings.Join(p, "; ")
}

// Validate checks every field and returns all problems found, or nil.
func (o Options) Validate(known []string) error {
	var p Problems
	if o.LikesLimit < MinLikesLimit || o.LikesLimit > MaxLikesLimit {
		p = append(p, fmt.Sprintf("点赞数上限必须在 %d 到 %d 之间", MinLikesLimit, MaxLikesLimit))
	}
	if o.CommentsLimit < MinCommentsLimit || o.CommentsLimit > MaxCommentsLimit {
		p = append(p, fmt.Sprintf("评论数上限必须在 %d 到 %d 之间", MinCommentsLimit, MaxCommentsLimit))
	}
	if o.MaxResultCount < MinResultCount || o.MaxResultCount > MaxResultCount {
		p = append(p, fmt.Sprintf("结果数量必须在 %d 到 %d 之间", MinResultCount, MaxResultCount))
	}
	if len(o.Collections) == 0 {
		p = append(p, "请至少选择一个专题")
	}
	for _, name := range o.Collections {
		if !slices.Contains(known, name) {
			p = append(p, fmt.Sprintf("未知专题：%s", name))
		}
	}
	for _, f := range o.Features {
		if !slices.Contains(Features, f) {
			p = append(p, fmt.Sprintf("未知选项：%s", f))
		}
	}
	// NaN fails every comparison, so the range check stays positive.
	if o.FPAmountLimit != 0 && !(o.FPAmountLimit >= MinFPAmountLimit && o.FPAmountLimit <= MaxFPAmountLimit) {
		p = append(p, fmt.Sprintf("文章获钻量限制必须在 %.1f 到 %.1f 之间", MinFPAmountLimit, MaxFPAmountLimit))
	}
	if len(p) == 0 {
		return nil
	}
	return p
}

// Apply keeps the articles matching o, preserving order, and truncates the
// result to o.MaxResultCount.
func Apply(articles []jianshu.Article, o Options) []jianshu.Article {
	commentableOnly := o.Has(FeatureCommentableOnly)
	hidePaid := o.Has(FeatureHidePaid)

	kept := lo.Filter(articles, func(a jianshu.Article, _ int) bool {
		if a.LikesCount > o.LikesLimit || a.CommentsCount > o.CommentsLimit {
			return false
		}
		if commentableOnly && !a.Commentable {
			return false
		}
		if hidePaid && a.Paid {
			return false
		}
		if o.FPAmountLimit != 0 && a.TotalFPAmount > o.FPAmountLimit {
			return false
		}
		return true
	})

	if o.MaxResultCount >= 0 && len(kept) > o.MaxResultCount {
		kept = kept[:o.MaxResultCount]
	}
	return kept
}
