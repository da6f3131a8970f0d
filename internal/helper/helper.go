package helper

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/chyiyaqing/diszeroer/internal/config"
	"github.com/chyiyaqing/diszeroer/internal/filter"
	"github.com/chyiyaqing/diszeroer/internal/jianshu"
)

// Fetcher returns one page of a collection's newest articles.
type Fetcher interface {
	CollectionArticles(ctx context.Context, collectionURL string, page int) ([]jianshu.Article, error)
}

// Helper looks up newly published, little-noticed articles in a set of collections.
type Helper struct {
	fetcher     Fetcher
	collections []config.Collection
	pages       int
	logger      *zap.Logger
}

func New(fetcher Fetcher, collections []config.Collection, pages int, logger *zap.Logger) *Helper {
	if pages <= 0 {
		pages = 1
	}
	return &Helper{
		fetcher:     fetcher,
		collections: collections,
		pages:       pages,
		logger:      logger,
	}
}

// CollectionNames returns the selectable collection names in display order.
func (h *Helper) CollectionNames() []string {
	return lo.Map(h.collections, func(c config.Collection, _ int) string { return c.Name })
}

// Find validates opts, fetches every page of the chosen collections and
// returns the articles that pass the filter. Invalid options yield a
// filter.Problems error.
func (h *Helper) Find(ctx context.Context, opts filter.Options) ([]jianshu.Article, error) {
	if err := opts.Validate(h.CollectionNames()); err != nil {
		return nil, err
	}

	chosen := lo.Filter(h.collections, func(c config.Collection, _ int) bool {
		return lo.Contains(opts.Collections, c.Name)
	})

	var raw []jianshu.Article
	for _, c := range chosen {
		for page := 1; page <= h.pages; page++ {
			articles, err := h.fetcher.CollectionArticles(ctx, c.URL, page)
			if err != nil {
				return nil, fmt.Errorf("fetch %s page %d: %w", c.Name, page, err)
			}
			h.logger.Debug("fetched collection page",
				zap.String("collection", c.Name),
				zap.Int("page", page),
				zap.Int("articles", len(articles)),
			)
			raw = append(raw, articles...)
		}
	}

	unique := lo.UniqBy(raw, func(a jianshu.Article) int64 { return a.ID })
	result := filter.Apply(unique, opts)

	h.logger.Info("lookup done",
		zap.Strings("collections", opts.Collections),
		zap.Int("fetched", len(raw)),
		zap.Int("unique", len(unique)),
		zap.Int("matched", len(result)),
	)
	return result, nil
}
