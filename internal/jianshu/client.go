package jianshu

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = siteURL
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/144.0.0.0 Safari/537.36"

	// fpUnit converts the API's integer fp amount into diamonds.
	fpUnit = 1000.0
)

type User struct {
	ID        int64
	Name      string
	Slug      string
	AvatarURL string
}

type Article struct {
	ID            int64
	Title         string
	Slug          string
	ReleaseTime   time.Time
	FirstImageURL string
	Summary       string
	ViewsCount    int
	LikesCount    int
	CommentsCount int
	RewardsCount  int
	IsTop         bool
	Paid          bool
	Commentable   bool
	TotalFPAmount float64
	User          User
}

type Client struct {
	baseURL    string
	userAgent  string
	pageSize   int
	limiter    *rate.Limiter
	httpClient *http.Client
}

type Options struct {
	BaseURL           string
	UserAgent         string
	PageSize          int
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  opts.UserAgent,
		pageSize:   opts.PageSize,
		limiter:    rate.NewLimiter(limit, opts.Burst),
		httpClient: &http.Client{Timeout: opts.Timeout},
	}
}

type noteItem struct {
	Object struct {
		Data noteData `json:"data"`
	} `json:"object"`
}

type noteData struct {
	ID                  int64   `json:"id"`
	Title               string  `json:"title"`
	Slug                string  `json:"slug"`
	FirstSharedAt       string  `json:"first_shared_at"`
	ListImageURL        string  `json:"list_image_url"`
	PublicAbbr          string  `json:"public_abbr"`
	ViewsCount          int     `json:"views_count"`
	LikesCount          int     `json:"likes_count"`
	PublicCommentsCount int     `json:"public_comments_count"`
	TotalRewardsCount   int     `json:"total_rewards_count"`
	TotalFPAmount       float64 `json:"total_fp_amount"`
	IsTop               bool    `json:"is_top"`
	Paid                bool    `json:"paid"`
	Commentable         bool    `json:"commentable"`
	User                struct {
		ID       int64  `json:"id"`
		Nickname string `json:"nickname"`
		Slug     string `json:"slug"`
		Avatar   string `json:"avatar"`
	} `json:"user"`
}

// CollectionArticles returns one page (1-based) of the newest articles
// added to a collection.
func (c *Client) CollectionArticles(ctx context.Context, collectionURL string, page int) ([]Article, error) {
	slug, err := CollectionSlug(collectionURL)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		return nil, fmt.Errorf("invalid page %d", page)
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("count", strconv.Itoa(c.pageSize))
	params.Set("order_by", "added_at")
	endpoint := fmt.Sprintf("%s/asimov/collections/slug/%s/public_notes?%s", c.baseURL, slug, params.Encode())

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("limiter wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("GET %s: status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var items []noteItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", endpoint, err)
	}

	articles := make([]Article, 0, len(items))
	for _, item := range items {
		a, err := toArticle(item.Object.Data)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, nil
}

func toArticle(d noteData) (Article, error) {
	var released time.Time
	if d.FirstSharedAt != "" {
		t, err := time.Parse(time.RFC3339, d.FirstSharedAt)
		if err != nil {
			return Article{}, fmt.Errorf("article %d: parse first_shared_at: %w", d.ID, err)
		}
		released = t
	}
	return Article{
		ID:            d.ID,
		Title:         d.Title,
		Slug:          d.Slug,
		ReleaseTime:   released,
		FirstImageURL: d.ListImageURL,
		Summary:       plainText(d.PublicAbbr),
		ViewsCount:    d.ViewsCount,
		LikesCount:    d.LikesCount,
		CommentsCount: d.PublicCommentsCount,
		RewardsCount:  d.TotalRewardsCount,
		IsTop:         d.IsTop,
		Paid:          d.Paid,
		Commentable:   d.Commentable,
		TotalFPAmount: d.TotalFPAmount / fpUnit,
		User: User{
			ID:        d.User.ID,
			Name:      d.User.Nickname,
			Slug:      d.User.Slug,
			AvatarURL: d.User.Avatar,
		},
	}, nil
}

// plainText drops any markup from an abstract and decodes entities.
func plainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}
