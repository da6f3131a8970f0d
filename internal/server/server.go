package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/chyiyaqing/diszeroer/internal/filter"
	"github.com/chyiyaqing/diszeroer/internal/jianshu"
)

// Finder runs one article lookup.
type Finder interface {
	CollectionNames() []string
	Find(ctx context.Context, opts filter.Options) ([]jianshu.Article, error)
}

type Server struct {
	finder Finder
	footer string
	logger *zap.Logger
	srv    *http.Server
}

func New(finder Finder, addr, footer string, logger *zap.Logger) *Server {
	s := &Server{finder: finder, footer: footer, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/health", s.handleHealth)

	// REST API
	mux.HandleFunc("/api/articles", s.handleAPIArticles)

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the routes, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start begins listening. It blocks until the server is shut down.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.srv.Addr, err)
	}
	s.logger.Info("HTTP server listening", zap.String("addr", ln.Addr().String()))

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	if err := s.srv.Serve(ln); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Warn("shutdown", zap.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	data := pageData{
		Options:     filter.DefaultOptions(),
		Limits:      formLimits,
		Collections: s.finder.CollectionNames(),
		Features:    filter.Features,
		Footer:      s.footer,
	}

	if q.Get("submit") != "" {
		data.Submitted = true
		opts, problems := s.checkOptions(q)
		data.Options = opts
		if len(problems) > 0 {
			data.Problems = problems
		} else {
			articles, err := s.finder.Find(r.Context(), opts)
			var p filter.Problems
			switch {
			case errors.As(err, &p):
				data.Problems = p
			case err != nil:
				s.logger.Error("lookup failed", zap.Error(err))
				data.FetchError = "获取数据失败，请稍后重试"
			default:
				data.Succeeded = true
				data.Articles = views(articles, opts)
			}
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		s.logger.Error("render template", zap.Error(err))
	}
}

// checkOptions parses values and returns every parse and validation problem together.
func (s *Server) checkOptions(values url.Values) (filter.Options, filter.Problems) {
	opts, problems := ParseOptions(values)
	var p filter.Problems
	if errors.As(opts.Validate(s.finder.CollectionNames()), &p) {
		problems = append(problems, p...)
	}
	return opts, problems
}

func views(articles []jianshu.Article, opts filter.Options) []ArticleView {
	withScheme := opts.Has(filter.FeatureURLScheme)
	out := make([]ArticleView, len(articles))
	for i, a := range articles {
		out[i] = NewArticleView(a, withScheme)
	}
	return out
}
