package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chyiyaqing/diszeroer/internal/config"
	"github.com/chyiyaqing/diszeroer/internal/filter"
	"github.com/chyiyaqing/diszeroer/internal/helper"
	"github.com/chyiyaqing/diszeroer/internal/jianshu"
	"github.com/chyiyaqing/diszeroer/internal/logger"
	"github.com/chyiyaqing/diszeroer/internal/server"
)

var (
	configPath string
	cfg        *config.Config
	log        *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "diszeroer",
	Short: "Find fresh Jianshu articles that nobody has liked or commented on yet",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		log, err = logger.New(cfg.Log)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
	SilenceUsage: true,
}

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web UI and JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		srv := server.New(newHelper(), addr, cfg.Footer, log)
		return srv.Start(ctx)
	},
}

var fetchOpts = filter.DefaultOptions()
var fetchFeatures []string

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Run one lookup and print the matching articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		h := newHelper()
		opts := fetchOpts
		if len(opts.Collections) == 0 {
			opts.Collections = h.CollectionNames()
		}
		opts.Features = nil
		for _, f := range fetchFeatures {
			opts.Features = append(opts.Features, filter.Feature(f))
		}

		articles, err := h.Find(cmd.Context(), opts)
		var p filter.Problems
		if errors.As(err, &p) {
			for _, msg := range p {
				fmt.Fprintln(cmd.ErrOrStderr(), msg)
			}
			return errors.New("invalid options")
		}
		if err != nil {
			return err
		}
		printArticles(cmd.OutOrStdout(), articles, opts.Has(filter.FeatureURLScheme))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "diszeroer.yaml", "path to the YAML config file")

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")

	fetchCmd.Flags().IntVar(&fetchOpts.LikesLimit, "likes", fetchOpts.LikesLimit, "max likes (1-10)")
	fetchCmd.Flags().IntVar(&fetchOpts.CommentsLimit, "comments", fetchOpts.CommentsLimit, "max comments (1-10)")
	fetchCmd.Flags().IntVar(&fetchOpts.MaxResultCount, "count", fetchOpts.MaxResultCount, "max results (20-100)")
	fetchCmd.Flags().Float64Var(&fetchOpts.FPAmountLimit, "fp", 0, "max fp amount (0.1-30.0, 0 disables)")
	fetchCmd.Flags().StringSliceVar(&fetchOpts.Collections, "collection", nil, "collection names (default: all configured)")
	fetchCmd.Flags().StringSliceVar(&fetchFeatures, "feature", nil, "url_scheme, commentable_only, hide_paid")

	rootCmd.AddCommand(serveCmd, fetchCmd)
}

func newHelper() *helper.Helper {
	client := jianshu.NewClient(jianshu.Options{
		BaseURL:           cfg.Jianshu.BaseURL,
		UserAgent:         cfg.Jianshu.UserAgent,
		PageSize:          cfg.Jianshu.PageSize,
		Timeout:           cfg.Jianshu.Timeout,
		RequestsPerSecond: cfg.Jianshu.RequestsPerSecond,
		Burst:             cfg.Jianshu.Burst,
	})
	return helper.New(client, cfg.Collections, cfg.Jianshu.PagesPerCollection, log)
}

func printArticles(w io.Writer, articles []jianshu.Article, withScheme bool) {
	fmt.Fprintf(w, "Found %d articles\n\n", len(articles))
	for i, a := range articles {
		v := server.NewArticleView(a, withScheme)
		fmt.Fprintf(w, "%d. %s\n", i+1, v.Title)
		fmt.Fprintf(w, "   链接: %s\n", v.URL)
		fmt.Fprintf(w, "   作者: %s (%s)\n", v.AuthorName, v.AuthorURL)
		fmt.Fprintf(w, "   发布时间: %s\n", v.ReleaseTime)
		fmt.Fprintf(w, "   阅读量: %d  点赞数: %d  评论数: %d  获钻量: %g\n",
			v.ViewsCount, v.LikesCount, v.CommentsCount, v.TotalFPAmount)
		if v.Summary != "" {
			fmt.Fprintf(w, "   摘要: %s\n", v.Summary)
		}
		if v.URLScheme != "" {
			fmt.Fprintf(w, "   App: %s\n", v.URLScheme)
		}
		fmt.Fprintln(w)
	}
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
