package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mytheresa/sales-api/app/aggregated"
	"github.com/mytheresa/sales-api/app/api"
	"github.com/mytheresa/sales-api/app/articles"
	"github.com/mytheresa/sales-api/app/auth"
	"github.com/mytheresa/sales-api/app/categories"
	"github.com/mytheresa/sales-api/app/metrics"
	"github.com/mytheresa/sales-api/app/policy"
	"github.com/mytheresa/sales-api/app/router"
	"github.com/mytheresa/sales-api/app/sales"
	"github.com/mytheresa/sales-api/app/users"
	"github.com/mytheresa/sales-api/config"
	"github.com/mytheresa/sales-api/db"
	"github.com/mytheresa/sales-api/models"
	"golang.org/x/sync/errgroup"
)

func serve(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	gdb, closeDB, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	if cfg.Postgres.AutoMigrate {
		if err := db.Migrate(ctx, gdb, log); err != nil {
			return err
		}
	}

	// Repositories
	categoriesRepo := models.NewCategoriesRepository(gdb)
	articlesRepo := models.NewArticlesRepository(gdb)
	salesRepo := models.NewSalesRepository(gdb)
	usersRepo := models.NewUsersRepository(gdb)

	strict := cfg.Authz.Strict
	salePolicy := policy.For(policy.EntitySale, strict)

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	handler := router.New(router.Config{
		Log:    log,
		Tokens: tokens,
		Users:  usersRepo,
		Login: auth.NewLoginHandler(usersRepo, tokens, auth.CookieConfig{
			Domain: cfg.Auth.CookieDomain,
			Secure: cfg.Auth.CookieSecure,
		}),
		Metrics: m,
		Resources: []router.Resource{
			{Name: api.ResourceUser, Handler: users.NewUserHandler(usersRepo), Policy: policy.For(policy.EntityUser, strict)},
			{Name: api.ResourceSale, Handler: sales.NewSaleHandler(salesRepo, salePolicy), Policy: salePolicy},
			{Name: api.ResourceArticle, Handler: articles.NewArticleHandler(articlesRepo), Policy: policy.For(policy.EntityArticle, strict)},
			{Name: api.ResourceCategory, Handler: categories.NewCategoryHandler(categoriesRepo), Policy: policy.For(policy.EntityCategory, strict)},
			{Name: api.ResourceSaleAggregated, Handler: aggregated.NewAggregatedSaleHandler(salesRepo), Policy: policy.For(policy.EntitySaleAggregated, strict)},
		},
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP server started", "addr", cfg.HTTP.Addr, "strict_authz", strict, "metrics", cfg.Metrics.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		log.Info("graceful shutdown complete")
		return nil
	})
	return g.Wait()
}
