package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront_back_end/internal/cache"
	"storefront_back_end/internal/config"
	"storefront_back_end/internal/database"
	"storefront_back_end/internal/handlers/admin"
	"storefront_back_end/internal/handlers/store"
	"storefront_back_end/internal/handlers/user"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/repository"
	"storefront_back_end/internal/routes"
	"storefront_back_end/internal/search"
	"storefront_back_end/internal/services"
	"storefront_back_end/internal/storage"
	"storefront_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	zerolog.DefaultContextLogger = &log.Logger

	app := &cli.App{
		Name:   "storefront",
		Usage:  "API boutique : catalogue, panier, commandes, administration",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Démarre le serveur HTTP",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "Applique les migrations PostgreSQL",
				Subcommands: []*cli.Command{
					{Name: database.MigrateUp, Action: migrateAction(database.MigrateUp)},
					{Name: database.MigrateDown, Action: migrateAction(database.MigrateDown)},
				},
			},
			{
				Name:   "reindex",
				Usage:  "Réindexe tout le catalogue dans Elasticsearch",
				Action: reindex,
			},
			{
				Name:  "token",
				Usage: "Génère un JWT de développement",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user", Required: true},
					&cli.StringFlag{Name: "email"},
					&cli.StringFlag{Name: "name"},
					&cli.StringFlag{Name: "role", Value: "user"},
					&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour},
				},
				Action: token,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("❌ Arrêt")
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	return cfg, nil
}

func serve(_ *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := database.ConnectDatabases(cfg); err != nil {
		return err
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gin.SetMode(cfg.GinMode)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           buildRouter(ctx, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("🚀 Serveur boutique lancé")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("❌ Serveur HTTP")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("🛑 Arrêt demandé, fermeture des connexions en cours")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildRouter branche les intégrations disponibles. Une interface ne reçoit
// jamais de pointeur nil : un backend absent laisse le champ vide.
func buildRouter(ctx context.Context, cfg *config.Config) *gin.Engine {
	hooks := services.Hooks{}
	var (
		limiter    middleware.Limiter
		subscriber user.CartSubscriber
		images     admin.ImageStore
	)

	if database.Redis != nil {
		rc := cache.New(database.Redis)
		hooks.Notifier = rc
		hooks.Categories = rc
		limiter = rc
		subscriber = rc
	}
	if database.Elastic != nil {
		indexer := search.NewIndexer(database.Elastic, cfg.Elastic.Index)
		if err := indexer.EnsureIndex(ctx); err != nil {
			log.Error().Err(err).Msg("❌ Index Elasticsearch non vérifié")
		}
		hooks.Search = indexer
	}
	if database.MinIO != nil {
		imageStore := storage.NewImageStore(database.MinIO, cfg.MinIO.Bucket, cfg.MinIO.URLExpiry)
		hooks.Images = imageStore
		images = imageStore
	}
	if cfg.SMTP.Host != "" {
		hooks.Mailer = utils.NewMailer(cfg.SMTP)
	} else {
		log.Warn().Msg("⚠️ SMTP non configuré : pas d'e-mail de confirmation")
	}

	auditor := utils.NewAuditor(database.Scylla)
	if database.Scylla != nil {
		hooks.Stock = auditor
	}

	repo := repository.CreateRepository(database.Postgres)
	catalog := services.NewCatalogService(repo, hooks)
	orders := services.NewOrderService(repo, hooks)

	return routes.NewRouter(routes.Options{
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.CORSOrigins,
		Limiter:        limiter,
		Auditor:        auditor,
		Store:          store.NewHandler(catalog),
		User: user.NewHandler(user.Deps{
			Cart:           services.NewCartService(repo, hooks),
			Checkout:       services.NewCheckoutService(repo, hooks),
			Orders:         orders,
			Subscriber:     subscriber,
			AllowedOrigins: cfg.CORSOrigins,
		}),
		Admin: admin.NewHandler(services.NewAdminService(repo, hooks), orders, images),
	})
}

func migrateAction(direction string) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := database.ConnectPostgres(c.Context, cfg.Postgres); err != nil {
			return err
		}
		defer database.Close()
		return database.Migrate(database.Postgres, direction)
	}
}

func reindex(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Elastic.URL == "" {
		return errors.New("ELASTIC_URL non défini")
	}
	if err := database.ConnectDatabases(cfg); err != nil {
		return err
	}
	defer database.Close()

	indexer := search.NewIndexer(database.Elastic, cfg.Elastic.Index)
	if err := indexer.EnsureIndex(c.Context); err != nil {
		return err
	}
	svc := services.NewAdminService(repository.CreateRepository(database.Postgres), services.Hooks{Search: indexer})
	n, err := svc.Reindex(c.Context)
	if err != nil {
		return fmt.Errorf("réindexation interrompue après %d produits: %w", n, err)
	}
	log.Info().Int("products", n).Msg("✅ Catalogue réindexé")
	return nil
}

func token(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	signed, err := utils.GenerateJWT(cfg.JWTSecret, utils.Claims{
		UserID: c.String("user"),
		Email:  c.String("email"),
		Name:   c.String("name"),
		Role:   c.String("role"),
	}, c.Duration("ttl"))
	if err != nil {
		return err
	}
	fmt.Println(signed)
	return nil
}
