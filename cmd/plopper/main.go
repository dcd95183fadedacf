package main

import (
	"context"
	"flag"
	"log/slog"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"gorm.io/gorm"

	"github.com/plopper/plopper/internal/config"
	"github.com/plopper/plopper/internal/infra/blob"
	"github.com/plopper/plopper/internal/infra/database"
	"github.com/plopper/plopper/internal/infra/gateway"
	"github.com/plopper/plopper/internal/infra/repository"
	"github.com/plopper/plopper/internal/infra/trace"
	"github.com/plopper/plopper/internal/present/rest"
	authmiddleware "github.com/plopper/plopper/internal/present/rest/middleware"
	"github.com/plopper/plopper/internal/scraper"
	"github.com/plopper/plopper/internal/service"
	"github.com/plopper/plopper/internal/usecase"
)

func main() {
	configPath := flag.String("c", "config.yaml", "path to the configuration file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	ctx := context.Background()

	if conf.Server.EnableTrace {
		shutdown, err := trace.Setup(ctx, conf.Server.TraceEndpoint)
		if err != nil {
			panic("failed to set up tracing: " + err.Error())
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				slog.Error("trace shutdown failed", slog.String("error", err.Error()))
			}
		}()
	}

	var db *gorm.DB
	switch conf.Server.StorageBackend {
	case "sqlite":
		db, err = database.NewSqlite(conf.Server.SqlitePath)
	default:
		db, err = database.NewPostgres(conf.Server.PostgresDsn)
	}
	if err != nil {
		panic("failed to connect database: " + err.Error())
	}

	if err := database.Migrate(db); err != nil {
		panic("failed to migrate database: " + err.Error())
	}

	rdb := database.NewRedis(conf.Server.RedisAddr, conf.Server.RedisPassword, conf.Server.RedisDB)

	var mc *memcache.Client
	if conf.Server.MemcachedAddr != "" {
		mc = database.NewMemcached(conf.Server.MemcachedAddr)
	}

	var blobs usecase.BlobStore
	switch conf.Blob.Backend {
	case "gcs":
		blobs, err = blob.NewGCSStore(ctx, conf.Blob.Bucket, conf.Blob.PublicBaseURL)
		if err != nil {
			panic("failed to set up blob store: " + err.Error())
		}
	default:
		blobs, err = blob.NewLocalStore(conf.Blob.LocalDir, conf.Blob.PublicBaseURL)
		if err != nil {
			panic("failed to set up blob store: " + err.Error())
		}
	}

	var fetcher usecase.MetadataFetcher
	scrape := scraper.New(
		time.Duration(conf.Scraper.TimeoutSeconds)*time.Second,
		time.Duration(conf.Scraper.CacheTTLMinutes)*time.Minute,
		mc,
	)
	if conf.Scraper.Mode == "remote" {
		fetcher = gateway.NewMetascraperGateway(conf.Scraper.Endpoint)
	} else {
		fetcher = scrape
	}

	signal := service.NewSignalService(rdb)
	auth := service.NewAuthService(conf.Auth.JwtSecret, conf.Auth.Issuer)

	itemRepo := repository.NewItemRepository(db)
	items := usecase.NewItemUsecase(itemRepo, signal)
	resolver := usecase.NewURLResolver(fetcher, nil)
	paste := usecase.NewPasteUsecase(items, resolver, blobs)

	handler := rest.NewHandler(items, paste, scrape, signal)
	authMiddleware := authmiddleware.NewAuthMiddleware(auth)

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware("plopper"))
	}
	e.Use(authMiddleware.IdentifyIdentity)

	handler.RegisterRoutes(e)

	if conf.Blob.Backend != "gcs" && conf.Blob.LocalDir != "" {
		e.Static("/blobs", conf.Blob.LocalDir)
	}

	e.Logger.Fatal(e.Start(conf.Server.Listen))
}
