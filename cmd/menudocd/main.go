// Command menudocd serves menu documents, PDF exports and share links
// over HTTP.
//
// Configuration comes from MENUDOC_ environment variables, an optional
// .env file and the optional config file named by MENUDOC_CONFIG_FILE.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tsawler/menudoc"
	"github.com/tsawler/menudoc/cache"
	"github.com/tsawler/menudoc/imaging"
	"github.com/tsawler/menudoc/internal/config"
	"github.com/tsawler/menudoc/internal/logger"
	"github.com/tsawler/menudoc/internal/server"
	"github.com/tsawler/menudoc/store"
	"github.com/tsawler/menudoc/store/postgres"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "menudocd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("MENUDOC_CONFIG_FILE"))
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	log.Info("configuration loaded", zap.Stringer("config", cfg))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checks := map[string]server.Pinger{}

	st, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()
	if p, ok := st.(server.Pinger); ok {
		checks["database"] = p
	}

	c, closeCache := openCache(cfg, log)
	defer closeCache()
	if p, ok := c.(server.Pinger); ok {
		checks["cache"] = p
	}

	resolver, err := newResolver(cfg)
	if err != nil {
		return err
	}

	geometry, err := cfg.Geometry()
	if err != nil {
		return err
	}

	exp := menudoc.New(st).
		WithResolver(resolver).
		WithLogger(log).
		Geometry(geometry).
		ImageTimeout(cfg.Images.Timeout).
		ImageWorkers(cfg.Images.Workers)
	if c != nil {
		exp = exp.WithCache(c, cfg.Cache.TTL)
	}

	srv := server.New(server.Deps{
		Store:    st,
		Exporter: exp,
		Geometry: geometry,
		BaseURL:  cfg.Share.BaseURL,
		Logger:   log,
		Checks:   checks,
	})
	return server.Run(ctx, srv.HTTPServer(cfg.HTTP.Addr, cfg.HTTP.ReadTimeout, cfg.HTTP.WriteTimeout), log)
}

// openStore picks PostgreSQL when a DSN is configured and the memory
// store otherwise
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.Store, func(), error) {
	if cfg.Database.DSN != "" {
		pg, err := postgres.Open(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}
		log.Info("using postgres store")
		return pg, pg.Close, nil
	}

	if cfg.Store.Snapshot == "" {
		log.Info("using memory store")
		return store.NewMemory(), func() {}, nil
	}
	m, err := store.OpenMemory(cfg.Store.Snapshot)
	if err != nil {
		return nil, nil, err
	}
	log.Info("using memory store", zap.String("snapshot", cfg.Store.Snapshot))
	return m, func() {
		if err := m.Flush(); err != nil {
			log.Error("flushing snapshot", zap.Error(err))
		}
	}, nil
}

// openCache returns nil when caching is disabled by a zero TTL
func openCache(cfg *config.Config, log *zap.Logger) (cache.Cache, func()) {
	if cfg.Cache.TTL == 0 {
		log.Info("export cache disabled")
		return nil, func() {}
	}
	if cfg.Redis.Addr != "" {
		r := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Cache.TTL,
		})
		log.Info("using redis export cache", zap.String("addr", cfg.Redis.Addr))
		return r, func() { _ = r.Close() }
	}
	m := cache.NewMemory(cfg.Cache.TTL, time.Minute, cache.WithShards(cfg.Cache.Shards))
	log.Info("using memory export cache", zap.Duration("ttl", cfg.Cache.TTL))
	return m, func() { _ = m.Close() }
}

func newResolver(cfg *config.Config) (imaging.Resolver, error) {
	web := imaging.NewHTTPResolver(cfg.Images.Timeout, cfg.Images.MaxBytes)
	mux := imaging.NewMux().
		Handle("http", web).
		Handle("https", web).
		Handle("data", imaging.DataURIResolver{})

	if cfg.S3.Endpoint != "" {
		s3, err := imaging.NewS3Resolver(imaging.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			UseSSL:    cfg.S3.UseSSL,
			PathStyle: cfg.S3.PathStyle,
			MaxBytes:  cfg.Images.MaxBytes,
		})
		if err != nil {
			return nil, err
		}
		mux.Handle("s3", s3)
	}
	if cfg.Images.Root != "" {
		files := imaging.FileResolver{Root: cfg.Images.Root, MaxBytes: cfg.Images.MaxBytes}
		mux.Handle("file", files).Handle("", files)
	}
	return mux, nil
}
