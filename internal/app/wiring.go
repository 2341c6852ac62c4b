// Package app builds the store, geocoder and service from configuration.
package app

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"package-tracking-service/internal/adapters/geocode"
	"package-tracking-service/internal/adapters/storage"
	"package-tracking-service/internal/config"
	"package-tracking-service/internal/platform/db"
	"package-tracking-service/internal/ports"
	"package-tracking-service/internal/services"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// OpenStore builds the backend selected by cfg.Store.Driver. The returned
// close func releases its connections and is never nil.
func OpenStore(ctx context.Context, cfg *config.Config) (ports.PackageStore, func(), error) {
	noop := func() {}

	switch cfg.Store.Driver {
	case config.DriverFile:
		zap.L().Info("store: using JSON file", zap.String("path", cfg.Store.Path))
		return storage.NewFileStore(cfg.Store.Path), noop, nil

	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Store.SQLitePath), 0o755); err != nil {
			return nil, noop, eris.Wrap(err, "open store: create sqlite dir")
		}
		conn, err := db.OpenSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, noop, eris.Wrap(err, "open store")
		}
		if err := storage.InitSchema(conn); err != nil {
			conn.Close()
			return nil, noop, eris.Wrap(err, "open store")
		}
		zap.L().Info("store: using sqlite", zap.String("path", cfg.Store.SQLitePath))
		return storage.NewSQLStore(conn), func() { conn.Close() }, nil

	case config.DriverPostgres:
		conn, err := db.Open(cfg.Store.DatabaseURL)
		if err != nil {
			return nil, noop, eris.Wrap(err, "open store")
		}
		if err := storage.InitSchema(conn); err != nil {
			conn.Close()
			return nil, noop, eris.Wrap(err, "open store")
		}
		zap.L().Info("store: using postgres")
		return storage.NewSQLStore(conn), func() { conn.Close() }, nil

	case config.DriverMongo:
		client, err := db.ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Timeout())
		if err != nil {
			return nil, noop, eris.Wrap(err, "open store")
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }

		store := storage.NewMongoStore(client, cfg.Mongo.Database, cfg.Mongo.Collection)
		if err := store.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, noop, eris.Wrap(err, "open store")
		}
		zap.L().Info("store: using mongo",
			zap.String("database", cfg.Mongo.Database),
			zap.String("collection", cfg.Mongo.Collection),
		)
		return store, closeFn, nil
	}

	return nil, noop, eris.Errorf("open store: unsupported driver %q", cfg.Store.Driver)
}

// NewGeocoder builds the Nominatim client from cfg.
func NewGeocoder(cfg config.GeocodeConfig) *geocode.Nominatim {
	opts := []geocode.Option{
		geocode.WithBaseURL(cfg.BaseURL),
		geocode.WithUserAgent(cfg.UserAgent),
		geocode.WithLanguage(cfg.Language),
	}
	if cfg.RatePerSec > 0 {
		opts = append(opts, geocode.WithRateLimit(cfg.RatePerSec))
	}
	if cfg.TimeoutSecs > 0 {
		opts = append(opts, geocode.WithHTTPClient(&http.Client{Timeout: cfg.Timeout()}))
	}
	return geocode.NewNominatim(opts...)
}

// NewService wires the package service over store with a live geocoder.
func NewService(cfg *config.Config, store ports.PackageStore) *services.PackageService {
	enricher := services.NewEnricher(NewGeocoder(cfg.Geocode), cfg.Geocode.CountryHint, cfg.Geocode.Delay())
	return services.NewPackageService(store, enricher)
}
