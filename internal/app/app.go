package app

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/xenking/fakestore-raw-loader/internal/archive"
	"github.com/xenking/fakestore-raw-loader/internal/domain/batch"
	"github.com/xenking/fakestore-raw-loader/internal/ingest"
	"github.com/xenking/fakestore-raw-loader/internal/source"
	"github.com/xenking/fakestore-raw-loader/internal/storage/postgres"
	"github.com/xenking/fakestore-raw-loader/pkg/httptransport"
)

const (
	userAgent   = "fakestore-raw-loader/1.0"
	headerBatch = "X-Ingestion-Batch"
)

// Run creates all dependencies and performs a single raw load. It is the
// single wiring point for the application. The returned error is non-nil
// whenever the batch did not finish as SUCCESS.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	ctx = zctx.Base(ctx, lg)
	lg.Info("Initializing",
		zap.String("db", cfg.DB.Redacted()),
		zap.String("source", cfg.Source.BaseURL),
		zap.String("archive_dir", cfg.ArchiveDir),
	)

	// One connection for the whole run, released on every path.
	pool, err := postgres.NewPool(ctx, cfg.DB.URL())
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if cfg.Migrate {
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			return errors.Wrap(err, "run migrations")
		}
	}

	var archiver source.Archiver = archive.Nop{}
	if cfg.ArchiveDir != "" {
		archiver = archive.NewDir(cfg.ArchiveDir)
	}

	transport := httptransport.Wrap(
		otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithTracerProvider(m.TracerProvider()),
			otelhttp.WithMeterProvider(m.MeterProvider()),
		),
		httptransport.RequestID(),
		httptransport.ContextHeader(headerBatch, batch.IDFromContext),
		httptransport.UserAgent(userAgent),
		httptransport.LogRequests(),
	)
	client := source.NewClient(source.Config{
		BaseURL: cfg.Source.BaseURL,
		Timeout: cfg.Source.Timeout,
	}, transport, archiver)

	svc, err := ingest.NewService(client, postgres.NewLedger(pool), postgres.NewRawWriter(pool), ingest.Options{
		TracerProvider: m.TracerProvider(),
		MeterProvider:  m.MeterProvider(),
	})
	if err != nil {
		return errors.Wrap(err, "create ingest service")
	}

	res, err := svc.Run(ctx)
	if err != nil {
		return errors.Wrapf(err, "batch %s", res.BatchID)
	}

	lg.Info("Done",
		zap.String("batch_id", res.BatchID),
		zap.String("status", string(res.Status)),
	)
	return nil
}
