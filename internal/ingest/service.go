// Package ingest runs a full raw-zone load: it opens a batch, lands customers,
// products, coupons and orders in dependency order, and closes the batch.
package ingest

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/xenking/fakestore-raw-loader/internal/domain/batch"
	"github.com/xenking/fakestore-raw-loader/internal/domain/coupon"
	"github.com/xenking/fakestore-raw-loader/internal/domain/raw"
	"github.com/xenking/fakestore-raw-loader/internal/source"
)

// Ledger metadata of every run.
const (
	BatchSourceSystem = "FakeStore+SimulatedCoupons"
	BatchDescription  = "Full RAW load"
)

const instrumentationName = "github.com/xenking/fakestore-raw-loader/internal/ingest"

// Source fetches the catalog entities. It is implemented by *source.Client.
type Source interface {
	Users(ctx context.Context) ([]source.User, error)
	Products(ctx context.Context) ([]source.Product, source.PriceBook, error)
	Carts(ctx context.Context) ([]source.Cart, error)
}

// Stats counts rows written per raw table.
type Stats map[string]int

// Total returns the number of rows written across all tables.
func (s Stats) Total() int {
	var n int
	for _, v := range s {
		n += v
	}
	return n
}

// Result describes a finished run.
type Result struct {
	BatchID string
	Status  batch.Status
	// Stage is StageClosed after a successful run. On failure it is the stage
	// that was in progress, StageInit when the batch could not be opened.
	Stage batch.Stage
	Stats Stats
}

// Options configures a Service. Zero values select defaults.
type Options struct {
	// Coupons supplies the promotions landed and applied during a run.
	// Defaults to coupon.Catalog.
	Coupons func() []coupon.Rule
	// Now is the clock used for batch ids and load timestamps.
	// Defaults to time.Now.
	Now            func() time.Time
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

func (o *Options) setDefaults() {
	if o.Coupons == nil {
		o.Coupons = coupon.Catalog
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.TracerProvider == nil {
		o.TracerProvider = tracenoop.NewTracerProvider()
	}
	if o.MeterProvider == nil {
		o.MeterProvider = metricnoop.NewMeterProvider()
	}
}

// Service is the run orchestrator. Runs are strictly sequential and every
// write is committed on its own, so a failed run leaves the rows it already
// wrote in place under a FAILED batch.
type Service struct {
	source  Source
	ledger  batch.Ledger
	writer  raw.Writer
	coupons func() []coupon.Rule
	now     func() time.Time

	tracer trace.Tracer
	rows   metric.Int64Counter
}

// NewService creates a Service with the required dependencies.
func NewService(src Source, ledger batch.Ledger, writer raw.Writer, opts Options) (*Service, error) {
	opts.setDefaults()

	rows, err := opts.MeterProvider.Meter(instrumentationName).Int64Counter("ingest.rows.written",
		metric.WithDescription("Rows appended to the raw zone"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create rows counter")
	}

	return &Service{
		source:  src,
		ledger:  ledger,
		writer:  writer,
		coupons: opts.Coupons,
		now:     opts.Now,
		tracer:  opts.TracerProvider.Tracer(instrumentationName),
		rows:    rows,
	}, nil
}

// Run performs one full load under a new batch. The ledger is closed exactly
// once whenever the batch was opened; a close failure after a step error is
// logged and the step error is returned.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	startedAt := s.now().UTC()
	res := &Result{
		BatchID: batch.NewID(startedAt),
		Status:  batch.StatusRunning,
		Stage:   batch.StageInit,
		Stats:   Stats{},
	}

	ctx = batch.WithID(ctx, res.BatchID)
	ctx = zctx.With(ctx, zap.String("batch_id", res.BatchID))
	lg := zctx.From(ctx)
	lg.Info("Starting raw load")

	err := s.ledger.Open(ctx, batch.Batch{
		ID:           res.BatchID,
		SourceSystem: BatchSourceSystem,
		Description:  BatchDescription,
		StartedAt:    startedAt,
		Status:       batch.StatusRunning,
	})
	if err != nil {
		res.Status = batch.StatusFailed
		lg.Error("Open batch failed", zap.Error(err))
		return res, errors.Wrap(err, "open batch")
	}
	res.Stage = batch.StageBatchOpen

	if err := s.load(ctx, res); err != nil {
		s.fail(ctx, res, err)
		return res, err
	}

	if err := s.ledger.Close(ctx, res.BatchID, batch.StatusSuccess, nil); err != nil {
		err = errors.Wrap(err, "close batch")
		s.fail(ctx, res, err)
		return res, err
	}

	res.Stage = batch.StageClosed
	res.Status = batch.StatusSuccess
	lg.Info("Raw load completed",
		zap.Int("rows", res.Stats.Total()),
		zap.Any("tables", res.Stats),
	)
	return res, nil
}

// fail closes the batch as FAILED. The close is best-effort and runs even
// when ctx is already cancelled.
func (s *Service) fail(ctx context.Context, res *Result, cause error) {
	lg := zctx.From(ctx)
	res.Status = batch.StatusFailed

	msg := cause.Error()
	if err := s.ledger.Close(context.WithoutCancel(ctx), res.BatchID, batch.StatusFailed, &msg); err != nil {
		lg.Error("Close failed batch", zap.Error(err))
	}

	lg.Error("Raw load failed",
		zap.Error(cause),
		zap.Stringer("stage", res.Stage),
		zap.Int("rows", res.Stats.Total()),
	)
}

func (s *Service) load(ctx context.Context, res *Result) error {
	if err := s.stage(ctx, res, batch.StageLoadingCustomers, func(ctx context.Context) error {
		return s.loadCustomers(ctx, res)
	}); err != nil {
		return err
	}

	var prices source.PriceBook
	if err := s.stage(ctx, res, batch.StageLoadingProducts, func(ctx context.Context) (err error) {
		prices, err = s.loadProducts(ctx, res)
		return err
	}); err != nil {
		return err
	}

	var rules []coupon.Rule
	if err := s.stage(ctx, res, batch.StageLoadingCoupons, func(ctx context.Context) (err error) {
		rules, err = s.loadCoupons(ctx, res)
		return err
	}); err != nil {
		return err
	}

	return s.stage(ctx, res, batch.StageLoadingOrders, func(ctx context.Context) error {
		return s.loadOrders(ctx, res, prices, rules)
	})
}

// stage advances res to st and runs fn inside a span.
func (s *Service) stage(ctx context.Context, res *Result, st batch.Stage, fn func(ctx context.Context) error) error {
	res.Stage = st

	ctx, span := s.tracer.Start(ctx, st.String(),
		trace.WithAttributes(attribute.String("batch.id", res.BatchID)),
	)
	defer span.End()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// written records one row appended to table.
func (s *Service) written(ctx context.Context, res *Result, table string) {
	res.Stats[table]++
	s.rows.Add(ctx, 1, metric.WithAttributes(attribute.String("table", table)))
}

func (s *Service) lineage(res *Result, system string, payload []byte) raw.Lineage {
	return raw.Lineage{
		BatchID:      res.BatchID,
		SourceSystem: system,
		Payload:      payload,
		LoadedAt:     s.now().UTC(),
	}
}
