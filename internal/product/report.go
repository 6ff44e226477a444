// AngelaMos | 2026
// report.go

package product

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/catalog-api/internal/core"
)

const (
	lowStockLockKey   = "lock:reports:low_stock"
	lowStockReportKey = "reports:low_stock:latest"
	lowStockLockTTL   = 5 * time.Minute
	lowStockReportTTL = 7 * 24 * time.Hour
	reportRunTimeout  = time.Minute
)

// ReportStore coordinates report runs across replicas and keeps the last
// snapshot. *core.Redis satisfies it.
type ReportStore interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	Unlock(ctx context.Context, key, token string) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, dst any) error
}

type LowStockLister interface {
	ListLowStock(ctx context.Context, threshold int) ([]Product, error)
}

type LowStockItem struct {
	ID    int64  `json:"id"`
	SKU   string `json:"sku"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

type LowStockReport struct {
	GeneratedAt time.Time      `json:"generatedAt"`
	Threshold   int            `json:"threshold"`
	Count       int            `json:"count"`
	Items       []LowStockItem `json:"items"`
}

type ReporterConfig struct {
	Schedule  string
	Threshold int
}

// LowStockReporter periodically logs the active products at or below the
// configured stock threshold.
type LowStockReporter struct {
	lister    LowStockLister
	store     ReportStore
	logger    *slog.Logger
	threshold int
	schedule  string
	cron      *cron.Cron
	now       func() time.Time
}

// NewLowStockReporter returns an error for an unparsable schedule. store may
// be nil, in which case every replica runs the job and no snapshot is kept.
func NewLowStockReporter(
	lister LowStockLister,
	store ReportStore,
	cfg ReporterConfig,
	logger *slog.Logger,
) (*LowStockReporter, error) {
	if logger == nil {
		logger = slog.Default()
	}

	threshold := cfg.Threshold
	if threshold < 0 {
		threshold = DefaultLowStockThreshold
	}

	rep := &LowStockReporter{
		lister:    lister,
		store:     store,
		logger:    logger,
		threshold: threshold,
		schedule:  cfg.Schedule,
		cron:      cron.New(),
		now:       time.Now,
	}

	if _, err := rep.cron.AddFunc(cfg.Schedule, rep.runScheduled); err != nil {
		return nil, fmt.Errorf("schedule low stock report %q: %w", cfg.Schedule, err)
	}

	return rep, nil
}

func (r *LowStockReporter) Start() {
	r.cron.Start()
	r.logger.Info("low stock report scheduled",
		"schedule", r.schedule,
		"threshold", r.threshold,
	)
}

// Stop waits for a running job to finish or ctx to expire.
func (r *LowStockReporter) Stop(ctx context.Context) error {
	done := r.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *LowStockReporter) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), reportRunTimeout)
	defer cancel()

	if _, err := r.Run(ctx); err != nil {
		r.logger.Error("low stock report failed", "error", err)
	}
}

// Run builds and records one report. It returns a nil report without error
// when another replica holds the lock.
func (r *LowStockReporter) Run(ctx context.Context) (report *LowStockReport, err error) {
	ctx, span := core.StartSpan(ctx, "product.low_stock_report",
		attribute.Int("threshold", r.threshold),
	)
	defer func() { core.EndSpan(span, err) }()

	if r.store != nil {
		token, acquired, lockErr := r.store.TryLock(ctx, lowStockLockKey, lowStockLockTTL)
		if lockErr != nil {
			r.logger.WarnContext(ctx, "low stock report lock unavailable, running anyway",
				"error", lockErr,
			)
		} else if !acquired {
			r.logger.DebugContext(ctx, "low stock report already running elsewhere")
			return nil, nil
		} else {
			defer func() {
				if unlockErr := r.store.Unlock(context.WithoutCancel(ctx), lowStockLockKey, token); unlockErr != nil {
					r.logger.WarnContext(ctx, "release low stock report lock", "error", unlockErr)
				}
			}()
		}
	}

	products, err := r.lister.ListLowStock(ctx, r.threshold)
	if err != nil {
		return nil, fmt.Errorf("list low stock products: %w", err)
	}

	report = &LowStockReport{
		GeneratedAt: r.now().UTC(),
		Threshold:   r.threshold,
		Count:       len(products),
		Items:       make([]LowStockItem, 0, len(products)),
	}

	skus := make([]string, 0, len(products))
	for _, p := range products {
		report.Items = append(report.Items, LowStockItem{
			ID:    p.ID,
			SKU:   p.SKU,
			Name:  p.Name,
			Stock: p.Stock,
		})
		skus = append(skus, p.SKU)
	}

	if report.Count > 0 {
		r.logger.WarnContext(ctx, "low stock products",
			"threshold", r.threshold,
			"count", report.Count,
			"skus", skus,
		)
	} else {
		r.logger.InfoContext(ctx, "no low stock products", "threshold", r.threshold)
	}

	if r.store != nil {
		if err := r.store.SetJSON(ctx, lowStockReportKey, report, lowStockReportTTL); err != nil {
			r.logger.WarnContext(ctx, "store low stock report", "error", err)
		}
	}

	return report, nil
}

// Latest returns the most recent stored report, or nil when none exists.
func (r *LowStockReporter) Latest(ctx context.Context) (*LowStockReport, error) {
	if r.store == nil {
		return nil, nil
	}

	var report LowStockReport
	if err := r.store.GetJSON(ctx, lowStockReportKey, &report); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}
