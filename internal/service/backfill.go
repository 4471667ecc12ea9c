package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/UnknownOlympus/harvest/internal/geo"
	"github.com/UnknownOlympus/harvest/internal/geocoding"
	"github.com/UnknownOlympus/harvest/internal/metrics"
	"github.com/UnknownOlympus/harvest/internal/models"
	"github.com/UnknownOlympus/harvest/internal/repository"
)

const backfillBatchSize = 100

// BackfillService periodically geocodes registry shops that were saved with
// an address but without coordinates. Shops sharing an address are resolved
// with a single provider call.
type BackfillService struct {
	log           *slog.Logger         // Logger for logging service activities
	repo          repository.Interface // Shop registry access
	provider      geocoding.Provider   // Geocoding provider used to resolve addresses
	providerName  string               // Name of the provider for metrics labeling
	metrics       *metrics.Metrics
	numWorkers    int
	pollInterval  time.Duration
	addressPrefix string // Prepended to every address (country, city, etc.)
}

// NewBackfillService creates a new instance of BackfillService.
func NewBackfillService(
	log *slog.Logger,
	repo repository.Interface,
	provider geocoding.Provider,
	providerName string,
	metrics *metrics.Metrics,
	numWorkers int,
	pollInterval time.Duration,
	addressPrefix string,
) *BackfillService {
	return &BackfillService{
		log:           log,
		repo:          repo,
		provider:      provider,
		providerName:  providerName,
		metrics:       metrics,
		numWorkers:    numWorkers,
		pollInterval:  pollInterval,
		addressPrefix: addressPrefix,
	}
}

// Run polls for shops without coordinates on every tick until ctx is cancelled.
func (bs *BackfillService) Run(ctx context.Context) {
	ticker := time.NewTicker(bs.pollInterval)
	defer ticker.Stop()

	bs.log.InfoContext(ctx, "Coordinate backfill started...")

	for {
		select {
		case <-ctx.Done():
			bs.log.InfoContext(ctx, "Coordinate backfill stopped.")
			return
		case <-ticker.C:
			bs.log.InfoContext(ctx, "Polling for shops without coordinates...")
			bs.processBatch(ctx)
		}
	}
}

// addressGroup is one distinct address and every pending shop that shares it.
type addressGroup struct {
	address string
	shopIDs []int
}

var (
	errBlankAddress     = errors.New("shop has no address to geocode")
	errOutOfRangeResult = errors.New("geocoder returned coordinates outside the valid range")
)

// groupByAddress folds shops whose addresses differ only in case or spacing
// into one group, keeping first-seen order. Shops with a blank address are
// returned separately.
func groupByAddress(shops []models.PendingShop) ([]addressGroup, []int) {
	var (
		groups []addressGroup
		blank  []int
	)
	index := make(map[string]int, len(shops))

	for _, shop := range shops {
		address := strings.Join(strings.Fields(shop.Address), " ")
		if address == "" {
			blank = append(blank, shop.ID)
			continue
		}

		key := strings.ToLower(address)
		if i, ok := index[key]; ok {
			groups[i].shopIDs = append(groups[i].shopIDs, shop.ID)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, addressGroup{address: address, shopIDs: []int{shop.ID}})
	}

	return groups, blank
}

// processBatch fetches pending shops and fans their distinct addresses out to
// the worker pool, returning once every shop of the batch has been handled.
func (bs *BackfillService) processBatch(ctx context.Context) {
	shops, err := bs.repo.FetchShopsForGeocoding(ctx, backfillBatchSize)
	if err != nil {
		bs.log.ErrorContext(ctx, "Failed to fetch shops for geocoding", "error", err)
		return
	}
	if len(shops) == 0 {
		bs.log.InfoContext(ctx, "No shops to geocode.")
		return
	}

	groups, blank := groupByAddress(shops)
	for _, id := range blank {
		bs.metrics.TaskProcessed.WithLabelValues("skipped").Inc()
		bs.recordFailure(ctx, 0, id, errBlankAddress)
	}
	if len(groups) == 0 {
		return
	}

	bs.log.InfoContext(
		ctx,
		"Found shops to geocode. Starting worker pool.",
		"shops",
		len(shops),
		"addresses",
		len(groups),
		"num_workers",
		bs.numWorkers,
	)

	jobs := make(chan addressGroup, len(groups))
	var wgr sync.WaitGroup

	for i := 1; i <= bs.numWorkers; i++ {
		wgr.Add(1)
		go bs.worker(ctx, i, &wgr, jobs)
	}

	for _, group := range groups {
		jobs <- group
	}
	close(jobs)

	wgr.Wait()
	bs.log.InfoContext(ctx, "Backfill batch finished")
}

// worker geocodes addresses from jobs. A failure bumps the attempt counter of
// every shop at that address; a success stores the coordinates on each of them.
func (bs *BackfillService) worker(ctx context.Context, idx int, wg *sync.WaitGroup, jobs <-chan addressGroup) {
	defer wg.Done()
	for group := range jobs {
		bs.metrics.ActiveWorkers.Inc()
		bs.geocodeAddress(ctx, idx, group)
		bs.metrics.ActiveWorkers.Dec()
	}
}

func (bs *BackfillService) geocodeAddress(ctx context.Context, idx int, group addressGroup) {
	bs.log.DebugContext(ctx, "Processing address", "worker", idx, "shops", group.shopIDs)

	startTime := time.Now()
	coords, err := bs.provider.Geocode(ctx, bs.addressPrefix+group.address)
	bs.metrics.RequestSeconds.WithLabelValues(bs.providerName).Observe(time.Since(startTime).Seconds())

	if err != nil {
		bs.log.ErrorContext(ctx, "Failed to geocode", "worker", idx, "shops", group.shopIDs, "error", err)
		bs.metrics.APIErrors.Inc()
	} else if coords == nil || !geo.Valid(*coords) {
		err = errOutOfRangeResult
		bs.log.ErrorContext(ctx, "Discarding geocoding result", "worker", idx, "shops", group.shopIDs, "coords", coords)
	}

	for _, id := range group.shopIDs {
		if err != nil {
			bs.metrics.TaskProcessed.WithLabelValues("failure").Inc()
			bs.recordFailure(ctx, idx, id, err)
			continue
		}

		bs.metrics.TaskProcessed.WithLabelValues("success").Inc()
		if err := bs.repo.UpdateShopCoordinates(ctx, id, *coords); err != nil {
			bs.log.ErrorContext(
				ctx,
				"Failed to update coordinates for shop",
				"worker", idx,
				"shop", id,
				"error", err,
			)
			continue
		}
		bs.log.DebugContext(ctx, "Worker stored shop coordinates", "worker", idx, "shop", id)
	}
}

func (bs *BackfillService) recordFailure(ctx context.Context, idx, shopID int, cause error) {
	if err := bs.repo.IncrementFailureCount(ctx, shopID, cause.Error()); err != nil {
		bs.log.ErrorContext(
			ctx,
			"Could not update failure count for shop",
			"worker", idx,
			"shop", shopID,
			"error", err,
		)
	}
}
