package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"salesdash/logging"
	"salesdash/metrics"
	"salesdash/models"
)

// Source is where sales and inventory are collected from.
type Source interface {
	DailySales(ctx context.Context, start, end time.Time) ([]models.SaleRecord, error)
	AllInventory(ctx context.Context) ([]models.InventoryLevel, error)
}

// Sink persists collected batches. Each call is one atomic batch.
type Sink interface {
	StoreSales(ctx context.Context, records []models.SaleRecord) (int, error)
	UpdateInventoryLevels(ctx context.Context, levels []models.InventoryLevel) (int, error)
}

// Result describes one ingestion batch.
type Result struct {
	BatchID           string `json:"batch_id"`
	Day               string `json:"day,omitempty"`
	SalesFetched      int    `json:"sales_fetched"`
	SalesInserted     int    `json:"sales_inserted"`
	InventoryUpserted int    `json:"inventory_upserted"`
}

type Collector struct {
	source  Source
	sink    Sink
	logger  *logging.Logger
	metrics *metrics.Registry
	newID   func() string
}

func NewCollector(source Source, sink Sink, logger *logging.Logger, m *metrics.Registry) *Collector {
	return &Collector{
		source:  source,
		sink:    sink,
		logger:  logger.WithComponent("ingest"),
		metrics: m,
		newID:   uuid.NewString,
	}
}

// Collect pulls one calendar day of sales and the current inventory from the
// source and writes them to the sink.
func (c *Collector) Collect(ctx context.Context, day time.Time) (Result, error) {
	res := Result{BatchID: c.newID(), Day: day.Format(time.DateOnly)}
	log := c.logger.WithOperation("collect").WithFields(map[string]any{"batchId": res.BatchID, "day": res.Day})

	fail := func(err error) (Result, error) {
		c.metrics.CollectionRun("error")
		log.WithError(err).Error("Data collection failed")
		return res, err
	}

	sales, err := c.source.DailySales(ctx, day, day)
	if err != nil {
		return fail(fmt.Errorf("fetch sales: %w", err))
	}
	res.SalesFetched = len(sales)

	if res.SalesInserted, err = c.storeSales(ctx, sales); err != nil {
		return fail(err)
	}

	levels, err := c.source.AllInventory(ctx)
	if err != nil {
		return fail(fmt.Errorf("fetch inventory: %w", err))
	}
	if res.InventoryUpserted, err = c.storeInventory(ctx, levels); err != nil {
		return fail(err)
	}

	c.metrics.CollectionRun("success")
	log.Info("Data collection completed",
		"salesFetched", res.SalesFetched,
		"salesInserted", res.SalesInserted,
		"inventoryUpserted", res.InventoryUpserted,
	)
	return res, nil
}

// StoreSales writes a pushed batch of sale records.
func (c *Collector) StoreSales(ctx context.Context, records []models.SaleRecord) (Result, error) {
	res := Result{BatchID: c.newID(), SalesFetched: len(records)}
	inserted, err := c.storeSales(ctx, records)
	if err != nil {
		c.logger.WithError(err).Error("Error storing sales data", "batchId", res.BatchID)
		return res, err
	}
	res.SalesInserted = inserted
	return res, nil
}

// StoreInventory writes a pushed batch of inventory levels.
func (c *Collector) StoreInventory(ctx context.Context, levels []models.InventoryLevel) (Result, error) {
	res := Result{BatchID: c.newID()}
	n, err := c.storeInventory(ctx, levels)
	if err != nil {
		c.logger.WithError(err).Error("Error updating inventory levels", "batchId", res.BatchID)
		return res, err
	}
	res.InventoryUpserted = n
	return res, nil
}

func (c *Collector) storeSales(ctx context.Context, records []models.SaleRecord) (int, error) {
	inserted, err := c.sink.StoreSales(ctx, records)
	if err != nil {
		return 0, fmt.Errorf("store sales: %w", err)
	}
	c.metrics.SalesBatch(len(records), inserted)
	return inserted, nil
}

func (c *Collector) storeInventory(ctx context.Context, levels []models.InventoryLevel) (int, error) {
	n, err := c.sink.UpdateInventoryLevels(ctx, levels)
	if err != nil {
		return 0, fmt.Errorf("update inventory: %w", err)
	}
	c.metrics.InventoryBatch(n)
	return n, nil
}
