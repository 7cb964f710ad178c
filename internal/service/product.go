package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/farmflow/farmflow-server/internal/models"
)

// lockProduct returns the mutex serializing quota mutations for one product.
func (s *DefaultService) lockProduct(name string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	m, ok := s.productLocks[name]
	if !ok {
		m = &sync.Mutex{}
		s.productLocks[name] = m
	}
	return m
}

// today returns the current UTC day with the time part dropped.
func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// RegisterProduct registers a new product in the catalog.
func (s *DefaultService) RegisterProduct(ctx context.Context, req models.RegisterProductRequest) error {
	existing, err := s.repo.GetProductByName(ctx, req.Name)
	if err != nil {
		return fmt.Errorf("error checking product existence: %w", err)
	}

	if existing != nil {
		return fmt.Errorf("%w: this product already exists", ErrDuplicateProduct)
	}

	product := &models.Product{
		Name:    req.Name,
		Measure: strings.ToUpper(req.Measure),
		Amount:  req.Amount,
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return fmt.Errorf("error creating product: %w", err)
	}

	return nil
}

// SetHarvestRate creates a fresh quota record for a product. A later call
// supersedes an earlier one; the old row stays in place as history.
func (s *DefaultService) SetHarvestRate(ctx context.Context, req models.HarvestRateRequest) error {
	lock := s.lockProduct(req.ProductName)
	lock.Lock()
	defer lock.Unlock()

	product, err := s.repo.GetProductByName(ctx, req.ProductName)
	if err != nil {
		return fmt.Errorf("error getting product: %w", err)
	}

	if product == nil {
		return fmt.Errorf("%w: product not found", ErrNotFound)
	}

	rate := &models.HarvestRate{
		ProductID: product.ID,
		Amount:    req.Amount,
	}

	if err := s.repo.CreateHarvestRate(ctx, rate); err != nil {
		return fmt.Errorf("error creating harvest rate: %w", err)
	}

	return nil
}

// AddCollectedProduct records one collection event: it grows the product's
// cumulative amount, appends the record to the ledger and depletes the
// active quota, floored at zero. Over-collection is silently absorbed.
// When no quota was ever set the returned view reports zero remaining and
// no quota record is fabricated.
//
// Collections on the same product are serialized through a per-product
// mutex; the measure check and all writes happen under the lock, and the
// writes commit as a single repository transaction.
func (s *DefaultService) AddCollectedProduct(ctx context.Context, contributor *models.User, req models.CollectProductRequest) (*models.HarvestRateView, error) {
	lock := s.lockProduct(req.Name)
	lock.Lock()
	defer lock.Unlock()

	product, err := s.repo.GetProductByName(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("error getting product: %w", err)
	}

	if product == nil {
		return nil, fmt.Errorf("%w: product not found", ErrNotFound)
	}

	if !strings.EqualFold(req.Measure, product.Measure) {
		return nil, ErrMeasureMismatch
	}

	quota, err := s.repo.GetActiveHarvestRate(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("error getting harvest rate: %w", err)
	}

	record := &models.Record{
		UserID:    contributor.ID,
		ProductID: product.ID,
		Amount:    req.Amount,
		Date:      today(),
	}

	var remaining int64
	if quota != nil {
		remaining = quota.Amount - req.Amount
		if remaining < 0 {
			remaining = 0
		}
		quota.Amount = remaining
	}

	if err := s.repo.AddCollected(ctx, record, quota); err != nil {
		return nil, fmt.Errorf("error recording collection: %w", err)
	}

	return &models.HarvestRateView{
		ProductName: product.Name,
		Measure:     product.Measure,
		Remaining:   remaining,
	}, nil
}
