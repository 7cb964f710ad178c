package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/farmflow/farmflow-server/internal/models"
)

// MemoryRepository implements the Repository interface with in-process maps.
// It backs the test suites and mirrors the transactional behaviour of the
// Postgres implementation: AddCollected applies all of its writes under one
// lock, so a call either commits everything or nothing.
type MemoryRepository struct {
	mu       sync.RWMutex
	users    map[string]*models.User          // keyed by email
	products map[string]*models.Product       // keyed by name
	rates    map[string][]*models.HarvestRate // keyed by product ID, newest last
	records  []*models.Record
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:    make(map[string]*models.User),
		products: make(map[string]*models.Product),
		rates:    make(map[string][]*models.HarvestRate),
	}
}

func (r *MemoryRepository) CreateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Email]; exists {
		return ErrDuplicate
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	r.users[user.Email] = &stored
	return nil
}

func (r *MemoryRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[email]
	if !ok {
		return nil, nil
	}

	copied := *user
	return &copied, nil
}

func (r *MemoryRepository) UpdateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.Email]
	if !ok {
		return nil
	}

	stored.Rating = user.Rating
	stored.Blocked = user.Blocked
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[product.Name]; exists {
		return ErrDuplicate
	}

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	product.CreatedAt = time.Now().UTC()

	stored := *product
	r.products[product.Name] = &stored
	return nil
}

func (r *MemoryRepository) GetProductByName(ctx context.Context, name string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[name]
	if !ok {
		return nil, nil
	}

	copied := *product
	return &copied, nil
}

func (r *MemoryRepository) CreateHarvestRate(ctx context.Context, rate *models.HarvestRate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rate.ID == "" {
		rate.ID = uuid.New().String()
	}
	rate.CreatedAt = time.Now().UTC()

	stored := *rate
	r.rates[rate.ProductID] = append(r.rates[rate.ProductID], &stored)
	return nil
}

func (r *MemoryRepository) GetActiveHarvestRate(ctx context.Context, productID string) (*models.HarvestRate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rates := r.rates[productID]
	if len(rates) == 0 {
		return nil, nil
	}

	copied := *rates[len(rates)-1]
	return &copied, nil
}

func (r *MemoryRepository) AddCollected(ctx context.Context, record *models.Record, quota *models.HarvestRate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, product := range r.products {
		if product.ID == record.ProductID {
			product.Amount += record.Amount
			break
		}
	}

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	stored := *record
	r.records = append(r.records, &stored)

	if quota != nil {
		for _, rates := range r.rates {
			for _, rate := range rates {
				if rate.ID == quota.ID {
					remaining := rate.Amount - record.Amount
					if remaining < 0 {
						remaining = 0
					}
					rate.Amount = remaining
				}
			}
		}
	}

	return nil
}

func (r *MemoryRepository) GetRecordsByUser(ctx context.Context, userID string) ([]models.RecordView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	views := []models.RecordView{}
	for _, record := range r.records {
		if record.UserID == userID {
			views = append(views, r.viewOf(record))
		}
	}

	return views, nil
}

func (r *MemoryRepository) GetAllRecords(ctx context.Context) ([]models.RecordView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	views := []models.RecordView{}
	for _, record := range r.records {
		views = append(views, r.viewOf(record))
	}

	return views, nil
}

func (r *MemoryRepository) viewOf(record *models.Record) models.RecordView {
	view := models.RecordView{
		Amount: record.Amount,
		Date:   record.Date,
	}
	for _, product := range r.products {
		if product.ID == record.ProductID {
			view.ProductName = product.Name
			view.Measure = product.Measure
			break
		}
	}
	for _, user := range r.users {
		if user.ID == record.UserID {
			view.UserEmail = user.Email
			break
		}
	}
	return view
}
