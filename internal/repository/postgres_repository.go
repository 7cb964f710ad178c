package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/farmflow/farmflow-server/internal/models"
)

// Repository interface defines the methods that any repository implementation must satisfy
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error

	// Product operations
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByName(ctx context.Context, name string) (*models.Product, error)

	// Harvest rate operations
	CreateHarvestRate(ctx context.Context, rate *models.HarvestRate) error
	GetActiveHarvestRate(ctx context.Context, productID string) (*models.HarvestRate, error)

	// Collection ledger operations. AddCollected commits the cumulative
	// amount increase, the record append and the optional quota update as
	// one transaction.
	AddCollected(ctx context.Context, record *models.Record, quota *models.HarvestRate) error
	GetRecordsByUser(ctx context.Context, userID string) ([]models.RecordView, error)
	GetAllRecords(ctx context.Context) ([]models.RecordView, error)
}

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// GetDB returns the underlying database connection
func (r *PostgresRepository) GetDB() *sqlx.DB {
	return r.db
}

// isUniqueViolation reports whether err is a unique-constraint violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// User repository methods
func (r *PostgresRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, name, surname, patronymic, password, role, rating, blocked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	// Generate a new UUID if not provided
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, user.Surname, user.Patronymic,
		user.Password, user.Role, user.Rating, user.Blocked, user.CreatedAt, user.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}

	return err
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT * FROM users WHERE email = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

func (r *PostgresRepository) UpdateUser(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET rating = $1, blocked = $2, updated_at = $3
		WHERE id = $4
	`

	user.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query, user.Rating, user.Blocked, user.UpdatedAt, user.ID)

	return err
}

// Product repository methods
func (r *PostgresRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, name, measure, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	product.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, query,
		product.ID, product.Name, product.Measure, product.Amount, product.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}

	return err
}

func (r *PostgresRepository) GetProductByName(ctx context.Context, name string) (*models.Product, error) {
	query := `SELECT * FROM products WHERE name = $1`

	var product models.Product
	err := r.db.GetContext(ctx, &product, query, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Product not found
		}
		return nil, err
	}

	return &product, nil
}

// Harvest rate repository methods
func (r *PostgresRepository) CreateHarvestRate(ctx context.Context, rate *models.HarvestRate) error {
	query := `
		INSERT INTO harvest_rates (id, product_id, amount, created_at)
		VALUES ($1, $2, $3, $4)
	`

	if rate.ID == "" {
		rate.ID = uuid.New().String()
	}
	rate.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, query,
		rate.ID, rate.ProductID, rate.Amount, rate.CreatedAt)

	return err
}

// GetActiveHarvestRate returns the newest quota row for a product. Superseded
// rows stay in the table but are never read here.
func (r *PostgresRepository) GetActiveHarvestRate(ctx context.Context, productID string) (*models.HarvestRate, error) {
	query := `
		SELECT * FROM harvest_rates
		WHERE product_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var rate models.HarvestRate
	err := r.db.GetContext(ctx, &rate, query, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No quota set for this product
		}
		return nil, err
	}

	return &rate, nil
}

// AddCollected applies one collection event atomically: the product's
// cumulative amount grows by the record amount, the record is appended and,
// when quota is non-nil, the quota row is set to the already-floored
// remaining value. The increments run inside the database so concurrent
// collectors cannot lose updates.
func (r *PostgresRepository) AddCollected(ctx context.Context, record *models.Record, quota *models.HarvestRate) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	_, err = tx.ExecContext(ctx,
		`UPDATE products SET amount = amount + $1 WHERE id = $2`,
		record.Amount, record.ProductID)
	if err != nil {
		return err
	}

	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO records (id, user_id, product_id, amount, date) VALUES ($1, $2, $3, $4, $5)`,
		record.ID, record.UserID, record.ProductID, record.Amount, record.Date)
	if err != nil {
		return err
	}

	if quota != nil {
		_, err = tx.ExecContext(ctx,
			`UPDATE harvest_rates SET amount = GREATEST(amount - $1, 0) WHERE id = $2`,
			record.Amount, quota.ID)
		if err != nil {
			return err
		}
	}

	err = tx.Commit()
	return err
}

const recordViewQuery = `
	SELECT p.name AS product_name, p.measure AS measure,
	       u.email AS user_email, r.amount AS amount, r.date AS date
	FROM records r
	JOIN products p ON p.id = r.product_id
	JOIN users u ON u.id = r.user_id
`

func (r *PostgresRepository) GetRecordsByUser(ctx context.Context, userID string) ([]models.RecordView, error) {
	query := recordViewQuery + ` WHERE r.user_id = $1 ORDER BY r.date`

	records := []models.RecordView{}
	if err := r.db.SelectContext(ctx, &records, query, userID); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *PostgresRepository) GetAllRecords(ctx context.Context) ([]models.RecordView, error) {
	query := recordViewQuery + ` ORDER BY r.date`

	records := []models.RecordView{}
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, err
	}

	return records, nil
}
