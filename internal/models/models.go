package models

import (
	"strings"
	"time"
)

// User roles
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// Measures a product can be registered with
const (
	MeasureKilogram = "KILOGRAM"
	MeasureLiter    = "LITER"
	MeasurePiece    = "PIECE"
)

// ValidMeasure reports whether the given measure is one of the known units.
// Comparison is case-insensitive; stored measures are always upper case.
func ValidMeasure(measure string) bool {
	switch strings.ToUpper(measure) {
	case MeasureKilogram, MeasureLiter, MeasurePiece:
		return true
	}
	return false
}

// User represents a farm worker or administrator
type User struct {
	ID         string    `db:"id" json:"id"`
	Email      string    `db:"email" json:"email"`
	Name       string    `db:"name" json:"name"`
	Surname    string    `db:"surname" json:"surname"`
	Patronymic string    `db:"patronymic" json:"patronymic"`
	Password   string    `db:"password" json:"-"` // Password hash, not returned in JSON
	Role       string    `db:"role" json:"role"`
	Rating     *int      `db:"rating" json:"rating,omitempty"` // 1..5, unset until an admin rates
	Blocked    bool      `db:"blocked" json:"blocked"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// Product represents a registered product of the farm. Amount is the
// cumulative collected quantity and only ever grows.
type Product struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Measure   string    `db:"measure" json:"measure"`
	Amount    int64     `db:"amount" json:"amount"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// HarvestRate is the remaining quota of a product still expected to be
// collected. A new set-harvest-rate call inserts a new row; reads only ever
// look at the newest row per product, older rows are kept as history.
type HarvestRate struct {
	ID        string    `db:"id" json:"id"`
	ProductID string    `db:"product_id" json:"productId"`
	Amount    int64     `db:"amount" json:"amount"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Record is a single collection event: who gathered how much of what on
// which day. Records are append-only and never updated or deleted.
type Record struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	ProductID string    `db:"product_id" json:"productId"`
	Amount    int64     `db:"amount" json:"amount"`
	Date      time.Time `db:"date" json:"date"`
}

// RecordView is a record joined with its product and contributor, the shape
// the statistics aggregation works on.
type RecordView struct {
	ProductName string    `db:"product_name" json:"productName"`
	Measure     string    `db:"measure" json:"measure"`
	UserEmail   string    `db:"user_email" json:"userEmail"`
	Amount      int64     `db:"amount" json:"amount"`
	Date        time.Time `db:"date" json:"date"`
}
