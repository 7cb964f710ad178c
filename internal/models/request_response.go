package models

// Request models
type RegisterUserRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=35"`
	Surname    string `json:"surname" binding:"required,min=2,max=35"`
	Patronymic string `json:"patronymic" binding:"omitempty,max=35"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6,max=40"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterProductRequest registers a product. The initial amount may be zero.
type RegisterProductRequest struct {
	Name    string `json:"name" binding:"required"`
	Measure string `json:"measure" binding:"required"`
	Amount  int64  `json:"amount" binding:"gte=0"`
}

// CollectProductRequest reports a collected quantity; the amount must be positive.
type CollectProductRequest struct {
	Name    string `json:"name" binding:"required"`
	Measure string `json:"measure" binding:"required"`
	Amount  int64  `json:"amount" binding:"required,gt=0"`
}

type HarvestRateRequest struct {
	ProductName string `json:"productName" binding:"required"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
}

type RatingRequest struct {
	Email  string `json:"email" binding:"required,email"`
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
}

// Response models
type AuthResponse struct {
	Status    string `json:"status"`
	UserID    string `json:"userId,omitempty"`
	Email     string `json:"email,omitempty"`
	Token     string `json:"token,omitempty"`
	ExpiresIn int    `json:"expiresIn,omitempty"`
}

// HarvestRateView is returned after a collection event. Remaining is the
// quota still expected for the product, floored at zero; the set amount
// itself is never echoed back.
type HarvestRateView struct {
	ProductName string `json:"productName"`
	Measure     string `json:"measure"`
	Remaining   int64  `json:"remaining"`
}

// UserStatEntry is one product group of the per-user statistics.
type UserStatEntry struct {
	ProductName string `json:"productName"`
	Amount      int64  `json:"amount"`
	Measure     string `json:"measure"`
}

// FarmStatEntry is one product group of the per-farm statistics. Contributors
// holds the deduplicated emails of everyone who collected the product inside
// the requested window.
type FarmStatEntry struct {
	ProductName  string   `json:"productName"`
	Contributors []string `json:"contributors"`
	Amount       int64    `json:"amount"`
	Measure      string   `json:"measure"`
}

type SuccessResponse struct {
	Status    string      `json:"status"`
	Operation string      `json:"operation"`
	Data      interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
