package models

import "time"

type Store struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	OwnerID   *int      `json:"owner_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StoreSummary is a store row decorated with its current average rating.
// AvgRating is nil until the store has at least one rating. UserRating is
// the caller's own rating and is only set for authenticated listings.
type StoreSummary struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email,omitempty"`
	Address     string   `json:"address,omitempty"`
	OwnerID     *int     `json:"owner_id,omitempty"`
	AvgRating   *float64 `json:"avg_rating"`
	RatingCount int      `json:"rating_count"`
	UserRating  *int     `json:"user_rating,omitempty"`
}

type CreateStoreRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	OwnerID *int   `json:"owner_id"`
}

// StoreFilter narrows and orders store listings. Search matches name OR
// address; Name and Address match their own column only.
type StoreFilter struct {
	Search  string
	Name    string
	Address string
	Sort    string
	Order   string
	Limit   int
	Offset  int
}

type StoreListResponse struct {
	Data   []StoreSummary `json:"data"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}
