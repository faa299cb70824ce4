package models

import "time"

type Rating struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	StoreID   int       `json:"store_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RateRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// RatingWithUser joins a rating with its author's public profile.
type RatingWithUser struct {
	ID        int        `json:"id"`
	Rating    int        `json:"rating"`
	Comment   string     `json:"comment,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	User      UserPublic `json:"user"`
}

// StoreRatingGroup is one owner-dashboard bucket: a store and every rating
// submitted for it.
type StoreRatingGroup struct {
	StoreID   int              `json:"store_id"`
	StoreName string           `json:"store_name"`
	Ratings   []RatingWithUser `json:"ratings"`
}

type OwnerDashboard struct {
	Stores         []Store            `json:"stores"`
	AverageRating  float64            `json:"average_rating"`
	RatingsByStore []StoreRatingGroup `json:"ratings_by_store"`
}

type StatsResponse struct {
	TotalUsers   int `json:"total_users"`
	TotalStores  int `json:"total_stores"`
	TotalRatings int `json:"total_ratings"`
}
