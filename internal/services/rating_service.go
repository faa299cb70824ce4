package services

import (
	"database/sql"
	"fmt"

	"store-ratings/internal/apperrors"
	"store-ratings/internal/models"

	"github.com/rs/zerolog"
)

type RatingService struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewRatingService(db *sql.DB, logger zerolog.Logger) *RatingService {
	return &RatingService{
		db:     db,
		logger: logger,
	}
}

// Upsert records a user's rating for a store: a first submission inserts,
// a resubmission overwrites rating and comment in place. The whole thing is
// a single statement keyed on the (user_id, store_id) unique index, so
// concurrent double-submission cannot produce two rows or a torn write.
// created reports whether a new row was inserted.
func (s *RatingService) Upsert(userID, storeID int, req *models.RateRequest) (rating *models.Rating, created bool, err error) {
	if err := models.ValidateRating(req.Rating); err != nil {
		return nil, false, err
	}

	var storeExists int
	err = s.db.QueryRow("SELECT id FROM stores WHERE id = ?", storeID).Scan(&storeExists)
	if err == sql.ErrNoRows {
		return nil, false, apperrors.NotFound("Store not found")
	}
	if err != nil {
		s.logger.Error().Err(err).Int("store_id", storeID).Msg("Error checking store")
		return nil, false, apperrors.Internal(fmt.Errorf("database error: %w", err))
	}

	// MySQL reports 1 affected row for a fresh insert and 2 when the
	// duplicate-key branch updated an existing row (0 when the update
	// changed nothing).
	result, err := s.db.Exec(
		`INSERT INTO ratings (user_id, store_id, rating, comment)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE rating = VALUES(rating), comment = VALUES(comment)`,
		userID, storeID, req.Rating, nullable(req.Comment),
	)
	if err != nil {
		if apperrors.IsDuplicateEntry(err) {
			return nil, false, apperrors.Conflict("Rating was submitted concurrently, please retry")
		}
		s.logger.Error().Err(err).Int("user_id", userID).Int("store_id", storeID).Msg("Error upserting rating")
		return nil, false, apperrors.Internal(fmt.Errorf("failed to save rating: %w", err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, false, apperrors.Internal(fmt.Errorf("failed to read result: %w", err))
	}
	created = affected == 1

	saved, err := s.GetByUserAndStore(userID, storeID)
	if err != nil {
		return nil, false, err
	}

	s.logger.Info().
		Int("user_id", userID).
		Int("store_id", storeID).
		Int("rating", saved.Rating).
		Bool("created", created).
		Msg("Rating saved")
	return saved, created, nil
}

func (s *RatingService) GetByUserAndStore(userID, storeID int) (*models.Rating, error) {
	var rating models.Rating
	var comment sql.NullString

	err := s.db.QueryRow(
		"SELECT id, user_id, store_id, rating, comment, created_at, updated_at FROM ratings WHERE user_id = ? AND store_id = ?",
		userID, storeID,
	).Scan(&rating.ID, &rating.UserID, &rating.StoreID, &rating.Rating, &comment, &rating.CreatedAt, &rating.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("Rating not found")
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Error fetching rating")
		return nil, apperrors.Internal(fmt.Errorf("database error: %w", err))
	}
	rating.Comment = comment.String

	return &rating, nil
}
