package services

import (
	"database/sql"
	"fmt"

	"store-ratings/internal/apperrors"
	"store-ratings/internal/models"

	"github.com/rs/zerolog"
)

type StatsService struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewStatsService(db *sql.DB, logger zerolog.Logger) *StatsService {
	return &StatsService{
		db:     db,
		logger: logger,
	}
}

// PlatformStats returns the admin dashboard counts, recomputed per call.
func (s *StatsService) PlatformStats() (*models.StatsResponse, error) {
	var stats models.StatsResponse

	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM users", &stats.TotalUsers},
		{"SELECT COUNT(*) FROM stores", &stats.TotalStores},
		{"SELECT COUNT(*) FROM ratings", &stats.TotalRatings},
	}

	for _, c := range counts {
		if err := s.db.QueryRow(c.query).Scan(c.dest); err != nil {
			s.logger.Error().Err(err).Str("query", c.query).Msg("Error counting rows")
			return nil, apperrors.Internal(fmt.Errorf("database error: %w", err))
		}
	}

	return &stats, nil
}
