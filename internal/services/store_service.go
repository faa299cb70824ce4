package services

import (
	"database/sql"
	"fmt"
	"strings"

	"store-ratings/internal/apperrors"
	"store-ratings/internal/models"

	"github.com/rs/zerolog"
)

type StoreService struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewStoreService(db *sql.DB, logger zerolog.Logger) *StoreService {
	return &StoreService{
		db:     db,
		logger: logger,
	}
}

var storeSortColumns = map[string]string{
	"name":       "s.name",
	"address":    "s.address",
	"email":      "s.email",
	"created_at": "s.created_at",
}

// CreateStore inserts a store. When owner_id is given, the referenced user
// must exist and hold the owner role at assignment time; later role changes
// are not reconciled.
func (s *StoreService) CreateStore(req *models.CreateStoreRequest) (*models.Store, error) {
	if req.Name == "" {
		return nil, apperrors.Validation("Name is required")
	}
	if req.Email != "" {
		if err := models.ValidateEmail(req.Email); err != nil {
			return nil, err
		}
	}
	if err := models.ValidateAddress(req.Address); err != nil {
		return nil, err
	}

	if req.OwnerID != nil {
		var role string
		err := s.db.QueryRow("SELECT role FROM users WHERE id = ?", *req.OwnerID).Scan(&role)
		if err == sql.ErrNoRows {
			return nil, apperrors.Validation("Owner user does not exist")
		}
		if err != nil {
			s.logger.Error().Err(err).Msg("Error checking owner")
			return nil, apperrors.Internal(fmt.Errorf("database error: %w", err))
		}
		if role != string(models.RoleOwner) {
			return nil, apperrors.Validation("owner_id must reference a user with role owner")
		}
	}

	result, err := s.db.Exec(
		"INSERT INTO stores (name, email, address, owner_id) VALUES (?, ?, ?, ?)",
		req.Name, nullable(req.Email), nullable(req.Address), req.OwnerID,
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error creating store")
		return nil, apperrors.Internal(fmt.Errorf("failed to create store: %w", err))
	}

	storeID, err := result.LastInsertId()
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to get store ID: %w", err))
	}

	store, err := s.GetStoreByID(int(storeID))
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("store_id", store.ID).Str("name", store.Name).Msg("Store created")
	return store, nil
}

func (s *StoreService) GetStoreByID(storeID int) (*models.Store, error) {
	var store models.Store
	var email, address sql.NullString
	var ownerID sql.NullInt64

	err := s.db.QueryRow(
		"SELECT id, name, email, address, owner_id, created_at, updated_at FROM stores WHERE id = ?",
		storeID,
	).Scan(&store.ID, &store.Name, &email, &address, &ownerID, &store.CreatedAt, &store.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("Store not found")
	}
	if err != nil {
		s.logger.Error().Err(err).Int("store_id", storeID).Msg("Error fetching store")
		return nil, apperrors.Internal(fmt.Errorf("database error: %w", err))
	}

	store.Email = email.String
	store.Address = address.String
	if ownerID.Valid {
		id := int(ownerID.Int64)
		store.OwnerID = &id
	}

	return &store, nil
}

// ListStores returns stores with their current average rating, recomputed on
// every call. When callerID is non-nil each row also carries that caller's
// own rating for the store, if any.
func (s *StoreService) ListStores(f *models.StoreFilter, callerID *int) ([]models.StoreSummary, error) {
	where := []string{}
	args := []interface{}{}

	if f.Search != "" {
		where = append(where, "(LOWER(s.name) LIKE ? OR LOWER(s.address) LIKE ?)")
		args = append(args, likePattern(f.Search), likePattern(f.Search))
	}
	if f.Name != "" {
		where = append(where, "LOWER(s.name) LIKE ?")
		args = append(args, likePattern(f.Name))
	}
	if f.Address != "" {
		where = append(where, "LOWER(s.address) LIKE ?")
		args = append(args, likePattern(f.Address))
	}

	query := `SELECT s.id, s.name, s.email, s.address, s.owner_id,
		ROUND(AVG(r.rating), 2) AS avg_rating, COUNT(r.id) AS rating_count
		FROM stores s
		LEFT JOIN ratings r ON r.store_id = s.id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " GROUP BY s.id, s.name, s.email, s.address, s.owner_id, s.created_at"
	query += " ORDER BY " + sortClause(storeSortColumns, f.Sort, f.Order, "s.name")
	query += " LIMIT ? OFFSET ?"
	args = append(args, clampLimit(f.Limit), clampOffset(f.Offset))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing stores")
		return nil, apperrors.Internal(fmt.Errorf("database error: %w", err))
	}
	defer rows.Close()

	stores, err := scanStoreSummaries(rows)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error scanning store rows")
		return nil, err
	}

	if callerID != nil && len(stores) > 0 {
		if err := s.attachCallerRatings(stores, *callerID); err != nil {
			return nil, err
		}
	}

	return stores, nil
}

// OwnedStoreSummaries lists an owner's stores with averages; used by the
// admin user detail view.
func (s *StoreService) OwnedStoreSummaries(ownerID int) ([]models.StoreSummary, error) {
	query := `SELECT s.id, s.name, s.email, s.address, s.owner_id,
		ROUND(AVG(r.rating), 2) AS avg_rating, COUNT(r.id) AS rating_count
		FROM stores s
		LEFT JOIN ratings r ON r.store_id = s.id
		WHERE s.owner_id = ?
		GROUP BY s.id, s.name, s.email, s.address, s.owner_id
		ORDER BY s.name ASC`

	rows, err := s.db.Query(query, ownerID)
	if err != nil {
		s.logger.Error().Err(err).Int("owner_id", ownerID).Msg("Error listing owned stores")
		return nil, apperrors.Internal(fmt.Errorf("database error: %w", err))
	}
	defer rows.Close()

	return scanStoreSummaries(rows)
}

func scanStoreSummaries(rows *sql.Rows) ([]models.StoreSummary, error) {
	stores := []models.StoreSummary{}
	for rows.Next() {
		var st models.StoreSummary
		var email, address sql.NullString
		var ownerID sql.NullInt64
		var avg sql.NullFloat64
		if err := rows.Scan(&st.ID, &st.Name, &email, &address, &ownerID, &avg, &st.RatingCount); err != nil {
			return nil, apperrors.Internal(fmt.Errorf("database error: %w", err))
		}
		st.Email = email.String
		st.Address = address.String
		if ownerID.Valid {
			id := int(ownerID.Int64)
			st.OwnerID = &id
		}
		if avg.Valid {
			v := avg.Float64
			st.AvgRating = &v
		}
		stores = append(stores, st)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("database error: %w", err))
	}
	return stores, nil
}

func (s *StoreService) attachCallerRatings(stores []models.StoreSummary, callerID int) error {
	ids := make([]interface{}, 0, len(stores)+1)
	ids = append(ids, callerID)
	for _, st := range stores {
		ids = append(ids, st.ID)
	}

	query := "SELECT store_id, rating FROM ratings WHERE user_id = ? AND store_id IN (" +
		placeholders(len(stores)) + ")"
	rows, err := s.db.Query(query, ids...)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error fetching caller ratings")
		return apperrors.Internal(fmt.Errorf("database error: %w", err))
	}
	defer rows.Close()

	byStore := map[int]int{}
	for rows.Next() {
		var storeID, rating int
		if err := rows.Scan(&storeID, &rating); err != nil {
			return apperrors.Internal(fmt.Errorf("database error: %w", err))
		}
		byStore[storeID] = rating
	}
	if err := rows.Err(); err != nil {
		return apperrors.Internal(fmt.Errorf("database error: %w", err))
	}

	for i := range stores {
		if rating, ok := byStore[stores[i].ID]; ok {
			r := rating
			stores[i].UserRating = &r
		}
	}
	return nil
}

// StoreRatings returns every rating for a store joined with the author's
// public profile.
func (s *StoreService) StoreRatings(storeID int) ([]models.RatingWithUser, error) {
	if _, err := s.GetStoreByID(storeID); err != nil {
		return nil, err
	}

	query := `SELECT r.id, r.rating, r.comment, r.created_at, r.updated_at,
		u.id, u.name, u.email, u.address, u.role
		FROM ratings r
		JOIN users u ON u.id = r.user_id
		WHERE r.store_id = ?
		ORDER BY r.created_at DESC`

	rows, err := s.db.Query(query, storeID)
	if err != nil {
		s.logger.Error().Err(err).Int("store_id", storeID).Msg("Error listing store ratings")
		return nil, apperrors.Internal(fmt.Errorf("database error: %w", err))
	}
	defer rows.Close()

	return scanRatingsWithUser(rows, nil)
}

// OwnerDashboard aggregates everything an owner sees: their stores, the
// combined average across those stores, and ratings grouped per store. An
// owner with no stores gets a not-found, never a fabricated zero average.
func (s *StoreService) OwnerDashboard(ownerID int) (*models.OwnerDashboard, error) {
	rows, err := s.db.Query(
		"SELECT id, name, email, address, owner_id, created_at, updated_at FROM stores WHERE owner_id = ? ORDER BY name ASC",
		ownerID,
	)
	if err != nil {
		s.logger.Error().Err(err).Int("owner_id", ownerID).Msg("Error fetching owned stores")
		return nil, apperrors.Internal(fmt.Errorf("database error: %w", err))
	}
	defer rows.Close()

	stores := []models.Store{}
	for rows.Next() {
		var st models.Store
		var email, address sql.NullString
		var oid sql.NullInt64
		if err := rows.Scan(&st.ID, &st.Name, &email, &address, &oid, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, apperrors.Internal(fmt.Errorf("database error: %w", err))
		}
		st.Email = email.String
		st.Address = address.String
		if oid.Valid {
			id := int(oid.Int64)
			st.OwnerID = &id
		}
		stores = append(stores, st)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("database error: %w", err))
	}

	if len(stores) == 0 {
		return nil, apperrors.NotFound("No stores found for this owner")
	}

	ids := make([]interface{}, len(stores))
	for i, st := range stores {
		ids[i] = st.ID
	}
	in := placeholders(len(stores))

	var avg sql.NullFloat64
	err = s.db.QueryRow(
		"SELECT ROUND(AVG(rating), 2) FROM ratings WHERE store_id IN ("+in+")",
		ids...,
	).Scan(&avg)
	if err != nil {
		s.logger.Error().Err(err).Int("owner_id", ownerID).Msg("Error computing owner average")
		return nil, apperrors.Internal(fmt.Errorf("database error: %w", err))
	}

	ratingRows, err := s.db.Query(
		`SELECT r.id, r.rating, r.comment, r.created_at, r.updated_at,
			u.id, u.name, u.email, u.address, u.role, r.store_id
			FROM ratings r
			JOIN users u ON u.id = r.user_id
			WHERE r.store_id IN (`+in+`)
			ORDER BY r.created_at DESC`,
		ids...,
	)
	if err != nil {
		s.logger.Error().Err(err).Int("owner_id", ownerID).Msg("Error fetching owner ratings")
		return nil, apperrors.Internal(fmt.Errorf("database error: %w", err))
	}
	defer ratingRows.Close()

	storeIDs := []int{}
	ratings, err := scanRatingsWithUser(ratingRows, &storeIDs)
	if err != nil {
		return nil, err
	}

	// One group per owned store, even when it has no ratings yet.
	groups := make([]models.StoreRatingGroup, len(stores))
	byStore := map[int]*models.StoreRatingGroup{}
	for i, st := range stores {
		groups[i] = models.StoreRatingGroup{
			StoreID:   st.ID,
			StoreName: st.Name,
			Ratings:   []models.RatingWithUser{},
		}
		byStore[st.ID] = &groups[i]
	}
	for i, r := range ratings {
		if group, ok := byStore[storeIDs[i]]; ok {
			group.Ratings = append(group.Ratings, r)
		}
	}

	return &models.OwnerDashboard{
		Stores:         stores,
		AverageRating:  avg.Float64,
		RatingsByStore: groups,
	}, nil
}

// scanRatingsWithUser scans rating+author rows. When storeIDs is non-nil the
// query is expected to select r.store_id as a trailing column, collected in
// parallel with the results.
func scanRatingsWithUser(rows *sql.Rows, storeIDs *[]int) ([]models.RatingWithUser, error) {
	ratings := []models.RatingWithUser{}
	for rows.Next() {
		var r models.RatingWithUser
		var comment, userAddress sql.NullString

		dest := []interface{}{
			&r.ID, &r.Rating, &comment, &r.CreatedAt, &r.UpdatedAt,
			&r.User.ID, &r.User.Name, &r.User.Email, &userAddress, &r.User.Role,
		}
		var storeID int
		if storeIDs != nil {
			dest = append(dest, &storeID)
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, apperrors.Internal(fmt.Errorf("database error: %w", err))
		}
		r.Comment = comment.String
		r.User.Address = userAddress.String
		ratings = append(ratings, r)
		if storeIDs != nil {
			*storeIDs = append(*storeIDs, storeID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("database error: %w", err))
	}
	return ratings, nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}
