package services

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"store-ratings/internal/apperrors"
	"store-ratings/internal/config"
	"store-ratings/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	db         *sql.DB
	bcryptCost int
	logger     zerolog.Logger
}

func NewUserService(db *sql.DB, cfg *config.Config, logger zerolog.Logger) *UserService {
	return &UserService{
		db:         db,
		bcryptCost: cfg.BcryptCost,
		logger:     logger,
	}
}

var userSortColumns = map[string]string{
	"name":       "name",
	"email":      "email",
	"address":    "address",
	"role":       "role",
	"created_at": "created_at",
}

func emailTaken() *apperrors.Error {
	return apperrors.New(http.StatusBadRequest, "email_taken", "Email already registered")
}

// Register creates a self-registered account. The role is always "user";
// selectable roles go through CreateUser on the admin path.
func (s *UserService) Register(req *models.RegisterRequest) (*models.User, error) {
	return s.createUser(req.Name, req.Email, req.Password, req.Address, string(models.RoleUser))
}

// CreateUser is the admin create path with a selectable role. An empty role
// defaults to "user".
func (s *UserService) CreateUser(req *models.CreateUserRequest) (*models.User, error) {
	role := req.Role
	if role == "" {
		role = string(models.RoleUser)
	}
	if err := models.ValidateRole(role); err != nil {
		return nil, err
	}
	return s.createUser(req.Name, req.Email, req.Password, req.Address, role)
}

func (s *UserService) createUser(name, email, password, address, role string) (*models.User, error) {
	if err := models.ValidateName(name); err != nil {
		return nil, err
	}
	if err := models.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := models.ValidateAddress(address); err != nil {
		return nil, err
	}
	if err := models.ValidatePassword(password); err != nil {
		return nil, err
	}

	var existingID int
	err := s.db.QueryRow("SELECT id FROM users WHERE email = ?", email).Scan(&existingID)
	if err == nil {
		return nil, emailTaken()
	} else if err != sql.ErrNoRows {
		s.logger.Error().Err(err).Msg("Error checking existing user")
		return nil, apperrors.Internal(fmt.Errorf("database error: %w", err))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error hashing password")
		return nil, apperrors.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	result, err := s.db.Exec(
		"INSERT INTO users (name, email, password_hash, address, role) VALUES (?, ?, ?, ?, ?)",
		name, email, string(hashedPassword), nullable(address), role,
	)
	if err != nil {
		// The unique key is the backstop for a concurrent register with the
		// same email.
		if apperrors.IsDuplicateEntry(err) {
			return nil, emailTaken()
		}
		s.logger.Error().Err(err).Msg("Error creating user")
		return nil, apperrors.Internal(fmt.Errorf("failed to create user: %w", err))
	}

	userID, err := result.LastInsertId()
	if err != nil {
		s.logger.Error().Err(err).Msg("Error getting user ID")
		return nil, apperrors.Internal(fmt.Errorf("failed to get user ID: %w", err))
	}

	user, err := s.GetUserByID(int(userID))
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("user_id", user.ID).Str("email", user.Email).Str("role", user.Role).Msg("User created")
	return user, nil
}

// Authenticate verifies a login attempt. The unknown-email and wrong-password
// failures share one message so accounts cannot be enumerated.
func (s *UserService) Authenticate(req *models.LoginRequest) (*models.User, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperrors.Validation("Email and password are required")
	}

	invalidCredentials := apperrors.Unauthorized("Invalid email or password")

	var user models.User
	var address sql.NullString

	err := s.db.QueryRow(
		"SELECT id, name, email, password_hash, address, role, created_at, updated_at FROM users WHERE email = ?",
		req.Email,
	).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &address, &user.Role, &user.CreatedAt, &user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, invalidCredentials
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Error querying user")
		return nil, apperrors.Internal(fmt.Errorf("database error: %w", err))
	}
	user.Address = address.String

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password))
	if err != nil {
		s.logger.Warn().Str("email", req.Email).Msg("Failed authentication attempt")
		return nil, invalidCredentials
	}

	s.logger.Info().Int("user_id", user.ID).Str("email", user.Email).Msg("User authenticated")
	return &user, nil
}

func (s *UserService) GetUserByID(userID int) (*models.User, error) {
	var user models.User
	var address sql.NullString

	err := s.db.QueryRow(
		"SELECT id, name, email, password_hash, address, role, created_at, updated_at FROM users WHERE id = ?",
		userID,
	).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &address, &user.Role, &user.CreatedAt, &user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("User not found")
	}
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error fetching user")
		return nil, apperrors.Internal(fmt.Errorf("database error: %w", err))
	}
	user.Address = address.String

	return &user, nil
}

// ChangePassword replaces the caller's hash after verifying the current
// password and re-running the registration policy on the new one.
func (s *UserService) ChangePassword(userID int, req *models.ChangePasswordRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperrors.Validation("Current and new password are required")
	}
	if err := models.ValidatePassword(req.NewPassword); err != nil {
		return err
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		s.logger.Warn().Int("user_id", userID).Msg("Password change with wrong current password")
		return apperrors.Unauthorized("Current password is incorrect")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error hashing password")
		return apperrors.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	_, err = s.db.Exec("UPDATE users SET password_hash = ? WHERE id = ?", string(hashedPassword), userID)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error updating password")
		return apperrors.Internal(fmt.Errorf("failed to update password: %w", err))
	}

	s.logger.Info().Int("user_id", userID).Msg("Password updated")
	return nil
}

// ListUsers returns the admin user listing. Filters are case-insensitive
// substring matches per field; password hashes never leave this method.
func (s *UserService) ListUsers(f *models.UserFilter) ([]models.User, error) {
	where := []string{}
	args := []interface{}{}

	if f.Name != "" {
		where = append(where, "LOWER(name) LIKE ?")
		args = append(args, likePattern(f.Name))
	}
	if f.Email != "" {
		where = append(where, "LOWER(email) LIKE ?")
		args = append(args, likePattern(f.Email))
	}
	if f.Address != "" {
		where = append(where, "LOWER(address) LIKE ?")
		args = append(args, likePattern(f.Address))
	}
	if f.Role != "" {
		where = append(where, "LOWER(role) LIKE ?")
		args = append(args, likePattern(f.Role))
	}

	query := "SELECT id, name, email, address, role, created_at, updated_at FROM users"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY " + sortClause(userSortColumns, f.Sort, f.Order, "name")
	query += " LIMIT ? OFFSET ?"
	args = append(args, clampLimit(f.Limit), clampOffset(f.Offset))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing users")
		return nil, apperrors.Internal(fmt.Errorf("database error: %w", err))
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		var address sql.NullString
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &address, &user.Role, &user.CreatedAt, &user.UpdatedAt); err != nil {
			s.logger.Error().Err(err).Msg("Error scanning user row")
			return nil, apperrors.Internal(fmt.Errorf("database error: %w", err))
		}
		user.Address = address.String
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("database error: %w", err))
	}

	return users, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
