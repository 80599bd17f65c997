package auth

import (
	"context"
	"errors"
	"time"

	"payments-backend/internal/apperr"
	"payments-backend/internal/logging"
	"payments-backend/internal/models"
	"payments-backend/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Availability fields accepted by IsAvailable.
const (
	FieldUsername       = "username"
	FieldEmail          = "email"
	FieldIDNumber       = "id_number"
	FieldEmployeeNumber = "employee_number"
)

var takenMessages = map[string]string{
	FieldUsername:       "username is already taken",
	FieldEmail:          "email is already registered",
	FieldIDNumber:       "ID number is already registered",
	FieldEmployeeNumber: "employee number is already registered",
}

type UserView struct {
	ID             uuid.UUID `json:"userId"`
	FullName       string    `json:"fullName"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	IDNumber       *string   `json:"idNumber,omitempty"`
	EmployeeNumber *string   `json:"employeeNumber,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type RegisterInput struct {
	FullName       string
	Username       string
	Email          string
	Password       string
	Role           string
	IDNumber       string
	EmployeeNumber string
}

type ProfileInput struct {
	FullName       string
	Email          string
	IDNumber       string
	EmployeeNumber string
}

type AuthService struct {
	users *repository.UserRepository
	cost  int
	now   func() time.Time
}

func NewAuthService(users *repository.UserRepository) *AuthService {
	return &AuthService{
		users: users,
		cost:  bcrypt.DefaultCost,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a user after checking username, email, ID number and
// employee number availability, in that order.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*UserView, error) {
	switch in.Role {
	case models.RoleCustomer, models.RoleEmployee, models.RoleAdmin:
	default:
		return nil, apperr.InvalidArgument("role must be Customer, Employee, or Admin")
	}

	candidate := map[string]string{
		FieldUsername:       in.Username,
		FieldEmail:          in.Email,
		FieldIDNumber:       in.IDNumber,
		FieldEmployeeNumber: in.EmployeeNumber,
	}
	if err := s.firstCollision(ctx, candidate, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}

	now := s.now()
	user := &models.User{
		ID:             uuid.New(),
		FullName:       in.FullName,
		Username:       in.Username,
		Email:          in.Email,
		PasswordHash:   string(hash),
		Role:           in.Role,
		IDNumber:       optional(in.IDNumber),
		EmployeeNumber: optional(in.EmployeeNumber),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, s.writeError(ctx, err, candidate, uuid.Nil, "create user")
	}

	logging.FromContext(ctx).Info("user registered",
		zap.Stringer("user_id", user.ID),
		zap.String("role", user.Role),
	)
	v := toView(user)
	return &v, nil
}

// Login returns the user when the password matches. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*UserView, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("invalid username or password")
		}
		return nil, apperr.Internal("load user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		logging.FromContext(ctx).Warn("login failed", zap.Stringer("user_id", user.ID))
		return nil, apperr.Unauthorized("invalid username or password")
	}
	v := toView(user)
	return &v, nil
}

func (s *AuthService) GetUser(ctx context.Context, userID uuid.UUID) (*UserView, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	v := toView(user)
	return &v, nil
}

// UpdateProfile changes name, email and identifiers. Availability is
// checked only for values that differ from the user's own.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*UserView, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidate := map[string]string{}
	if in.Email != user.Email {
		candidate[FieldEmail] = in.Email
	}
	if in.IDNumber != "" && in.IDNumber != deref(user.IDNumber) {
		candidate[FieldIDNumber] = in.IDNumber
	}
	if in.EmployeeNumber != "" && in.EmployeeNumber != deref(user.EmployeeNumber) {
		candidate[FieldEmployeeNumber] = in.EmployeeNumber
	}
	if err := s.firstCollision(ctx, candidate, user.ID); err != nil {
		return nil, err
	}

	user.FullName = in.FullName
	user.Email = in.Email
	user.IDNumber = optional(in.IDNumber)
	user.EmployeeNumber = optional(in.EmployeeNumber)
	user.UpdatedAt = s.now()

	if err := s.users.Save(ctx, user); err != nil {
		return nil, s.writeError(ctx, err, candidate, user.ID, "update user")
	}
	v := toView(user)
	return &v, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return apperr.Unauthorized("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.cost)
	if err != nil {
		return apperr.Internal("hash password", err)
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = s.now()
	if err := s.users.Save(ctx, user); err != nil {
		return apperr.Internal("update password", err)
	}
	logging.FromContext(ctx).Info("password changed", zap.Stringer("user_id", user.ID))
	return nil
}

// IsAvailable reports whether no user carries value in field. The answer is
// advisory: writes are still guarded by the unique indexes.
func (s *AuthService) IsAvailable(ctx context.Context, field, value string) (bool, error) {
	if !repository.IsUserField(field) {
		return false, apperr.InvalidArgument("unknown field " + field)
	}
	exists, err := s.users.Exists(ctx, field, value, uuid.Nil)
	if err != nil {
		return false, apperr.Internal("check availability", err)
	}
	return !exists, nil
}

var checkOrder = []string{FieldUsername, FieldEmail, FieldIDNumber, FieldEmployeeNumber}

// firstCollision returns a Conflict for the first field in checkOrder whose
// value is taken by a user other than exclude. Empty values are skipped.
func (s *AuthService) firstCollision(ctx context.Context, values map[string]string, exclude uuid.UUID) error {
	for _, field := range checkOrder {
		value := values[field]
		if value == "" {
			continue
		}
		exists, err := s.users.Exists(ctx, field, value, exclude)
		if err != nil {
			return apperr.Internal("check availability", err)
		}
		if exists {
			return apperr.Conflict(takenMessages[field])
		}
	}
	return nil
}

// writeError maps a failed insert/update. A unique violation lost a race
// with another writer; re-run the checks to name the field.
func (s *AuthService) writeError(ctx context.Context, err error, values map[string]string, exclude uuid.UUID, op string) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Internal(op, err)
	}
	if conflict := s.firstCollision(ctx, values, exclude); conflict != nil {
		return conflict
	}
	return apperr.Conflict("a unique value is already taken")
}

func (s *AuthService) load(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("load user", err)
	}
	return user, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toView(u *models.User) UserView {
	return UserView{
		ID:             u.ID,
		FullName:       u.FullName,
		Username:       u.Username,
		Email:          u.Email,
		Role:           u.Role,
		IDNumber:       u.IDNumber,
		EmployeeNumber: u.EmployeeNumber,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
