package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"panjarku-backend/internal/middleware"
	"panjarku-backend/internal/model"
	"panjarku-backend/internal/repository"
	"panjarku-backend/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DTOs for Request validation
type CreateUserRequest struct {
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=6"`
	Roles    []string `json:"roles" binding:"required,min=1"` // role names
}

type UpdateUserRequest struct {
	Name  string   `json:"name"`
	Email string   `json:"email" binding:"omitempty,email"`
	Roles []string `json:"roles"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// UserResponse returns User data without exposing sensitive fields
type UserResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

// UserService defines the interface for business logic related to User
type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context, search string, page, perPage int) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, id string) error
}

type userService struct {
	db        *gorm.DB
	repo      repository.UserRepository
	txManager repository.TransactionManager
}

// NewUserService returns a new instance of UserService
func NewUserService(db *gorm.DB, repo repository.UserRepository, txManager repository.TransactionManager) UserService {
	return &userService{db: db, repo: repo, txManager: txManager}
}

func mapToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		Roles:     user.RoleNames(),
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateUser creates the user together with its role assignments in one
// transaction.
func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperror.Conflict("email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashedPassword),
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		roles, rolesErr := s.resolveRoles(txCtx, req.Roles)
		if rolesErr != nil {
			return rolesErr
		}

		if createErr := s.repo.Create(txCtx, user); createErr != nil {
			return fmt.Errorf("failed to create user: %w", createErr)
		}

		if assignErr := s.repo.ReplaceRoles(txCtx, user, roles); assignErr != nil {
			return fmt.Errorf("failed to assign roles: %w", assignErr)
		}

		user.Roles = roles
		return nil
	})
	if err != nil {
		return nil, err
	}

	return mapToUserResponse(user), nil
}

func (s *userService) resolveRoles(ctx context.Context, names []string) ([]model.Role, error) {
	var roles []model.Role
	if err := repository.GetDB(ctx, s.db).Where("name IN ?", names).Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch roles: %w", err)
	}
	if len(roles) != len(names) {
		return nil, apperror.Unprocessable("one or more roles do not exist")
	}
	return roles, nil
}

func (s *userService) Login(ctx context.Context, req LoginRequest) (*TokenPair, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperror.New(401, "invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperror.New(401, "invalid email or password")
	}

	return s.issueTokens(ctx, user)
}

func (s *userService) issueTokens(ctx context.Context, user *model.User) (*TokenPair, error) {
	roles := user.RoleNames()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"name":  user.Name,
		"roles": roles,
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := token.SignedString(middleware.GetJWTSecret())
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	refresh := model.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}
	if err := s.db.WithContext(ctx).Create(&refresh).Error; err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refresh.Token}, nil
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var stored model.RefreshToken
	if err := s.db.WithContext(ctx).First(&stored, "token = ?", refreshToken).Error; err != nil {
		return nil, apperror.New(401, "invalid refresh token")
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, apperror.New(401, "refresh token expired")
	}

	user, err := s.repo.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, apperror.New(401, "user no longer exists")
	}

	// Rotate: drop the used token before issuing a fresh pair
	if err := s.db.WithContext(ctx).Delete(&stored).Error; err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return s.issueTokens(ctx, user)
}

func (s *userService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.db.WithContext(ctx).Where("token = ?", refreshToken).Delete(&model.RefreshToken{}).Error
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Unprocessable("invalid user id")
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, search string, page, perPage int) ([]UserResponse, int64, error) {
	users, total, err := s.repo.List(ctx, search, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *mapToUserResponse(&users[i]))
	}
	return responses, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*UserResponse, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Unprocessable("invalid user id")
	}

	var user *model.User
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		found, findErr := s.repo.GetByID(txCtx, userID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return apperror.NotFound("user not found")
			}
			return fmt.Errorf("failed to load user: %w", findErr)
		}

		if req.Name != "" {
			found.Name = req.Name
		}
		if req.Email != "" && req.Email != found.Email {
			if _, emailErr := s.repo.GetByEmail(txCtx, req.Email); emailErr == nil {
				return apperror.Conflict("email already exists")
			}
			found.Email = req.Email
		}

		if saveErr := s.repo.Update(txCtx, found); saveErr != nil {
			return fmt.Errorf("failed to update user: %w", saveErr)
		}

		if len(req.Roles) > 0 {
			roles, rolesErr := s.resolveRoles(txCtx, req.Roles)
			if rolesErr != nil {
				return rolesErr
			}
			if assignErr := s.repo.ReplaceRoles(txCtx, found, roles); assignErr != nil {
				return fmt.Errorf("failed to assign roles: %w", assignErr)
			}
			found.Roles = roles
		}

		user = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	return mapToUserResponse(user), nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Unprocessable("invalid user id")
	}

	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("user not found")
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	return s.repo.Delete(ctx, userID)
}
