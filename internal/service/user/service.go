package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/user"
	"github.com/cmlabs-hris/workforce-attendance/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceImpl struct {
	user.UserRepository
}

func NewUserService(userRepo user.UserRepository) user.UserService {
	return &UserServiceImpl{UserRepository: userRepo}
}

func (s *UserServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// hrCaller returns the caller when they are HR.
func hrCaller(ctx context.Context) (jwt.Caller, error) {
	caller, err := jwt.CallerFromContext(ctx)
	if err != nil {
		return jwt.Caller{}, err
	}
	if caller.Role != user.RoleHR {
		return jwt.Caller{}, user.ErrHRAccessRequired
	}
	return caller, nil
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context, role *user.Role) ([]user.UserResponse, error) {
	caller, err := jwt.CallerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if role != nil && !role.IsValid() {
		return nil, user.ErrInvalidRole
	}

	users, err := s.UserRepository.ListByCompany(ctx, caller.CompanyID, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, user.NewUserResponse(u))
	}
	return responses, nil
}

// Get implements user.UserService.
func (s *UserServiceImpl) Get(ctx context.Context, id string) (user.UserResponse, error) {
	caller, err := jwt.CallerFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}

	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	if u.CompanyID != caller.CompanyID {
		return user.UserResponse{}, user.ErrUserNotFound
	}
	return user.NewUserResponse(u), nil
}

// Create implements user.UserService.
func (s *UserServiceImpl) Create(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	caller, err := hrCaller(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	language := user.LanguageEnglish
	if req.Language != "" {
		language = user.Language(req.Language)
	}

	created, err := s.UserRepository.Create(ctx, user.User{
		CompanyID:    caller.CompanyID,
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         user.Role(req.Role),
		Language:     language,
	})
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(created), nil
}

// Update implements user.UserService. A blank password keeps the stored hash.
func (s *UserServiceImpl) Update(ctx context.Context, req user.UpdateUserRequest) (user.UserResponse, error) {
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		req.Email = &email
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	caller, err := hrCaller(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}

	var passwordHash *string
	if req.HasNewPassword() {
		hash, err := s.hashPassword(*req.Password)
		if err != nil {
			return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
		}
		passwordHash = &hash
	}
	updated, err := s.UserRepository.Update(ctx, caller.CompanyID, req, passwordHash)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(updated), nil
}

// Delete implements user.UserService.
func (s *UserServiceImpl) Delete(ctx context.Context, id string) error {
	caller, err := hrCaller(ctx)
	if err != nil {
		return err
	}
	if id == caller.UserID {
		return user.ErrCannotDeleteSelf
	}
	return s.UserRepository.Delete(ctx, caller.CompanyID, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
