package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/brewtab/coffeehouse-backend/internal/app/model"
	"github.com/brewtab/coffeehouse-backend/internal/app/repository"
	"github.com/brewtab/coffeehouse-backend/internal/validation"
	"github.com/brewtab/coffeehouse-backend/pkg/logger"
	"github.com/brewtab/coffeehouse-backend/pkg/util"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrUserNotFound       = errors.New("user not found")
)

// LoginResult carries everything the client needs after authentication.
type LoginResult struct {
	User         *model.User
	Token        string
	RedirectPath string
}

type AuthService interface {
	Register(email, password, name, phone string) (*LoginResult, error)
	Login(email, password string) (*LoginResult, error)
	GetUserByID(id uint) (*model.User, error)
	UpdateProfile(userID uint, name, phone, addressLine, city, postalCode string) (*model.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtSecret  string
	jwtExpiry  time.Duration
	bcryptCost int
}

func NewAuthService(
	userRepo repository.UserRepository,
	jwtSecret string,
	jwtExpiry time.Duration,
	bcryptCost int,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtSecret:  jwtSecret,
		jwtExpiry:  jwtExpiry,
		bcryptCost: bcryptCost,
	}
}

func (s *authService) Register(email, password, name, phone string) (*LoginResult, error) {
	logger.Info("Attempting user registration", map[string]interface{}{
		"email": email,
		"name":  name,
	})

	// Check if user already exists
	existingUser, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}
	if existingUser != nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(password, s.bcryptCost)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hashedPassword,
		Name:         name,
		Phone:        phone,
		Role:         model.RoleCustomer,
		IsActive:     true,
	}

	if err := validation.Validate(user); err != nil {
		logger.Warn("Registration failed: invalid user data", map[string]interface{}{
			"email":  email,
			"errors": err.Error(),
		})
		return nil, err
	}

	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	token, err := util.GenerateToken(user.ID, user.Email, string(user.Role), s.jwtSecret, s.jwtExpiry)
	if err != nil {
		logger.Error("Failed to generate token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
		"role":    user.Role,
	})

	return &LoginResult{
		User:         user,
		Token:        token,
		RedirectPath: user.Role.RedirectPath(),
	}, nil
}

func (s *authService) Login(email, password string) (*LoginResult, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			// Same sentinel for unknown email and bad password
			return nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user by email", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"email": email,
		})
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		logger.Warn("Login failed: account deactivated", map[string]interface{}{
			"user_id": user.ID,
			"email":   email,
		})
		return nil, ErrAccountDeactivated
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(user.ID, now); err != nil {
		logger.Error("Failed to update last login", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}
	user.LastLogin = &now

	token, err := util.GenerateToken(user.ID, user.Email, string(user.Role), s.jwtSecret, s.jwtExpiry)
	if err != nil {
		logger.Error("Failed to generate token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}

	logger.Info("Login successful", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
		"role":    user.Role,
	})

	return &LoginResult{
		User:         user,
		Token:        token,
		RedirectPath: user.Role.RedirectPath(),
	}, nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(userID uint, name, phone, addressLine, city, postalCode string) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if phone != "" {
		user.Phone = phone
	}
	if addressLine != "" {
		user.AddressLine = addressLine
	}
	if city != "" {
		user.City = city
	}
	if postalCode != "" {
		user.PostalCode = postalCode
	}

	if err := validation.Validate(user); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to update user profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User profile updated", map[string]interface{}{
		"user_id": userID,
	})
	return user, nil
}
