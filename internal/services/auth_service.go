package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/meeting-scheduler-api/internal/constants"
	"github.com/yukikurage/meeting-scheduler-api/internal/models"
	"github.com/yukikurage/meeting-scheduler-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameRequired     = errors.New("username is required")
	ErrUsernameTaken        = errors.New("username or email already exists")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateUser   = errors.New("failed to create employee")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	employeeRepo repository.EmployeeRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(employeeRepo repository.EmployeeRepository) *AuthService {
	return &AuthService{
		employeeRepo: employeeRepo,
	}
}

// SignupInput represents the required information to register an employee.
type SignupInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// Signup registers a new employee.
func (s *AuthService) Signup(input SignupInput) (*models.Employee, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.employeeRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	firstName := strings.TrimSpace(input.FirstName)
	if firstName == "" {
		firstName = username
	}

	employee := &models.Employee{
		Username:     username,
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		FirstName:    firstName,
		LastName:     strings.TrimSpace(input.LastName),
		PasswordHash: string(hashedPassword),
	}

	if err := s.employeeRepo.Create(employee); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, ErrFailedToCreateUser
	}

	return employee, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and returns the authenticated employee.
func (s *AuthService) Login(input LoginInput) (*models.Employee, error) {
	employee, err := s.employeeRepo.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return employee, nil
}

// GetEmployee retrieves an employee by ID.
func (s *AuthService) GetEmployee(id uint64) (*models.Employee, error) {
	employee, err := s.employeeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}

	return employee, nil
}
