package services

import (
	"errors"

	"github.com/codecritic/codecritic/internal/config"
	"github.com/codecritic/codecritic/internal/models"
	"github.com/codecritic/codecritic/internal/utils"
	"github.com/codecritic/codecritic/pkg/response"
	"gorm.io/gorm"
)

type AuthService struct {
	db        *gorm.DB
	jwtConfig *config.JWTConfig
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig) *AuthService {
	return &AuthService{db: db, jwtConfig: jwtCfg}
}

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Contact  string `json:"contact" binding:"required"`
}

// Signup creates a new account. Duplicate email or contact and oversized
// passwords are client errors; the password is stored as a bcrypt hash.
func (s *AuthService) Signup(req *SignupRequest) (*models.Account, error) {
	var existing models.Account
	err := s.db.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return nil, response.NewBadRequest("Email already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if utils.PasswordTooLong(req.Password) {
		return nil, response.NewBadRequest("Password too long, max 72 bytes")
	}

	err = s.db.Where("contact = ?", req.Contact).First(&existing).Error
	if err == nil {
		return nil, response.NewBadRequest("Contact already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	account := models.Account{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashed,
		Contact:  req.Contact,
	}
	if err := s.db.Create(&account).Error; err != nil {
		return nil, err
	}

	return &account, nil
}

// Login verifies credentials and issues a time-boxed token bound to the
// account's email. Unknown email and wrong password are indistinguishable
// to the caller.
func (s *AuthService) Login(email, password string) (string, error) {
	var account models.Account
	if err := s.db.Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", response.NewUnauthorized("Invalid credentials")
		}
		return "", err
	}

	if !utils.CheckPassword(password, account.Password) {
		return "", response.NewUnauthorized("Invalid credentials")
	}

	return utils.GenerateToken(account.Email, s.jwtConfig.ExpireMinutes)
}

// GetAccountByEmail resolves an email to its account.
func (s *AuthService) GetAccountByEmail(email string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("email = ?", email).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}
