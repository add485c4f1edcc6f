package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/IvanKorch1289/foodgram/internal/apperror"
	"github.com/IvanKorch1289/foodgram/internal/models"
	"github.com/IvanKorch1289/foodgram/internal/types"
)

const (
	reservedUsername  = "me"
	minPasswordLength = 8
	tokenTTL          = 24 * time.Hour
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

var ErrInvalidToken = errors.New("invalid token")

// AuthService is the identity collaborator: registration, credential
// checks and JWT issue/validation.
type AuthService struct {
	db        *gorm.DB
	jwtSecret string
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{db: db, jwtSecret: jwtSecret}
}

type tokenClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Register validates the signup payload, enumerating every broken
// field, and creates the user.
func (s *AuthService) Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error) {
	fields := map[string]string{}

	if req.Email == "" {
		fields["email"] = "field must not be empty"
	}
	if req.FirstName == "" {
		fields["first_name"] = "field must not be empty"
	}
	if req.LastName == "" {
		fields["last_name"] = "field must not be empty"
	}
	if len(req.Password) < minPasswordLength {
		fields["password"] = "password must be at least 8 characters"
	}

	switch {
	case req.Username == "":
		fields["username"] = "field must not be empty"
	case req.Username == reservedUsername:
		fields["username"] = `username "me" is reserved`
	case !usernamePattern.MatchString(req.Username):
		fields["username"] = "username contains forbidden characters"
	}

	if req.Email != "" {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
			return nil, apperror.NewDatabase("failed to check email", err)
		}
		if count > 0 {
			fields["email"] = "a user with this email already exists"
		}
	}
	if _, taken := fields["username"]; !taken && req.Username != "" {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
			return nil, apperror.NewDatabase("failed to check username", err)
		}
		if count > 0 {
			fields["username"] = "a user with this username already exists"
		}
	}

	if len(fields) > 0 {
		return nil, apperror.NewValidation(fields)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.NewInternal("failed to hash password", err)
	}

	user := models.User{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hashed),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// The unique indexes win any race the checks above missed.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.NewConflict("user already exists")
		}
		return nil, apperror.NewDatabase("failed to create user", err)
	}

	return &user, nil
}

// Login checks the credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return "", apperror.NewAuth("invalid credentials", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperror.NewAuth("invalid credentials", nil)
	}
	return s.GenerateToken(user.ID, user.Username)
}

// GenerateToken issues a signed JWT for the user.
func (s *AuthService) GenerateToken(userID uuid.UUID, username string) (string, error) {
	claims := tokenClaims{
		UserID:   userID.String(),
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", apperror.NewInternal("failed to sign token", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &types.TokenClaims{UserID: userID, Username: claims.Username}, nil
}
