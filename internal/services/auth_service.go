package services

import (
	"context"
	"fmt"
	"time"

	"dentastore/internal/models"
	"dentastore/internal/repositories/interfaces"
	"dentastore/internal/utils"
	"dentastore/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, request *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error)
	Logout(ctx context.Context, tokenID string) error
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)

	ChangePassword(ctx context.Context, userID primitive.ObjectID, request *ChangePasswordRequest) error
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, request *UpdateProfileRequest) (*models.User, error)
}

type authService struct {
	userRepo         interfaces.UserRepository
	cache            CacheService
	emailService     EmailService
	jwtSecret        string
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
	maxLoginAttempts int
	lockoutTime      time.Duration
	logger           *logger.Logger
}

type RegisterRequest struct {
	FirstName  string `json:"first_name" validate:"required,min=2,max=50"`
	LastName   string `json:"last_name" validate:"required,min=2,max=50"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone"`
	Password   string `json:"password" validate:"required,strong_password"`
	ClinicName string `json:"clinic_name"`
	SIRET      string `json:"siret" validate:"omitempty,siret"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,strong_password"`
}

type UpdateProfileRequest struct {
	FirstName       string          `json:"first_name" validate:"omitempty,min=2,max=50"`
	LastName        string          `json:"last_name" validate:"omitempty,min=2,max=50"`
	Phone           string          `json:"phone"`
	ClinicName      string          `json:"clinic_name"`
	SIRET           string          `json:"siret" validate:"omitempty,siret"`
	ShippingAddress *models.Address `json:"shipping_address"`
	BillingAddress  *models.Address `json:"billing_address"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
}

type TokenClaims struct {
	UserID    primitive.ObjectID `json:"user_id"`
	Role      string             `json:"role"`
	TokenType string             `json:"token_type"`
	jwt.RegisteredClaims
}

func NewAuthService(
	userRepo interfaces.UserRepository,
	cache CacheService,
	emailService EmailService,
	jwtSecret string,
	accessTokenTTL time.Duration,
	refreshTokenTTL time.Duration,
	maxLoginAttempts int,
	lockoutTime time.Duration,
	logger *logger.Logger,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		cache:            cache,
		emailService:     emailService,
		jwtSecret:        jwtSecret,
		accessTokenTTL:   accessTokenTTL,
		refreshTokenTTL:  refreshTokenTTL,
		maxLoginAttempts: maxLoginAttempts,
		lockoutTime:      lockoutTime,
		logger:           logger,
	}
}

func (s *authService) Register(ctx context.Context, request *RegisterRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	existing, _ := s.userRepo.GetByEmail(ctx, request.Email)
	if existing != nil {
		return nil, models.ErrDuplicateEmail
	}

	hashedPassword, err := s.hashPassword(request.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FirstName:  request.FirstName,
		LastName:   request.LastName,
		Email:      request.Email,
		Phone:      request.Phone,
		Password:   hashedPassword,
		Role:       models.UserRoleCustomer,
		Status:     models.UserStatusActive,
		ClinicName: request.ClinicName,
		SIRET:      request.SIRET,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.WithError(err).Error("Failed to create user")
		return nil, err
	}

	// Welcome email must not block registration
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.emailService.SendWelcomeEmail(bgCtx, user); err != nil {
			s.logger.WithError(err).WithUserID(user.ID).Warn("Failed to send welcome email")
		}
	}()

	s.logger.WithUserID(user.ID).Info("User registered")

	return s.buildAuthResponse(user)
}

func (s *authService) Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if s.isLoginLocked(ctx, request.Email) {
		return nil, fmt.Errorf("too many login attempts")
	}

	user, err := s.userRepo.GetByEmail(ctx, request.Email)
	if err != nil {
		s.recordFailedLogin(ctx, request.Email)
		return nil, fmt.Errorf("invalid credentials")
	}

	if user.Status != models.UserStatusActive {
		return nil, fmt.Errorf("account is not active")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(request.Password)); err != nil {
		s.recordFailedLogin(ctx, request.Email)
		return nil, fmt.Errorf("invalid credentials")
	}

	s.clearFailedLogins(ctx, request.Email)

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.WithError(err).WithUserID(user.ID).Warn("Failed to update last login")
	}

	s.logger.WithUserID(user.ID).Info("User logged in")

	return s.buildAuthResponse(user)
}

func (s *authService) Logout(ctx context.Context, tokenID string) error {
	// Blacklist the token id for the remaining access token lifetime
	blacklistKey := fmt.Sprintf("blacklist:%s", tokenID)
	return s.cache.Set(ctx, blacklistKey, true, s.accessTokenTTL)
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != "refresh" {
		return nil, fmt.Errorf("invalid token type")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	if user.Status != models.UserStatusActive {
		return nil, fmt.Errorf("account is not active")
	}

	return s.buildAuthResponse(user)
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*TokenClaims, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != "access" {
		return nil, fmt.Errorf("invalid token type")
	}

	blacklistKey := fmt.Sprintf("blacklist:%s", claims.ID)
	exists, _ := s.cache.Exists(ctx, blacklistKey)
	if exists {
		return nil, fmt.Errorf("token has been revoked")
	}

	return claims, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID primitive.ObjectID, request *ChangePasswordRequest) error {
	if err := utils.ValidateStruct(request); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(request.CurrentPassword)); err != nil {
		return fmt.Errorf("current password is incorrect")
	}

	hashedPassword, err := s.hashPassword(request.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return err
	}

	s.logger.WithUserID(userID).Info("Password changed")

	return nil
}

func (s *authService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *authService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, request *UpdateProfileRequest) (*models.User, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	updates := map[string]interface{}{}
	if request.FirstName != "" {
		updates["first_name"] = request.FirstName
	}
	if request.LastName != "" {
		updates["last_name"] = request.LastName
	}
	if request.Phone != "" {
		updates["phone"] = request.Phone
	}
	if request.ClinicName != "" {
		updates["clinic_name"] = request.ClinicName
	}
	if request.SIRET != "" {
		updates["siret"] = request.SIRET
	}
	if request.ShippingAddress != nil {
		updates["shipping_address"] = request.ShippingAddress
	}
	if request.BillingAddress != nil {
		updates["billing_address"] = request.BillingAddress
	}

	if len(updates) > 0 {
		if err := s.userRepo.Update(ctx, userID, updates); err != nil {
			return nil, err
		}
	}

	return s.userRepo.GetByID(ctx, userID)
}

// Helpers

func loginAttemptsKey(email string) string {
	return fmt.Sprintf("login_attempts:%s", email)
}

func (s *authService) isLoginLocked(ctx context.Context, email string) bool {
	if s.maxLoginAttempts <= 0 {
		return false
	}

	var attempts int64
	if err := s.cache.Get(ctx, loginAttemptsKey(email), &attempts); err != nil {
		return false
	}
	return attempts >= int64(s.maxLoginAttempts)
}

func (s *authService) recordFailedLogin(ctx context.Context, email string) {
	if s.maxLoginAttempts <= 0 {
		return
	}

	key := loginAttemptsKey(email)
	attempts, err := s.cache.Increment(ctx, key)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to record login attempt")
		return
	}
	if attempts == 1 {
		if err := s.cache.SetExpire(ctx, key, s.lockoutTime); err != nil {
			s.logger.WithError(err).Warn("Failed to set login attempts expiry")
		}
	}
}

func (s *authService) clearFailedLogins(ctx context.Context, email string) {
	if s.maxLoginAttempts <= 0 {
		return
	}
	if err := s.cache.Delete(ctx, loginAttemptsKey(email)); err != nil {
		s.logger.WithError(err).Warn("Failed to clear login attempts")
	}
}

func (s *authService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *authService) buildAuthResponse(user *models.User) (*AuthResponse, error) {
	accessToken, err := s.generateToken(user, "access", s.accessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.generateToken(user, "refresh", s.refreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTokenTTL.Seconds()),
	}, nil
}

func (s *authService) generateToken(user *models.User, tokenType string, ttl time.Duration) (string, error) {
	claims := &TokenClaims{
		UserID:    user.ID,
		Role:      string(user.Role),
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        utils.GenerateRandomString(16),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) parseToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}
