package services

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/startconnect/api/internal/app/models"
	"github.com/startconnect/api/internal/app/models/dto"
	"github.com/startconnect/api/internal/pkg/apperrors"
	"github.com/startconnect/api/internal/pkg/auth"
)

// verificationTokenTTL is how long an email verification token stays valid
const verificationTokenTTL = 24 * time.Hour

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, email, password string) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	VerifyEmail(ctx context.Context, token string) error
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	users      UserStore
	tokens     TokenStore
	teams      TeamStore
	jwtService *auth.JWTService
	redis      *redis.Client
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	users UserStore,
	tokens TokenStore,
	teams TeamStore,
	jwtService *auth.JWTService,
	redisClient *redis.Client,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		users:      users,
		tokens:     tokens,
		teams:      teams,
		jwtService: jwtService,
		redis:      redisClient,
		logger:     logger,
	}
}

// Register creates a new account with an unverified email and the profile
// matching the requested role
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	if !req.Role.IsValid() || req.Role == models.RoleAdmin {
		return nil, apperrors.NewBadRequestError("Role must be STUDENT or STARTUP")
	}

	exists, err := s.users.EmailExists(ctx, req.Email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", req.Email).Msg("Failed to check email existence")
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, err
	}

	verificationToken := uuid.New().String()
	tokenExpiry := time.Now().Add(verificationTokenTTL)

	user := &models.User{
		Name:                    req.Name,
		Email:                   req.Email,
		Password:                hashedPassword,
		Role:                    req.Role,
		VerificationToken:       &verificationToken,
		VerificationTokenExpiry: &tokenExpiry,
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	switch req.Role {
	case models.RoleStudent:
		err = s.users.CreateStudentProfile(ctx, user.ID)
	case models.RoleStartup:
		err = s.users.CreateStartupProfile(ctx, user.ID, req.CompanyName)
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to create role profile")
		return nil, err
	}

	// A startup account starts with its own team, leading alone until it
	// invites students
	if req.Role == models.RoleStartup {
		team := &models.Team{
			Name:      req.CompanyName,
			LeaderID:  user.ID,
			CompanyID: &user.ID,
		}
		if _, err := s.teams.Create(ctx, team); err != nil {
			s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to create startup team")
			return nil, err
		}
	}

	// Mail delivery lives outside this service; the token is logged so
	// operators can verify accounts in environments without a mailer
	s.logger.Info().
		Int64("userID", user.ID).
		Str("email", user.Email).
		Str("verificationToken", verificationToken).
		Msg("User registered, verification pending")

	return dto.ToUserResponse(user), nil
}

// Login authenticates a verified user and issues a token pair
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, apperrors.ErrEmailNotVerified
	}

	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to generate token pair")
		return nil, err
	}

	if err := s.tokens.CreateToken(ctx, refreshToken, user.ID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Msg("User logged in")

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken:           accessToken,
			TokenType:             "Bearer",
			ExpiresIn:             int64(expiresIn),
			RefreshToken:          refreshToken,
			RefreshTokenExpiresIn: int64(refreshExpiresIn),
		},
		User: dto.ToUserResponse(user),
	}, nil
}

// RefreshToken rotates a refresh token and issues a new token pair
func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	userID, _, err := s.tokens.GetTokenByValue(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// One-time use: the presented token is revoked before the new pair
	// is stored
	if err := s.tokens.RevokeToken(ctx, refreshToken); err != nil {
		return nil, err
	}

	accessToken, newRefreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to generate token pair")
		return nil, err
	}

	if err := s.tokens.CreateToken(ctx, newRefreshToken, user.ID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:           accessToken,
		TokenType:             "Bearer",
		ExpiresIn:             int64(expiresIn),
		RefreshToken:          newRefreshToken,
		RefreshTokenExpiresIn: int64(refreshExpiresIn),
	}, nil
}

// Logout revokes the refresh token and blacklists the access token until
// its natural expiry
func (s *authServiceImpl) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if refreshToken != "" {
		if err := s.tokens.RevokeToken(ctx, refreshToken); err != nil &&
			!apperrors.Is(err, apperrors.ErrTokenNotFound, apperrors.ErrTokenRevoked, apperrors.ErrTokenExpired) {
			return err
		}
	}

	if s.redis == nil || accessToken == "" {
		return nil
	}

	claims, err := s.jwtService.ValidateToken(accessToken)
	if err != nil {
		// Already invalid tokens need no blacklisting
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}

	if err := s.redis.Set(ctx, "blacklist:"+accessToken, "1", ttl).Err(); err != nil {
		s.logger.Error().Err(err).Int64("userID", claims.UserID).Msg("Failed to blacklist access token")
		return err
	}

	s.logger.Info().Int64("userID", claims.UserID).Msg("User logged out")

	return nil
}

// VerifyEmail verifies an account using the emailed token
func (s *authServiceImpl) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.users.GetByVerificationToken(ctx, token)
	if err != nil {
		return apperrors.ErrInvalidEmailToken
	}

	if user.IsVerified {
		return apperrors.ErrEmailAlreadyVerified
	}

	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to mark user verified")
		return err
	}

	s.logger.Info().Int64("userID", user.ID).Msg("Email verified")

	return nil
}
