package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"rental-booking/internal/data/entity"
	"rental-booking/internal/data/repository"
	"rental-booking/internal/dto/request"
	"rental-booking/internal/dto/response"
	"rental-booking/internal/notification"
	"rental-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Signup(ctx context.Context, req *request.SignupRequest) (*response.SignupResponse, error)
	VerifyOTP(ctx context.Context, req *request.VerifyOTPRequest) error
	ResendOTP(ctx context.Context, req *request.ResendOTPRequest) error
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	repo     *repository.Repository
	notifier Notifications
	config   *utils.Config
	log      *zap.Logger
	now      func() time.Time
}

func NewAuthService(
	repo *repository.Repository,
	notifier Notifications,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:     repo,
		notifier: notifier,
		config:   config,
		log:      log.With(zap.String("service", "auth")),
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Signup(ctx context.Context, req *request.SignupRequest) (*response.SignupResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Signup validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	email := normalizeEmail(req.Email)
	existing, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, newError(ErrConflict, "Email already exists")
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &entity.User{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		FullName:      strings.TrimSpace(req.Name),
		Email:         email,
		PasswordHash:  hashedPassword,
		Phone:         utils.NormalizePhone(req.Phone),
		Address:       strings.TrimSpace(req.Address),
		Role:          entity.RoleCustomer,
		EmailVerified: false,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	// The account is useless without a code, so a failed email undoes it.
	if err := s.issueOTP(ctx, user); err != nil {
		if delErr := s.repo.User.Delete(ctx, user.ID); delErr != nil {
			s.log.Error("Failed to remove account after OTP failure",
				zap.Error(delErr), zap.String("user_id", user.ID.String()))
		}
		if errors.Is(err, ErrNotification) {
			return nil, newError(ErrNotification, "Failed to send verification email. Please try again.")
		}
		return nil, err
	}

	s.log.Info("User signed up",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return &response.SignupResponse{UserID: user.ID.String()}, nil
}

func (s *authService) VerifyOTP(ctx context.Context, req *request.VerifyOTPRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationError(errs)
	}

	user, err := s.repo.User.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return newError(ErrNotFound, "User not found")
	}
	if user.EmailVerified {
		return newError(ErrValidation, "Email already verified")
	}

	otp, err := s.repo.OTP.FindLatest(ctx, user.Email, entity.OTPTypeEmailVerification)
	if err != nil {
		return fmt.Errorf("find OTP: %w", err)
	}
	if otp == nil {
		return newError(ErrValidation, "Invalid OTP")
	}
	if otp.Expired(s.now()) {
		return newError(ErrValidation, "OTP expired. Please request a new one.")
	}
	if subtle.ConstantTimeCompare([]byte(otp.OTPCode), []byte(strings.TrimSpace(req.OTP))) != 1 {
		return newError(ErrValidation, "Invalid OTP")
	}

	if err := s.repo.OTP.MarkAsUsed(ctx, otp.ID); err != nil {
		s.log.Warn("Failed to mark OTP as used", zap.Error(err), zap.String("otp_id", otp.ID.String()))
	}

	user.EmailVerified = true
	user.UpdatedAt = s.now()
	if err := s.repo.User.Update(ctx, user); err != nil {
		return fmt.Errorf("mark email verified: %w", err)
	}

	s.log.Info("Email verified", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *authService) ResendOTP(ctx context.Context, req *request.ResendOTPRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationError(errs)
	}

	user, err := s.repo.User.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return newError(ErrNotFound, "User not found")
	}
	if user.EmailVerified {
		return newError(ErrValidation, "Email already verified")
	}

	if s.repo.Throttle != nil && s.config.OTP.ResendLimit > 0 {
		allowed, err := s.repo.Throttle.Allow(ctx, "otp:"+user.Email, s.config.OTP.ResendLimit, s.config.OTP.ResendWindow)
		if err != nil {
			// fails open
			s.log.Warn("OTP throttle unavailable", zap.Error(err))
		} else if !allowed {
			return newError(ErrTooManyRequests, "Too many OTP requests. Please try again later.")
		}
	}

	if err := s.issueOTP(ctx, user); err != nil {
		if errors.Is(err, ErrNotification) {
			return newError(ErrNotification, "Failed to send verification email")
		}
		return err
	}
	return nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	user, err := s.repo.User.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid login attempt", zap.String("email", req.Email))
		return nil, newError(ErrValidation, "Invalid credentials")
	}

	if !user.IsAdmin() && !user.EmailVerified {
		return nil, newError(ErrForbidden, "Please verify your email before logging in. Check your inbox for the OTP.")
	}

	session, err := s.createSession(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))

	resp := response.AuthToResponse(user, session)
	return &resp, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	tokenUUID, err := uuid.Parse(token)
	if err != nil {
		return newError(ErrValidation, "Invalid token format")
	}

	if err := s.repo.Session.Revoke(ctx, tokenUUID.String()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrUnauthorized, "Session already ended")
		}
		return fmt.Errorf("revoke session: %w", err)
	}

	s.log.Info("User logged out")
	return nil
}

// issueOTP stores a fresh code and emails it. Delivery failures are wrapped
// in ErrNotification.
func (s *authService) issueOTP(ctx context.Context, user *entity.User) error {
	now := s.now()
	expiresIn := time.Duration(s.config.OTP.ExpiryMinutes) * time.Minute

	otp := &entity.OTP{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    user.ID,
		Email:     user.Email,
		OTPCode:   utils.GenerateOTP(s.config.OTP.Length),
		OTPType:   entity.OTPTypeEmailVerification,
		ExpiresAt: now.Add(expiresIn),
	}

	if err := s.repo.OTP.Create(ctx, otp); err != nil {
		return fmt.Errorf("save OTP: %w", err)
	}

	err := s.notifier.SendOTP(ctx, notification.OTPMessage{
		To:        user.Email,
		Name:      user.FullName,
		Code:      otp.OTPCode,
		ExpiresIn: expiresIn,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotification, err)
	}
	return nil
}

func (s *authService) createSession(ctx context.Context, user *entity.User) (*entity.Session, error) {
	now := s.now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    user.ID,
		Token:     uuid.New(),
		ExpiresAt: now.Add(time.Duration(s.config.Session.ExpiryHours) * time.Hour),
		Role:      user.Role,
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
