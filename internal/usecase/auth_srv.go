package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/dto/request"
	"venue-booking/internal/dto/response"
	"venue-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionMeta is recorded with each new session.
type SessionMeta struct {
	UserAgent string
	IPAddress string
}

type AuthService interface {
	SignUp(ctx context.Context, req *request.SignUpRequest, meta SessionMeta) (*response.AuthResponse, error)
	SignIn(ctx context.Context, req *request.SignInRequest, meta SessionMeta) (*response.AuthResponse, error)
	SignOut(ctx context.Context, userID, sessionID uuid.UUID) error
	GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*response.SessionResponse, error)
	OnAuthStateChange(fn AuthListener) (unsubscribe func())
	ResendVerificationEmail(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, req *request.VerifyEmailRequest) error
	ResetPassword(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, req *request.ConfirmPasswordResetRequest) error
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	mailer Mailer
	events *AuthEvents
	clock  Clock
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	mailer Mailer,
	events *AuthEvents,
	clock Clock,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		mailer: mailer,
		events: events,
		clock:  clock,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) SignUp(ctx context.Context, req *request.SignUpRequest, meta SessionMeta) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Sign up validation failed", zap.Any("errors", errs))
		return nil, validationError(utils.FormatValidationErrors(errs))
	}

	email := normalizeEmail(req.Email)

	existing, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, newError(ErrConflict, "email already registered")
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.clock.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		FullName:      strings.TrimSpace(req.FullName),
		Email:         email,
		PasswordHash:  hashed,
		Phone:         req.Phone,
		Role:          entity.UserRole(req.Role),
		EmailVerified: false,
		IsActive:      true,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(ErrConflict, "email already registered")
		}
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.issueCode(ctx, user, entity.PurposeEmailVerification); err != nil {
		// the account exists; the user can ask for a new code
		s.log.Warn("Failed to send verification code", zap.Error(err), zap.String("user_id", user.ID.String()))
	}

	resp, err := s.startSession(ctx, user, meta)
	if err != nil {
		return nil, err
	}

	s.log.Info("User signed up",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return resp, nil
}

func (s *authService) SignIn(ctx context.Context, req *request.SignInRequest, meta SessionMeta) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Sign in validation failed", zap.Any("errors", errs))
		return nil, validationError(utils.FormatValidationErrors(errs))
	}

	email := normalizeEmail(req.Email)

	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid credentials", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		s.log.Warn("Inactive user tried to sign in", zap.String("user_id", user.ID.String()))
		return nil, ErrAccountDeactivated
	}

	resp, err := s.startSession(ctx, user, meta)
	if err != nil {
		return nil, err
	}

	s.log.Info("User signed in", zap.String("user_id", user.ID.String()))
	return resp, nil
}

func (s *authService) SignOut(ctx context.Context, userID, sessionID uuid.UUID) error {
	if err := s.repo.Session.Revoke(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrNotAffected) {
			return newError(ErrUnauthenticated, "session already ended")
		}
		s.log.Error("Failed to revoke session", zap.Error(err), zap.String("session_id", sessionID.String()))
		return fmt.Errorf("revoke session: %w", err)
	}

	s.events.Emit(AuthSignedOut, userID)
	s.log.Info("User signed out", zap.String("user_id", userID.String()))
	return nil
}

func (s *authService) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*response.SessionResponse, error) {
	session, err := s.repo.Session.FindValidSession(ctx, sessionID)
	if err != nil {
		s.log.Error("Failed to load session", zap.Error(err), zap.String("session_id", sessionID.String()))
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil || session.UserID != userID {
		return nil, ErrAuthenticationRequired
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to load user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, ErrAuthenticationRequired
	}

	return &response.SessionResponse{
		SessionID: session.Token.String(),
		ExpiresAt: session.ExpiresAt,
		User:      response.UserToResponse(user),
	}, nil
}

func (s *authService) OnAuthStateChange(fn AuthListener) func() {
	return s.events.Subscribe(fn)
}

func (s *authService) ResendVerificationEmail(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		// do not reveal which emails are registered
		s.log.Info("Verification requested for unknown email", zap.String("email", email))
		return nil
	}
	if user.EmailVerified {
		return newError(ErrConflict, "email already verified")
	}

	return s.issueCode(ctx, user, entity.PurposeEmailVerification)
}

func (s *authService) VerifyEmail(ctx context.Context, req *request.VerifyEmailRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Verify email validation failed", zap.Any("errors", errs))
		return validationError(utils.FormatValidationErrors(errs))
	}

	code, err := s.consumeCode(ctx, normalizeEmail(req.Email), req.Code, entity.PurposeEmailVerification)
	if err != nil {
		return err
	}

	if err := s.repo.User.MarkEmailVerified(ctx, code.UserID); err != nil {
		s.log.Error("Failed to mark email verified", zap.Error(err), zap.String("user_id", code.UserID.String()))
		return fmt.Errorf("verify email: %w", err)
	}

	s.events.Emit(AuthUserUpdated, code.UserID)
	s.log.Info("Email verified", zap.String("user_id", code.UserID.String()))
	return nil
}

// ResetPassword issues a reset code. Unknown emails succeed silently.
func (s *authService) ResetPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil || !user.IsActive {
		s.log.Info("Password reset requested for unknown email", zap.String("email", email))
		return nil
	}

	if err := s.issueCode(ctx, user, entity.PurposePasswordReset); err != nil {
		return err
	}

	s.events.Emit(AuthPasswordRecovery, user.ID)
	return nil
}

// ConfirmPasswordReset sets the new password and ends every session.
func (s *authService) ConfirmPasswordReset(ctx context.Context, req *request.ConfirmPasswordResetRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Password reset validation failed", zap.Any("errors", errs))
		return validationError(utils.FormatValidationErrors(errs))
	}

	code, err := s.consumeCode(ctx, normalizeEmail(req.Email), req.Code, entity.PurposePasswordReset)
	if err != nil {
		return err
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.User.UpdatePassword(ctx, code.UserID, hashed); err != nil {
		s.log.Error("Failed to update password", zap.Error(err), zap.String("user_id", code.UserID.String()))
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.repo.Session.RevokeAllUserSessions(ctx, code.UserID); err != nil {
		s.log.Error("Failed to revoke sessions", zap.Error(err), zap.String("user_id", code.UserID.String()))
		return fmt.Errorf("revoke sessions: %w", err)
	}

	s.events.Emit(AuthSignedOut, code.UserID)
	s.log.Info("Password reset", zap.String("user_id", code.UserID.String()))
	return nil
}

// ==================== HELPER METHODS ====================

func (s *authService) startSession(ctx context.Context, user *entity.User, meta SessionMeta) (*response.AuthResponse, error) {
	now := s.clock.Now()
	expiresAt := now.Add(time.Duration(s.config.JWT.ExpiryHours) * time.Hour)

	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    user.ID,
		Token:     utils.GenerateSessionToken(),
		UserAgent: utils.ParseStringPtr(meta.UserAgent),
		IPAddress: utils.ParseStringPtr(meta.IPAddress),
		ExpiresAt: expiresAt,
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("create session: %w", err)
	}

	token, err := utils.GenerateAccessToken(s.config.JWT.Secret, user.ID, string(user.Role), session.Token, now, expiresAt)
	if err != nil {
		s.log.Error("Failed to sign access token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, err
	}

	s.events.Emit(AuthSignedIn, user.ID)

	return &response.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        response.UserToResponse(user),
	}, nil
}

// issueCode replaces any outstanding code of the same purpose and mails a new one.
func (s *authService) issueCode(ctx context.Context, user *entity.User, purpose entity.CodePurpose) error {
	if err := s.repo.VerificationCode.InvalidateAll(ctx, user.ID, purpose); err != nil {
		s.log.Error("Failed to invalidate codes", zap.Error(err), zap.String("user_id", user.ID.String()))
		return fmt.Errorf("invalidate codes: %w", err)
	}

	now := s.clock.Now()
	code := &entity.VerificationCode{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    user.ID,
		Email:     user.Email,
		Code:      utils.GenerateOTP(s.config.OTP.Length),
		Purpose:   purpose,
		ExpiresAt: now.Add(time.Duration(s.config.OTP.ExpiryMinutes) * time.Minute),
	}

	if err := s.repo.VerificationCode.Create(ctx, code); err != nil {
		s.log.Error("Failed to save code", zap.Error(err), zap.String("user_id", user.ID.String()))
		return fmt.Errorf("save code: %w", err)
	}

	subject, body := codeMail(purpose, code.Code, s.config.OTP.ExpiryMinutes)
	if err := s.mailer.Send(ctx, user.Email, subject, body); err != nil {
		s.log.Error("Failed to send code", zap.Error(err), zap.String("user_id", user.ID.String()))
		return fmt.Errorf("send code: %w", err)
	}

	s.log.Info("Code issued",
		zap.String("user_id", user.ID.String()),
		zap.String("purpose", string(purpose)),
		zap.Time("expires_at", code.ExpiresAt))
	return nil
}

func (s *authService) consumeCode(ctx context.Context, email, raw string, purpose entity.CodePurpose) (*entity.VerificationCode, error) {
	code, err := s.repo.VerificationCode.FindValid(ctx, email, raw, purpose)
	if err != nil {
		s.log.Error("Failed to find code", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("find code: %w", err)
	}
	if code == nil {
		s.log.Warn("Invalid code", zap.String("email", email), zap.String("purpose", string(purpose)))
		return nil, ErrInvalidCode
	}

	if err := s.repo.VerificationCode.MarkUsed(ctx, code.ID); err != nil {
		if errors.Is(err, repository.ErrNotAffected) {
			return nil, ErrInvalidCode
		}
		s.log.Error("Failed to mark code used", zap.Error(err), zap.String("code_id", code.ID.String()))
		return nil, fmt.Errorf("mark code used: %w", err)
	}

	return code, nil
}

func codeMail(purpose entity.CodePurpose, code string, minutes int) (string, string) {
	if purpose == entity.PurposePasswordReset {
		return "Reset your password",
			fmt.Sprintf("Your password reset code is %s. It expires in %d minutes.", code, minutes)
	}
	return "Verify your email",
		fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, minutes)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
