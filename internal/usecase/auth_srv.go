package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"barber-booking/internal/data/entity"
	"barber-booking/internal/data/repository"
	"barber-booking/internal/dto/request"
	"barber-booking/internal/dto/response"
	"barber-booking/pkg/apperror"
	"barber-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest, meta request.SessionMeta) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest, meta request.SessionMeta) (*response.AuthResponse, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
	RequestEmailVerification(ctx context.Context, userID uuid.UUID) error
	VerifyEmail(ctx context.Context, userID uuid.UUID, req *request.VerifyEmailRequest) (*response.UserResponse, error)
	RequestPasswordReset(ctx context.Context, req *request.PasswordResetRequest) error
	ConfirmPasswordReset(ctx context.Context, req *request.PasswordResetConfirmRequest) error
	// BootstrapOwner creates or promotes the configured owner account.
	BootstrapOwner(ctx context.Context) error
}

type authService struct {
	repo     *repository.Repository
	notifier AccountNotifier
	config   *utils.Config
	now      func() time.Time
	log      *zap.Logger
}

func NewAuthService(repo *repository.Repository, notifier AccountNotifier, config *utils.Config, log *zap.Logger) AuthService {
	return &authService{
		repo:     repo,
		notifier: notifier,
		config:   config,
		now:      time.Now,
		log:      log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest, meta request.SessionMeta) (*response.AuthResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Register validation failed", zap.Error(err))
		return nil, err
	}

	email := normalizeEmail(req.Email)
	username := strings.TrimSpace(req.Username)
	phone := trimmedOrNil(req.Phone)

	if err := s.ensureUnique(ctx, email, username, phone); err != nil {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, apperror.Internal(err, "failed to process password")
	}

	now := s.now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		FullName:      strings.TrimSpace(req.FullName),
		Username:      username,
		Email:         email,
		PasswordHash:  hashedPassword,
		Phone:         phone,
		Role:          entity.RoleClient,
		EmailVerified: false,
		IsActive:      true,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict(apperror.CodeEmailTaken, "account already exists")
		}
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", email))
		return nil, apperror.Internal(err, "failed to create account")
	}

	// The account exists either way; the client can ask for another code.
	if err := s.issueCode(ctx, user, entity.PurposeEmailVerification); err != nil {
		s.log.Warn("Failed to issue verification code after register",
			zap.Error(err), zap.String("user_id", user.ID.String()))
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return s.openSession(ctx, user, meta)
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, meta request.SessionMeta) (*response.AuthResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	credential := strings.TrimSpace(req.Credential)
	user, err := s.repo.User.FindByCredential(ctx, credential)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err))
		return nil, apperror.Internal(err, "failed to log in")
	}

	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid login attempt", zap.String("credential", credential))
		return nil, apperror.Unauthorized(apperror.CodeInvalidCredentials, "invalid credentials")
	}

	if !user.IsActive {
		s.log.Warn("Inactive user tried to login", zap.String("user_id", user.ID.String()))
		return nil, apperror.New(apperror.KindForbidden, apperror.CodeAccountInactive, "account is deactivated")
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return s.openSession(ctx, user, meta)
}

func (s *authService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.repo.Session.Revoke(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		s.log.Error("Failed to revoke session", zap.Error(err), zap.String("session_id", sessionID.String()))
		return apperror.Internal(err, "failed to logout")
	}

	s.log.Info("User logged out", zap.String("session_id", sessionID.String()))
	return nil
}

func (s *authService) RequestEmailVerification(ctx context.Context, userID uuid.UUID) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return apperror.Conflict(apperror.CodeAlreadyVerified, "email already verified")
	}

	if err := s.issueCode(ctx, user, entity.PurposeEmailVerification); err != nil {
		s.log.Error("Failed to issue verification code", zap.Error(err), zap.String("user_id", userID.String()))
		return apperror.Internal(err, "failed to send verification code")
	}
	return nil
}

func (s *authService) VerifyEmail(ctx context.Context, userID uuid.UUID, req *request.VerifyEmailRequest) (*response.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.EmailVerified {
		return nil, apperror.Conflict(apperror.CodeAlreadyVerified, "email already verified")
	}

	if err := s.consumeCode(ctx, user, entity.PurposeEmailVerification, req.Code); err != nil {
		return nil, err
	}

	user.EmailVerified = true
	user.UpdatedAt = s.now()
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to mark email verified", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, apperror.Internal(err, "failed to verify email")
	}

	s.log.Info("Email verified", zap.String("user_id", userID.String()))

	resp := response.UserToResponse(user)
	return &resp, nil
}

// RequestPasswordReset never reveals whether the email belongs to an account.
func (s *authService) RequestPasswordReset(ctx context.Context, req *request.PasswordResetRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	email := normalizeEmail(req.Email)
	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to find user for password reset", zap.Error(err))
		return apperror.Internal(err, "failed to request password reset")
	}
	if user == nil || !user.IsActive {
		s.log.Info("Password reset requested for unknown account")
		return nil
	}

	if err := s.issueCode(ctx, user, entity.PurposePasswordReset); err != nil {
		s.log.Error("Failed to issue password reset code", zap.Error(err), zap.String("user_id", user.ID.String()))
		return apperror.Internal(err, "failed to request password reset")
	}
	return nil
}

func (s *authService) ConfirmPasswordReset(ctx context.Context, req *request.PasswordResetConfirmRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	user, err := s.repo.User.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		s.log.Error("Failed to find user for password reset", zap.Error(err))
		return apperror.Internal(err, "failed to reset password")
	}
	if user == nil {
		return apperror.BadRequest(apperror.CodeInvalidCode, "invalid or expired code")
	}

	if err := s.consumeCode(ctx, user, entity.PurposePasswordReset, req.Code); err != nil {
		return err
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return apperror.Internal(err, "failed to process password")
	}

	user.PasswordHash = hashedPassword
	user.UpdatedAt = s.now()
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to update password", zap.Error(err), zap.String("user_id", user.ID.String()))
		return apperror.Internal(err, "failed to reset password")
	}

	if err := s.repo.Session.RevokeAllUserSessions(ctx, user.ID); err != nil {
		s.log.Warn("Failed to revoke sessions after password reset",
			zap.Error(err), zap.String("user_id", user.ID.String()))
	}

	s.log.Info("Password reset", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *authService) BootstrapOwner(ctx context.Context) error {
	cfg := s.config.Owner
	if cfg.Email == "" {
		return nil
	}
	email := normalizeEmail(cfg.Email)

	existing, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	now := s.now()
	if existing != nil {
		if existing.IsOwner() && existing.EmailVerified {
			return nil
		}
		existing.Role = entity.RoleOwner
		existing.EmailVerified = true
		existing.UpdatedAt = now
		if err := s.repo.User.Update(ctx, existing); err != nil {
			return err
		}
		s.log.Info("Existing account promoted to owner", zap.String("user_id", existing.ID.String()))
		return nil
	}

	if cfg.Password == "" {
		return errors.New("OWNER_PASSWORD is required to create the owner account")
	}
	hashedPassword, err := utils.HashPassword(cfg.Password)
	if err != nil {
		return err
	}

	username := cfg.Username
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}
	fullName := cfg.FullName
	if fullName == "" {
		fullName = username
	}

	owner := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		FullName:      fullName,
		Username:      username,
		Email:         email,
		PasswordHash:  hashedPassword,
		Role:          entity.RoleOwner,
		EmailVerified: true,
		IsActive:      true,
	}
	if err := s.repo.User.Create(ctx, owner); err != nil {
		return err
	}

	s.log.Info("Owner account created", zap.String("user_id", owner.ID.String()), zap.String("email", email))
	return nil
}

// ==================== HELPER METHODS ====================

func (s *authService) ensureUnique(ctx context.Context, email, username string, phone *string) error {
	existing, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", email))
		return apperror.Internal(err, "failed to create account")
	}
	if existing != nil {
		return apperror.Conflict(apperror.CodeEmailTaken, "email already registered")
	}

	existing, err = s.repo.User.FindByUsername(ctx, username)
	if err != nil {
		s.log.Error("Failed to check username", zap.Error(err), zap.String("username", username))
		return apperror.Internal(err, "failed to create account")
	}
	if existing != nil {
		return apperror.Conflict(apperror.CodeUsernameTaken, "username already taken")
	}

	if phone != nil {
		existing, err = s.repo.User.FindByPhone(ctx, *phone)
		if err != nil {
			s.log.Error("Failed to check phone", zap.Error(err))
			return apperror.Internal(err, "failed to create account")
		}
		if existing != nil {
			return apperror.Conflict(apperror.CodePhoneTaken, "phone already registered")
		}
	}
	return nil
}

func (s *authService) findUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, apperror.Internal(err, "failed to find user")
	}
	if user == nil {
		return nil, apperror.ErrUserNotFound
	}
	return user, nil
}

func (s *authService) openSession(ctx context.Context, user *entity.User, meta request.SessionMeta) (*response.AuthResponse, error) {
	now := s.now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    user.ID,
		UserAgent: trimmedOrNil(&meta.UserAgent),
		IPAddress: trimmedOrNil(&meta.IPAddress),
		ExpiresAt: now.Add(time.Duration(s.config.JWT.ExpiryHours) * time.Hour),
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, apperror.Internal(err, "failed to create session")
	}

	token, err := utils.GenerateToken(s.config.JWT.Secret, user.ID, string(user.Role), session.ID, session.ExpiresAt)
	if err != nil {
		s.log.Error("Failed to sign token", zap.Error(err))
		return nil, apperror.Internal(err, "failed to create session")
	}

	return &response.AuthResponse{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		User:      response.UserToResponse(user),
	}, nil
}

// issueCode replaces any pending code for purpose with a fresh one and mails it.
func (s *authService) issueCode(ctx context.Context, user *entity.User, purpose entity.CodePurpose) error {
	if err := s.repo.Code.InvalidateAll(ctx, user.ID, purpose); err != nil {
		return err
	}

	code, err := utils.GenerateCode(s.config.OTP.Length)
	if err != nil {
		return err
	}
	codeHash, err := utils.HashPassword(code)
	if err != nil {
		return err
	}

	ttl := time.Duration(s.config.OTP.ExpiryMinutes) * time.Minute
	now := s.now()
	record := &entity.VerificationCode{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    user.ID,
		CodeHash:  codeHash,
		Purpose:   purpose,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.repo.Code.Create(ctx, record); err != nil {
		return err
	}

	switch purpose {
	case entity.PurposePasswordReset:
		s.notifier.PasswordResetCode(user, code, ttl)
	default:
		s.notifier.VerificationCode(user, code, ttl)
	}

	s.log.Info("Verification code issued",
		zap.String("user_id", user.ID.String()),
		zap.String("purpose", string(purpose)),
		zap.Time("expires_at", record.ExpiresAt),
	)
	return nil
}

func (s *authService) consumeCode(ctx context.Context, user *entity.User, purpose entity.CodePurpose, code string) error {
	invalid := apperror.BadRequest(apperror.CodeInvalidCode, "invalid or expired code")

	record, err := s.repo.Code.FindLatestActive(ctx, user.ID, purpose)
	if err != nil {
		s.log.Error("Failed to load verification code", zap.Error(err), zap.String("user_id", user.ID.String()))
		return apperror.Internal(err, "failed to check code")
	}
	if record == nil || !s.now().Before(record.ExpiresAt) {
		return invalid
	}
	if !utils.CheckPasswordHash(code, record.CodeHash) {
		s.log.Warn("Wrong verification code", zap.String("user_id", user.ID.String()), zap.String("purpose", string(purpose)))
		return invalid
	}

	if err := s.repo.Code.MarkAsUsed(ctx, record.ID); err != nil {
		s.log.Error("Failed to mark code as used", zap.Error(err), zap.String("code_id", record.ID.String()))
		return apperror.Internal(err, "failed to check code")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
