package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"barber-booking/internal/data/entity"
	"barber-booking/internal/dto/request"
	"barber-booking/pkg/apperror"
	"barber-booking/pkg/utils"
)

func registerReq() *request.RegisterRequest {
	phone := "987654321"
	return &request.RegisterRequest{
		FullName: "Luis Gómez",
		Username: "luis",
		Email:    "Luis@Example.com",
		Password: "secret123",
		Phone:    &phone,
	}
}

func TestRegisterThenVerifyEmail(t *testing.T) {
	env := newTestEnv(t)
	auth := env.authService()

	resp, err := auth.Register(context.Background(), registerReq(), request.SessionMeta{UserAgent: "test"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.User.Email != "luis@example.com" || resp.User.Role != entity.RoleClient || resp.User.EmailVerified {
		t.Fatalf("unexpected user %+v", resp.User)
	}

	claims, err := utils.ParseToken(env.config.JWT.Secret, resp.Token)
	if err != nil {
		t.Fatalf("token must parse: %v", err)
	}
	if claims.UserID.String() != resp.User.ID {
		t.Fatalf("token carries user %s, want %s", claims.UserID, resp.User.ID)
	}

	if len(env.notifier.verify) != 1 {
		t.Fatalf("expected one verification mail, got %d", len(env.notifier.verify))
	}
	code := env.notifier.verify[0].code
	if len(code) != 6 {
		t.Fatalf("expected a 6 digit code, got %q", code)
	}

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	if _, err := auth.VerifyEmail(context.Background(), claims.UserID, &request.VerifyEmailRequest{Code: wrong}); apperror.CodeOf(err) != apperror.CodeInvalidCode {
		t.Fatalf("expected invalid code, got %v", err)
	}

	user, err := auth.VerifyEmail(context.Background(), claims.UserID, &request.VerifyEmailRequest{Code: code})
	if err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}
	if !user.EmailVerified {
		t.Fatal("expected verified user")
	}

	if err := auth.RequestEmailVerification(context.Background(), claims.UserID); apperror.CodeOf(err) != apperror.CodeAlreadyVerified {
		t.Fatalf("expected already verified, got %v", err)
	}
}

func TestVerifyEmailRejectsExpiredCode(t *testing.T) {
	env := newTestEnv(t)
	auth := env.authService()

	resp, err := auth.Register(context.Background(), registerReq(), request.SessionMeta{})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	claims, _ := utils.ParseToken(env.config.JWT.Secret, resp.Token)

	env.now = env.now.Add(11 * time.Minute)
	_, err = auth.VerifyEmail(context.Background(), claims.UserID, &request.VerifyEmailRequest{Code: env.notifier.verify[0].code})
	if apperror.CodeOf(err) != apperror.CodeInvalidCode {
		t.Fatalf("expected expired code to be rejected, got %v", err)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	env := newTestEnv(t)
	auth := env.authService()

	dup := registerReq()
	dup.Email = env.client.Email
	if _, err := auth.Register(context.Background(), dup, request.SessionMeta{}); apperror.CodeOf(err) != apperror.CodeEmailTaken {
		t.Fatalf("expected email taken, got %v", err)
	}

	dup = registerReq()
	dup.Username = env.client.Username
	_, err := auth.Register(context.Background(), dup, request.SessionMeta{})
	if apperror.CodeOf(err) != apperror.CodeUsernameTaken || apperror.KindOf(err) != apperror.KindConflict {
		t.Fatalf("expected username conflict, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	auth := env.authService()

	if _, err := auth.Register(context.Background(), registerReq(), request.SessionMeta{}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	for _, credential := range []string{"luis", "luis@example.com", "987654321"} {
		resp, err := auth.Login(context.Background(), &request.LoginRequest{Credential: credential, Password: "secret123"}, request.SessionMeta{})
		if err != nil {
			t.Fatalf("login with %q: %v", credential, err)
		}
		if resp.Token == "" {
			t.Fatalf("login with %q returned no token", credential)
		}
	}

	_, err := auth.Login(context.Background(), &request.LoginRequest{Credential: "luis", Password: "wrong-pass"}, request.SessionMeta{})
	if apperror.KindOf(err) != apperror.KindUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	_, err = auth.Login(context.Background(), &request.LoginRequest{Credential: "nobody", Password: "secret123"}, request.SessionMeta{})
	if apperror.CodeOf(err) != apperror.CodeInvalidCredentials {
		t.Fatalf("unknown users must look like a bad password, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	env := newTestEnv(t)
	auth := env.authService()

	resp, err := auth.Register(context.Background(), registerReq(), request.SessionMeta{})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	claims, _ := utils.ParseToken(env.config.JWT.Secret, resp.Token)

	if err := auth.Logout(context.Background(), claims.SessionID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if env.sessions.sessions[claims.SessionID].RevokedAt == nil {
		t.Fatal("session must be revoked")
	}
	if err := auth.Logout(context.Background(), claims.SessionID); err != nil {
		t.Fatalf("logging out twice must be harmless: %v", err)
	}
}

func TestPasswordReset(t *testing.T) {
	env := newTestEnv(t)
	auth := env.authService()

	if err := auth.RequestPasswordReset(context.Background(), &request.PasswordResetRequest{Email: "ghost@example.com"}); err != nil {
		t.Fatalf("unknown emails must not be revealed: %v", err)
	}
	if len(env.notifier.reset) != 0 {
		t.Fatal("no mail for unknown accounts")
	}

	if _, err := auth.Register(context.Background(), registerReq(), request.SessionMeta{}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := auth.RequestPasswordReset(context.Background(), &request.PasswordResetRequest{Email: "luis@example.com"}); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	code := env.notifier.reset[0].code

	err := auth.ConfirmPasswordReset(context.Background(), &request.PasswordResetConfirmRequest{
		Email: "luis@example.com", Code: code, NewPassword: "newsecret",
	})
	if err != nil {
		t.Fatalf("ConfirmPasswordReset: %v", err)
	}

	if _, err := auth.Login(context.Background(), &request.LoginRequest{Credential: "luis", Password: "newsecret"}, request.SessionMeta{}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}

	err = auth.ConfirmPasswordReset(context.Background(), &request.PasswordResetConfirmRequest{
		Email: "luis@example.com", Code: code, NewPassword: "again123",
	})
	if apperror.CodeOf(err) != apperror.CodeInvalidCode {
		t.Fatalf("codes are single use, got %v", err)
	}
}

func TestBootstrapOwner(t *testing.T) {
	env := newTestEnv(t)
	env.config.Owner = utils.OwnerConfig{Email: "Boss@Barber.pe", Password: "owner-pass"}
	auth := env.authService()

	if err := auth.BootstrapOwner(context.Background()); err != nil {
		t.Fatalf("BootstrapOwner: %v", err)
	}
	owner, _ := env.users.FindByEmail(context.Background(), "boss@barber.pe")
	if owner == nil || !owner.IsOwner() || !owner.EmailVerified || owner.Username != "boss" {
		t.Fatalf("unexpected owner %+v", owner)
	}

	// Running again is a no-op.
	if err := auth.BootstrapOwner(context.Background()); err != nil {
		t.Fatalf("second BootstrapOwner: %v", err)
	}
	owners, _ := env.users.FindByRole(context.Background(), entity.RoleOwner, 10, 0)
	if len(owners) != 1 {
		t.Fatalf("expected one owner, got %d", len(owners))
	}
}

func TestBootstrapOwnerPromotesExistingAccount(t *testing.T) {
	env := newTestEnv(t)
	env.config.Owner = utils.OwnerConfig{Email: env.client.Email}
	auth := env.authService()

	if err := auth.BootstrapOwner(context.Background()); err != nil {
		t.Fatalf("BootstrapOwner: %v", err)
	}
	user, _ := env.users.FindByID(context.Background(), env.client.ID)
	if !user.IsOwner() {
		t.Fatal("expected the existing account to be promoted")
	}
}

func TestBootstrapOwnerRequiresPassword(t *testing.T) {
	env := newTestEnv(t)
	env.config.Owner = utils.OwnerConfig{Email: "boss@barber.pe"}

	if err := env.authService().BootstrapOwner(context.Background()); err == nil || errors.Is(err, apperror.ErrUserNotFound) {
		t.Fatalf("expected a configuration error, got %v", err)
	}
}
