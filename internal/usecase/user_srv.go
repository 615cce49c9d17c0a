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

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req *request.ChangePasswordRequest) error
	GetClients(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	DeleteUser(ctx context.Context, userID string) error
}

type userService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	log         *zap.Logger
}

func NewUserService(repo *repository.Repository, log *zap.Logger) UserService {
	return &userService{
		userRepo:    repo.User,
		sessionRepo: repo.Session,
		log:         log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := us.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := us.find(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Phone != nil {
		phone := trimmedOrNil(req.Phone)
		if phone != nil {
			other, err := us.userRepo.FindByPhone(ctx, *phone)
			if err != nil {
				us.log.Error("Failed to check phone", zap.Error(err))
				return nil, apperror.Internal(err, "failed to update profile")
			}
			if other != nil && other.ID != user.ID {
				return nil, apperror.Conflict(apperror.CodePhoneTaken, "phone already registered")
			}
		}
		user.Phone = phone
	}
	user.UpdatedAt = time.Now()

	if err := us.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict(apperror.CodePhoneTaken, "phone already registered")
		}
		us.log.Error("Failed to update profile", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, apperror.Internal(err, "failed to update profile")
	}

	us.log.Info("Profile updated", zap.String("user_id", userID.String()))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) ChangePassword(ctx context.Context, userID uuid.UUID, req *request.ChangePasswordRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	user, err := us.find(ctx, userID)
	if err != nil {
		return err
	}

	if !utils.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return apperror.BadRequest(apperror.CodeInvalidCredentials, "current password is incorrect")
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return apperror.Internal(err, "failed to process password")
	}

	user.PasswordHash = hashedPassword
	user.UpdatedAt = time.Now()
	if err := us.userRepo.Update(ctx, user); err != nil {
		us.log.Error("Failed to change password", zap.Error(err), zap.String("user_id", userID.String()))
		return apperror.Internal(err, "failed to change password")
	}

	us.log.Info("Password changed", zap.String("user_id", userID.String()))
	return nil
}

func (us *userService) GetClients(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	normalizePage(req)

	users, err := us.userRepo.FindByRole(ctx, entity.RoleClient, req.Limit(), req.Offset())
	if err != nil {
		us.log.Error("Failed to list clients",
			zap.Error(err),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.PerPage),
		)
		return nil, apperror.Internal(err, "failed to list clients")
	}

	total, err := us.userRepo.CountByRole(ctx, entity.RoleClient)
	if err != nil {
		us.log.Error("Failed to count clients", zap.Error(err))
		return nil, apperror.Internal(err, "failed to list clients")
	}

	items := make([]response.UserResponse, len(users))
	for i, user := range users {
		items[i] = response.UserToResponse(user)
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

// DeleteUser soft-deletes an account and revokes its sessions.
func (us *userService) DeleteUser(ctx context.Context, userID string) error {
	id, err := parseID(userID, "id")
	if err != nil {
		return err
	}

	if err := us.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.ErrUserNotFound
		}
		us.log.Error("Failed to delete user", zap.Error(err), zap.String("user_id", userID))
		return apperror.Internal(err, "failed to delete user")
	}

	if err := us.sessionRepo.RevokeAllUserSessions(ctx, id); err != nil {
		us.log.Warn("Failed to revoke sessions of deleted user", zap.Error(err), zap.String("user_id", userID))
	}

	us.log.Info("User deleted", zap.String("user_id", userID))
	return nil
}

func (us *userService) find(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := us.userRepo.FindByID(ctx, userID)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, apperror.Internal(err, "failed to get profile")
	}
	if user == nil {
		return nil, apperror.ErrUserNotFound
	}
	return user, nil
}
