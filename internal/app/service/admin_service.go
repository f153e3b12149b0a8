package service

import (
	"context"
	"database/sql"
	"fmt"

	"food_share/internal/common"
	"food_share/internal/domain/model"
	"food_share/internal/domain/repository"
	"food_share/internal/platform/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AdminService is the moderation surface. Claim changes go through ClaimService.
type AdminService struct {
	claims   *ClaimService
	userRepo repository.UserRepository
	postRepo repository.FoodPostRepository
	claimRep repository.ClaimRepository
	tx       repository.Transactor
	cache    FoodListCache // nil when Redis is disabled
}

func NewAdminService(
	claims *ClaimService,
	userRepo repository.UserRepository,
	postRepo repository.FoodPostRepository,
	claimRepo repository.ClaimRepository,
	tx repository.Transactor,
	cache FoodListCache,
) *AdminService {
	return &AdminService{
		claims:   claims,
		userRepo: userRepo,
		postRepo: postRepo,
		claimRep: claimRepo,
		tx:       tx,
		cache:    cache,
	}
}

type UpdateUserRoleRequest struct {
	Role string `json:"role"`
}

type UserResponse struct {
	Message string      `json:"message"`
	User    *model.User `json:"user"`
}

func (s *AdminService) ListClaims(ctx context.Context) ([]model.Claim, error) {
	return s.claims.ListAllClaims(ctx)
}

func (s *AdminService) UpdateClaimStatus(ctx context.Context, claimID, status string) (*model.Claim, error) {
	return s.claims.UpdateClaimStatus(ctx, claimID, status)
}

// ListUsers returns all users newest first. Password hashes never leave the service.
func (s *AdminService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("AdminService.ListUsers: %w", err)
	}
	for i := range users {
		users[i].HashedPassword = ""
	}
	return users, nil
}

func (s *AdminService) UpdateUserRole(ctx context.Context, userID, rawRole string) (*model.User, error) {
	role, err := model.ParseRole(rawRole)
	if err != nil {
		return nil, common.NewError(common.ErrBadRequest, "Invalid role value")
	}
	if _, err := uuid.Parse(userID); err != nil {
		return nil, common.NewError(common.ErrNotFound, "User not found")
	}

	user, err := s.userRepo.UpdateRole(ctx, userID, role)
	if err != nil {
		return nil, fmt.Errorf("AdminService.UpdateUserRole: %w", err)
	}
	user.HashedPassword = ""
	logger.Log.Info("user role updated", zap.String("user_id", userID), zap.String("role", string(role)))
	return user, nil
}

// DeleteUser removes the user together with the claims they made, their food
// posts, and every claim on those posts. All of it commits or none of it does.
func (s *AdminService) DeleteUser(ctx context.Context, userID string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return common.NewError(common.ErrNotFound, "User not found")
	}

	var claimsRemoved, postsRemoved int64
	err := s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		var err error
		if claimsRemoved, err = s.claimRep.DeleteForUser(ctx, tx, userID); err != nil {
			return err
		}
		if postsRemoved, err = s.postRepo.DeleteByDonor(ctx, tx, userID); err != nil {
			return err
		}
		return s.userRepo.Delete(ctx, tx, userID)
	})
	if err != nil {
		return fmt.Errorf("AdminService.DeleteUser: %w", err)
	}

	if postsRemoved > 0 && s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	logger.Log.Info("user deleted",
		zap.String("user_id", userID),
		zap.Int64("claims_removed", claimsRemoved),
		zap.Int64("food_posts_removed", postsRemoved),
	)
	return nil
}
