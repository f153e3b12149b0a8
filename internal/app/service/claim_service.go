package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"food_share/internal/common"
	"food_share/internal/domain/model"
	"food_share/internal/domain/repository"
	"food_share/internal/platform/logger"
	"food_share/internal/platform/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClaimService is the only writer of claim state.
type ClaimService struct {
	claimRepo repository.ClaimRepository
	postRepo  repository.FoodPostRepository
	now       func() time.Time
}

func NewClaimService(claimRepo repository.ClaimRepository, postRepo repository.FoodPostRepository) *ClaimService {
	return &ClaimService{claimRepo: claimRepo, postRepo: postRepo, now: time.Now}
}

type CreateClaimRequest struct {
	FoodPostID string `json:"foodPostId"`
}

type UpdateClaimStatusRequest struct {
	Status string `json:"status"`
}

type ClaimResponse struct {
	Message string       `json:"message"`
	Claim   *model.Claim `json:"claim"`
}

// CreateClaim records a pending request by recipientID for foodPostID.
// Duplicates are rejected by the storage unique index, not by a pre-read.
func (s *ClaimService) CreateClaim(ctx context.Context, recipientID, foodPostID string) (*model.Claim, error) {
	foodPostID = strings.TrimSpace(foodPostID)
	if foodPostID == "" {
		return nil, common.NewError(common.ErrBadRequest, "foodPostId is required")
	}
	if _, err := uuid.Parse(foodPostID); err != nil {
		return nil, common.NewError(common.ErrNotFound, "Food post not found")
	}

	post, err := s.postRepo.FindByID(ctx, foodPostID)
	if err != nil {
		return nil, fmt.Errorf("ClaimService.CreateClaim: %w", err)
	}

	now := s.now().UTC()
	claim := &model.Claim{
		ID:          uuid.NewString(),
		FoodPostID:  post.ID,
		RecipientID: recipientID,
		Status:      model.ClaimPending,
		RequestedAt: now,
		UpdatedAt:   now,
	}
	if err := s.claimRepo.Create(ctx, claim); err != nil {
		return nil, fmt.Errorf("ClaimService.CreateClaim: %w", err)
	}
	claim.FoodPost = post

	metrics.ClaimCreated()
	logger.Log.Info("claim created",
		zap.String("claim_id", claim.ID),
		zap.String("food_post_id", claim.FoodPostID),
		zap.String("recipient_id", recipientID),
	)
	return claim, nil
}

// ListClaimsForRecipient returns the recipient's claims, most recent first.
func (s *ClaimService) ListClaimsForRecipient(ctx context.Context, recipientID string) ([]model.Claim, error) {
	claims, err := s.claimRepo.ListByRecipient(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("ClaimService.ListClaimsForRecipient: %w", err)
	}
	return claims, nil
}

func (s *ClaimService) ListAllClaims(ctx context.Context) ([]model.Claim, error) {
	claims, err := s.claimRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("ClaimService.ListAllClaims: %w", err)
	}
	return claims, nil
}

// UpdateClaimStatus applies one edge of the claim state machine.
// pending -> approved|rejected, approved -> collected. Everything else is refused.
func (s *ClaimService) UpdateClaimStatus(ctx context.Context, claimID, rawStatus string) (*model.Claim, error) {
	next, err := model.ParseClaimStatus(strings.TrimSpace(rawStatus))
	if err != nil {
		return nil, common.NewError(common.ErrBadRequest, "Invalid status value")
	}
	if _, err := uuid.Parse(claimID); err != nil {
		return nil, common.NewError(common.ErrNotFound, "Claim not found")
	}

	claim, err := s.claimRepo.FindByID(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("ClaimService.UpdateClaimStatus: %w", err)
	}
	prev := claim.Status
	if !prev.CanTransitionTo(next) {
		msg := fmt.Sprintf("cannot change claim status from %s to %s", prev, next)
		if prev.Terminal() {
			msg += fmt.Sprintf(": %s is final", prev)
		}
		return nil, common.NewError(common.ErrInvalidTransition, msg)
	}

	updatedAt, err := s.claimRepo.UpdateStatus(ctx, claimID, prev, next)
	if err != nil {
		return nil, fmt.Errorf("ClaimService.UpdateClaimStatus: %w", err)
	}
	claim.Status = next
	claim.UpdatedAt = updatedAt

	metrics.ClaimTransitioned(string(prev), string(next))
	logger.Log.Info("claim status updated",
		zap.String("claim_id", claimID),
		zap.String("from", string(prev)),
		zap.String("to", string(next)),
	)
	return claim, nil
}
