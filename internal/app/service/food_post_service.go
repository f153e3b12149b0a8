package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"food_share/internal/common"
	"food_share/internal/domain/model"
	"food_share/internal/domain/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// FoodListCache caches the public food post listing.
type FoodListCache interface {
	GetList(ctx context.Context) ([]model.FoodPost, bool)
	SetList(ctx context.Context, posts []model.FoodPost)
	Invalidate(ctx context.Context)
}

type FoodPostService struct {
	postRepo  repository.FoodPostRepository
	cache     FoodListCache // nil when Redis is disabled
	validate  *validator.Validate
	sanitizer *bluemonday.Policy
	now       func() time.Time
}

func NewFoodPostService(postRepo repository.FoodPostRepository, cache FoodListCache) *FoodPostService {
	return &FoodPostService{
		postRepo:  postRepo,
		cache:     cache,
		validate:  validator.New(),
		sanitizer: bluemonday.StrictPolicy(),
		now:       time.Now,
	}
}

type LocationInput struct {
	Type        string     `json:"type" validate:"omitempty,eq=Point"`
	Coordinates []*float64 `json:"coordinates" validate:"required,len=2,dive,required"`
}

type CreateFoodPostRequest struct {
	FoodName           string         `json:"foodName" validate:"required,max=120"`
	Description        string         `json:"description" validate:"max=2000"`
	Quantity           int            `json:"quantity" validate:"gt=0"`
	Category           string         `json:"category" validate:"required"`
	ExpiryDate         time.Time      `json:"expiryDate" validate:"required"`
	Location           *LocationInput `json:"location" validate:"required"`
	AvailabilityWindow string         `json:"availabilityWindow" validate:"max=200"`
}

type FoodPostResponse struct {
	Message  string          `json:"message"`
	FoodPost *model.FoodPost `json:"foodPost"`
}

func (s *FoodPostService) CreateFoodPost(ctx context.Context, donorID string, req CreateFoodPostRequest) (*model.FoodPost, error) {
	req.FoodName = strings.TrimSpace(s.sanitizer.Sanitize(req.FoodName))
	req.Description = strings.TrimSpace(s.sanitizer.Sanitize(req.Description))
	req.AvailabilityWindow = strings.TrimSpace(s.sanitizer.Sanitize(req.AvailabilityWindow))

	if err := s.validate.Struct(req); err != nil {
		return nil, common.NewError(common.ErrValidation, validationMessage(err))
	}

	category, err := model.ParseFoodCategory(req.Category)
	if err != nil {
		return nil, common.NewError(common.ErrValidation, "category must be home-cooked or packaged")
	}
	if !req.ExpiryDate.After(s.now()) {
		return nil, common.NewError(common.ErrValidation, "expiryDate must be in the future")
	}
	lon, lat := *req.Location.Coordinates[0], *req.Location.Coordinates[1]
	if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
		return nil, common.NewError(common.ErrValidation, "location coordinates must be [longitude, latitude] within range")
	}

	post := &model.FoodPost{
		ID:                 uuid.NewString(),
		FoodName:           req.FoodName,
		Description:        req.Description,
		Quantity:           req.Quantity,
		Category:           category,
		ExpiryDate:         req.ExpiryDate.UTC(),
		Location:           model.NewPoint(lon, lat),
		AvailabilityWindow: req.AvailabilityWindow,
		DonorID:            donorID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("FoodPostService.CreateFoodPost: %w", err)
	}
	s.invalidate(ctx)
	return post, nil
}

// ListFoodPosts returns every post, newest first. Claimed posts stay listed.
func (s *FoodPostService) ListFoodPosts(ctx context.Context) ([]model.FoodPost, error) {
	if s.cache != nil {
		if posts, ok := s.cache.GetList(ctx); ok {
			return posts, nil
		}
	}
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("FoodPostService.ListFoodPosts: %w", err)
	}
	if s.cache != nil {
		s.cache.SetList(ctx, posts)
	}
	return posts, nil
}

func (s *FoodPostService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}
