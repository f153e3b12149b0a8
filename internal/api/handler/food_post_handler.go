package handler

import (
	"encoding/json"
	"net/http"

	"food_share/internal/api/middleware"
	"food_share/internal/app/service"
	"food_share/internal/common"
	"food_share/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type FoodPostHandler struct {
	foodPostService *service.FoodPostService
}

func NewFoodPostHandler(fs *service.FoodPostService) *FoodPostHandler {
	return &FoodPostHandler{foodPostService: fs}
}

func (h *FoodPostHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listFoodPosts) // GET /api/food

	r.Group(func(donor chi.Router) {
		donor.Use(middleware.Authenticator)
		donor.Use(middleware.RequireRoles(model.RoleDonor))
		donor.Post("/", h.createFoodPost) // POST /api/food
	})
}

func (h *FoodPostHandler) createFoodPost(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r)
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateFoodPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	post, err := h.foodPostService.CreateFoodPost(r.Context(), principal.UserID, req)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, service.FoodPostResponse{Message: "Food post created", FoodPost: post})
}

func (h *FoodPostHandler) listFoodPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.foodPostService.ListFoodPosts(r.Context())
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, posts)
}
