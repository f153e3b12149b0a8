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

type ClaimHandler struct {
	claimService *service.ClaimService
}

func NewClaimHandler(cs *service.ClaimService) *ClaimHandler {
	return &ClaimHandler{claimService: cs}
}

// RegisterRoutes mounts the recipient claim routes. Every route requires the Recipient role.
func (h *ClaimHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Use(middleware.RequireRoles(model.RoleRecipient))
	r.Post("/", h.createClaim) // POST /api/claims
	r.Get("/", h.listMyClaims) // GET /api/claims
}

func (h *ClaimHandler) createClaim(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r)
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	claim, err := h.claimService.CreateClaim(r.Context(), principal.UserID, req.FoodPostID)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, service.ClaimResponse{Message: "Claim request created", Claim: claim})
}

func (h *ClaimHandler) listMyClaims(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r)
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	claims, err := h.claimService.ListClaimsForRecipient(r.Context(), principal.UserID)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, claims)
}
