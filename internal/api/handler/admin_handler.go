package handler

import (
	"encoding/json"
	"net/http"

	"food_share/internal/api/middleware"
	"food_share/internal/app/service"
	"food_share/internal/common"

	"github.com/go-chi/chi/v5"
)

type AdminHandler struct {
	adminService *service.AdminService
}

func NewAdminHandler(as *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: as}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Use(middleware.AdminOnly)

	r.Get("/claims", h.listClaims)                    // GET /api/admin/claims
	r.Patch("/claims/{claimID}", h.updateClaimStatus) // PATCH /api/admin/claims/{id}
	r.Get("/users", h.listUsers)                      // GET /api/admin/users
	r.Patch("/users/{userID}", h.updateUserRole)      // PATCH /api/admin/users/{id}
	r.Delete("/users/{userID}", h.deleteUser)         // DELETE /api/admin/users/{id}
}

func (h *AdminHandler) listClaims(w http.ResponseWriter, r *http.Request) {
	claims, err := h.adminService.ListClaims(r.Context())
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, claims)
}

func (h *AdminHandler) updateClaimStatus(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateClaimStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	claim, err := h.adminService.UpdateClaimStatus(r.Context(), chi.URLParam(r, "claimID"), req.Status)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, service.ClaimResponse{Message: "Claim status updated", Claim: claim})
}

func (h *AdminHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ListUsers(r.Context())
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) updateUserRole(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateUserRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := h.adminService.UpdateUserRole(r.Context(), chi.URLParam(r, "userID"), req.Role)
	if err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, service.UserResponse{Message: "User role updated", User: user})
}

func (h *AdminHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.adminService.DeleteUser(r.Context(), chi.URLParam(r, "userID")); err != nil {
		common.RespondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "User deleted"})
}
