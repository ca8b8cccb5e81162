package handler

import (
	"context"
	"net/http"

	"chit-auction/internal/models"
	"chit-auction/services/auction/helpers"
	"chit-auction/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=roster_handler.go -destination=mock_roster_handler.go -package=handler

type RosterServiceInterface interface {
	List(ctx context.Context) ([]models.User, error)
	Add(ctx context.Context, u models.User) (models.User, error)
	Update(ctx context.Context, id string, u models.User) (models.User, error)
	Delete(ctx context.Context, id string) error
	Batches(ctx context.Context) ([]models.ChitBatch, error)
	AddBatch(ctx context.Context, b models.ChitBatch) (models.ChitBatch, error)
}

type RosterHandler struct {
	service RosterServiceInterface
}

func NewRosterHandler(service RosterServiceInterface) *RosterHandler {
	return &RosterHandler{service: service}
}

// ListUsersHandler handles GET /admin/users
func (h *RosterHandler) ListUsersHandler(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		helpers.HandleServiceError(c, "ListUsersHandler", err, nil)
		return
	}
	utils.JSONResponse(c, http.StatusOK, users, "users retrieved successfully")
}

// AddUserHandler handles POST /admin/users
func (h *RosterHandler) AddUserHandler(c *gin.Context) {
	var u models.User
	if err := c.ShouldBindJSON(&u); err != nil {
		helpers.HandleBindError(c, "AddUserHandler", err)
		return
	}

	saved, err := h.service.Add(c.Request.Context(), u)
	if err != nil {
		helpers.HandleServiceError(c, "AddUserHandler", err, map[string]any{"user_id": u.ID})
		return
	}
	utils.JSONResponse(c, http.StatusCreated, saved, "user added successfully")
}

// UpdateUserHandler handles PUT /admin/users/:user_id
func (h *RosterHandler) UpdateUserHandler(c *gin.Context) {
	id := c.Param("user_id")
	var u models.User
	if err := c.ShouldBindJSON(&u); err != nil {
		helpers.HandleBindError(c, "UpdateUserHandler", err)
		return
	}

	saved, err := h.service.Update(c.Request.Context(), id, u)
	if err != nil {
		helpers.HandleServiceError(c, "UpdateUserHandler", err, map[string]any{"user_id": id})
		return
	}
	utils.JSONResponse(c, http.StatusOK, saved, "user updated successfully")
}

// DeleteUserHandler handles DELETE /admin/users/:user_id
func (h *RosterHandler) DeleteUserHandler(c *gin.Context) {
	id := c.Param("user_id")
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		helpers.HandleServiceError(c, "DeleteUserHandler", err, map[string]any{"user_id": id})
		return
	}
	utils.JSONResponse(c, http.StatusOK, gin.H{"user_id": id}, "user deleted successfully")
}

// ListBatchesHandler handles GET /admin/batches
func (h *RosterHandler) ListBatchesHandler(c *gin.Context) {
	batches, err := h.service.Batches(c.Request.Context())
	if err != nil {
		helpers.HandleServiceError(c, "ListBatchesHandler", err, nil)
		return
	}
	utils.JSONResponse(c, http.StatusOK, batches, "batches retrieved successfully")
}

// AddBatchHandler handles POST /admin/batches
func (h *RosterHandler) AddBatchHandler(c *gin.Context) {
	var b models.ChitBatch
	if err := c.ShouldBindJSON(&b); err != nil {
		helpers.HandleBindError(c, "AddBatchHandler", err)
		return
	}

	saved, err := h.service.AddBatch(c.Request.Context(), b)
	if err != nil {
		helpers.HandleServiceError(c, "AddBatchHandler", err, map[string]any{"batch_id": b.ID})
		return
	}
	utils.JSONResponse(c, http.StatusCreated, saved, "batch added successfully")
}
