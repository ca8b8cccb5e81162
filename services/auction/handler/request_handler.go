package handler

import (
	"context"
	"net/http"

	"chit-auction/internal/models"
	"chit-auction/services/auction/helpers"
	"chit-auction/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=request_handler.go -destination=mock_request_handler.go -package=handler

type RequestServiceInterface interface {
	Submit(ctx context.Context, req models.UserRequest) (models.UserRequest, error)
	List(ctx context.Context, status, userID string) ([]models.UserRequest, error)
	Approve(ctx context.Context, id, comment string) (models.UserRequest, error)
	Reject(ctx context.Context, id, comment string) (models.UserRequest, error)
}

type RequestHandler struct {
	service RequestServiceInterface
}

func NewRequestHandler(service RequestServiceInterface) *RequestHandler {
	return &RequestHandler{service: service}
}

// SubmitRequestHandler handles POST /requests
func (h *RequestHandler) SubmitRequestHandler(c *gin.Context) {
	var req models.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SubmitRequestHandler", err)
		return
	}

	saved, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		helpers.HandleServiceError(c, "SubmitRequestHandler", err, map[string]any{"user_id": req.UserID, "type": req.Type})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, saved, "request submitted successfully")
	helpers.LogSuccess("SubmitRequestHandler", "request submitted successfully", map[string]any{
		"request_id": saved.ID,
		"type":       saved.Type,
	})
}

// ListRequestsHandler handles GET /requests?status=&user_id=
func (h *RequestHandler) ListRequestsHandler(c *gin.Context) {
	reqs, err := h.service.List(c.Request.Context(), c.Query("status"), c.Query("user_id"))
	if err != nil {
		helpers.HandleServiceError(c, "ListRequestsHandler", err, nil)
		return
	}
	if reqs == nil {
		reqs = []models.UserRequest{}
	}
	utils.JSONResponse(c, http.StatusOK, reqs, "requests retrieved successfully")
}

// ApproveRequestHandler handles POST /admin/requests/:id/approve
func (h *RequestHandler) ApproveRequestHandler(c *gin.Context) {
	h.decide(c, "ApproveRequestHandler", h.service.Approve, "request approved")
}

// RejectRequestHandler handles POST /admin/requests/:id/reject
func (h *RequestHandler) RejectRequestHandler(c *gin.Context) {
	h.decide(c, "RejectRequestHandler", h.service.Reject, "request rejected")
}

func (h *RequestHandler) decide(c *gin.Context, name string, fn func(context.Context, string, string) (models.UserRequest, error), message string) {
	id := c.Param("id")
	var req helpers.DecisionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			helpers.HandleBindError(c, name, err)
			return
		}
	}

	decided, err := fn(c.Request.Context(), id, req.Comment)
	if err != nil {
		helpers.HandleServiceError(c, name, err, map[string]any{"request_id": id})
		return
	}

	utils.JSONResponse(c, http.StatusOK, decided, message)
	helpers.LogSuccess(name, message, map[string]any{"request_id": id, "type": decided.Type})
}
