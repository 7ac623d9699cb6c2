package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/codecritic/codecritic/internal/middleware"
	"github.com/codecritic/codecritic/internal/services"
	"github.com/codecritic/codecritic/pkg/response"
	"github.com/gin-gonic/gin"
)

// ReviewRunner is the review pipeline contract the handler depends on.
type ReviewRunner interface {
	Run(ctx context.Context, email string, file io.Reader) (*services.ReviewOutcome, error)
}

type ReviewHandler struct {
	reviewService ReviewRunner
}

func NewReviewHandler(reviewService ReviewRunner) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// Create runs a full review of one uploaded source file.
// POST /review (multipart, field "file", bearer auth)
func (h *ReviewHandler) Create(c *gin.Context) {
	email := middleware.GetEmail(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.ServerError(c, "Error processing review: "+err.Error())
		return
	}
	defer file.Close()

	outcome, err := h.reviewService.Run(c.Request.Context(), email, file)
	if err != nil {
		if errors.Is(err, services.ErrReadTimeout) {
			services.AuditError("review", "create", "upload read timed out", email, c.ClientIP(), c.Request.UserAgent(), nil)
			response.GatewayTimeout(c, "Request timed out")
			return
		}
		services.AuditError("review", "create", err.Error(), email, c.ClientIP(), c.Request.UserAgent(), nil)
		// Raw error text is surfaced intentionally; this is an internal tool.
		response.ServerError(c, "Error processing review: "+err.Error())
		return
	}

	services.AuditInfo("review", "create", "review completed", email, c.ClientIP(), c.Request.UserAgent(),
		gin.H{"review_id": outcome.ReviewID, "file": fileHeader.Filename})
	c.JSON(http.StatusOK, outcome)
}
