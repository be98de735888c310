package server

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	validator "github.com/go-playground/validator/v10"

	"github.com/wordlift/factcheck/internal/schema"
	"github.com/wordlift/factcheck/internal/service"
)

// factCheckRequest is the request body for POST /v1/fact-check.
type factCheckRequest struct {
	Query string `json:"query" binding:"required,min=1,max=1000"`
}

// checker is the service slice the handler depends on.
type checker interface {
	FactCheck(ctx context.Context, claim string) (*schema.ClaimReview, error)
}

type factCheckHandler struct {
	svc    checker
	logger *log.Logger
}

func newFactCheckHandler(svc checker, logger *log.Logger) *factCheckHandler {
	return &factCheckHandler{svc: svc, logger: logger}
}

func (h *factCheckHandler) check(c *gin.Context) {
	var req factCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusUnprocessableEntity, "validation_error",
			"Validation error", bindingDetails(err))
		return
	}

	review, err := h.svc.FactCheck(c.Request.Context(), req.Query)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, review)
}

// fail maps service errors onto the envelope. Validation failures carry
// field detail; everything else surfaces as a generic server error with no
// internals.
func (h *factCheckHandler) fail(c *gin.Context, err error) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		respondError(c, http.StatusUnprocessableEntity, "validation_error",
			"Validation error", []ErrorDetail{{Field: ve.Field, Message: ve.Message}})
		return
	}
	h.logger.Printf("http: fact-check failed request_id=%s err=%v", c.GetString("request_id"), err)
	respondError(c, http.StatusInternalServerError, "internal_server_error",
		"fact-check could not be completed", nil)
}

// bindingDetails converts gin binding failures into field-level detail.
func bindingDetails(err error) []ErrorDetail {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ErrorDetail{{Field: "query", Message: err.Error()}}
	}
	details := make([]ErrorDetail, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, ErrorDetail{
			Field:   fe.Field(),
			Code:    fe.Tag(),
			Message: fe.Error(),
		})
	}
	return details
}
