// Package handler provides HTTP handler functions for the qooqz admin API.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ibdaa1/qooqz/internal/domain"
	"github.com/ibdaa1/qooqz/internal/service"
	"github.com/ibdaa1/qooqz/internal/validator"
	"github.com/ibdaa1/qooqz/pkg"
	"github.com/ibdaa1/qooqz/pkg/ctxutil"
	"github.com/ibdaa1/qooqz/pkg/logger"
)

// Error codes carried in the error body of failed responses.
const (
	CodeBadRequest = "bad_request"
	CodeNotFound   = "not_found"
	CodeConflict   = "conflict"
	CodeValidation = "validation_failed"
	CodeInternal   = "internal_error"
)

type listQuery struct {
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

func (q listQuery) params() domain.ListParams {
	return domain.ListParams{Page: q.Page, Limit: q.Limit, OrderBy: q.OrderBy, OrderDir: q.OrderDir}
}

func ok(c *gin.Context, code int, data any, msg string) {
	c.JSON(code, pkg.NewResponse(code, data, msg))
}

func paged[T any](c *gin.Context, p domain.Page[T]) {
	c.JSON(http.StatusOK, pkg.NewPagedResponse(http.StatusOK, p.Items, p.Meta, "OK"))
}

func badRequest(c *gin.Context, msg string, err error) {
	logger.Debug(c.Request.Context(), "%s: %v", msg, err)
	c.JSON(http.StatusBadRequest, pkg.NewErrorResponse(http.StatusBadRequest, CodeBadRequest, msg, err.Error()))
}

// fail translates a service error into its HTTP status and envelope.
func fail(c *gin.Context, err error) {
	ctx := c.Request.Context()
	if ve, isValidation := validator.AsErrors(err); isValidation {
		c.JSON(http.StatusUnprocessableEntity, pkg.NewErrorResponse(http.StatusUnprocessableEntity, CodeValidation, "validation failed", ve))
		return
	}
	switch {
	case errors.Is(err, service.ErrEntityNotFound),
		errors.Is(err, service.ErrAttributeNotFound),
		errors.Is(err, service.ErrAttributeValueNotFound),
		errors.Is(err, service.ErrSettingNotFound):
		c.JSON(http.StatusNotFound, pkg.NewErrorResponse(http.StatusNotFound, CodeNotFound, err.Error(), nil))
	case errors.Is(err, service.ErrDuplicateSlug),
		errors.Is(err, service.ErrDuplicateAttribute),
		errors.Is(err, service.ErrDuplicateValue),
		errors.Is(err, service.ErrAttributeInUse),
		errors.Is(err, service.ErrDataTypeLocked),
		errors.Is(err, service.ErrOptionsLocked):
		c.JSON(http.StatusConflict, pkg.NewErrorResponse(http.StatusConflict, CodeConflict, err.Error(), nil))
	case errors.Is(err, service.ErrUndeclaredAttribute),
		errors.Is(err, service.ErrEntityTypeMismatch),
		errors.Is(err, service.ErrInvalidParent):
		c.JSON(http.StatusUnprocessableEntity, pkg.NewErrorResponse(http.StatusUnprocessableEntity, CodeValidation, err.Error(), nil))
	default:
		logger.Error(ctx, "request failed: %s", err.Error())
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, pkg.NewErrorResponse(http.StatusInternalServerError, CodeInternal, "internal server error", nil))
	}
}

// pathID parses a positive int64 path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, pkg.NewErrorResponse(http.StatusBadRequest, CodeBadRequest, "invalid "+name, c.Param(name)))
		return 0, false
	}
	return id, true
}

// queryID parses an optional positive int64 query parameter.
func queryID(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, pkg.NewErrorResponse(http.StatusBadRequest, CodeBadRequest, "invalid "+name, raw))
		return nil, false
	}
	return &id, true
}

// tenant returns the tenant resolved by the tenant middleware.
func tenant(c *gin.Context) (int64, bool) {
	id, found := ctxutil.TenantID(c.Request.Context())
	if !found {
		c.JSON(http.StatusUnauthorized, pkg.NewErrorResponse(http.StatusUnauthorized, pkg.CodeUnauthorized, pkg.MsgTenantNotFound, nil))
		return 0, false
	}
	return id, true
}
