package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IzzulGod/dynamenu-ai/services"
	"github.com/IzzulGod/dynamenu-ai/utils"
)

var ErrNoPermission = errors.New("tidak punya izin untuk aksi ini")

// respondServiceError memetakan taksonomi error service ke kode HTTP.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrPreconditionFailed):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrRateLimited):
		utils.RespondError(c, http.StatusTooManyRequests, err)
	case errors.Is(err, services.ErrUpstreamUnavailable):
		utils.RespondError(c, http.StatusServiceUnavailable, err)
	default:
		utils.ErrorLogger.Printf("error internal: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("terjadi kesalahan, coba lagi"))
	}
}
