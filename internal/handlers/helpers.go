package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ArowuTest/fundme-backend/internal/middleware"
	"github.com/ArowuTest/fundme-backend/internal/pricefeed"
	"github.com/ArowuTest/fundme-backend/internal/repositories"
	"github.com/ArowuTest/fundme-backend/internal/services"
	"github.com/ArowuTest/fundme-backend/internal/utils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotEnoughETH),
		errors.Is(err, services.ErrRaffleNotEnoughETH),
		errors.Is(err, services.ErrInvalidValue),
		errors.Is(err, services.ErrInvalidNumber),
		errors.Is(err, services.ErrNoReceive),
		errors.Is(err, services.ErrUnsupportedKind),
		errors.Is(err, utils.ErrInvalidAmount),
		errors.Is(err, utils.ErrInvalidAddress),
		errors.Is(err, pricefeed.ErrInvalidAnswer):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrChallengeNotFound),
		errors.Is(err, services.ErrInvalidSignature):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, services.ErrContractNotFound),
		errors.Is(err, services.ErrIndexOutOfRange),
		errors.Is(err, pricefeed.ErrUnknownFeed),
		errors.Is(err, repositories.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrPriceFeedUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrWinnerSelectionNotImplemented):
		return http.StatusNotImplemented
	case errors.Is(err, services.ErrTransferFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// addressParam parses the named path parameter as an address
func addressParam(c *gin.Context, name string) (common.Address, bool) {
	addr, err := utils.ParseAddress(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return common.Address{}, false
	}
	return addr, true
}

// indexParam parses the named path parameter as a list index
func indexParam(c *gin.Context, name string) (int, bool) {
	i, err := strconv.Atoi(c.Param(name))
	if err != nil || i < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid index"})
		return 0, false
	}
	return i, true
}

// pagination reads page and limit, defaulting to 1 and 20
func pagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

// caller returns the authenticated address or aborts with 401
func caller(c *gin.Context) (common.Address, bool) {
	addr, ok := middleware.CallerAddress(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	}
	return addr, ok
}
