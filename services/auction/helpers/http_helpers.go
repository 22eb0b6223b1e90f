package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"adslot-auction/internal/auctionerrors"
	"adslot-auction/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/engine errors to HTTP status code and message.
// Rejections keep their reason so a client can correct and resubmit instead
// of guessing.
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrAuctionNotFound):
		return http.StatusNotFound, "auction not found"
	case errors.Is(err, auctionerrors.ErrInvalidAuction):
		return http.StatusBadRequest, "invalid auction details"
	case errors.Is(err, auctionerrors.ErrInvalidBid):
		return http.StatusBadRequest, "invalid bid details"
	case errors.Is(err, auctionerrors.ErrBidTooLow):
		return http.StatusConflict, "bid amount too low"
	case errors.Is(err, auctionerrors.ErrAuctionNotOpen):
		return http.StatusConflict, "auction not open for bidding"
	case errors.Is(err, auctionerrors.ErrContentionExceeded):
		return http.StatusConflict, "too much bid contention, try again"
	case errors.Is(err, auctionerrors.ErrConflict):
		return http.StatusConflict, "auction state changed concurrently"
	case errors.Is(err, auctionerrors.ErrFraudSuspected):
		return http.StatusForbidden, "rejected on fraud suspicion"
	case errors.Is(err, auctionerrors.ErrDependencyUnavailable):
		return http.StatusServiceUnavailable, "dependency unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
