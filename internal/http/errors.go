package httpx

import (
	"errors"
	"net/http"

	apperrors "github.com/Axelware/Life-dashboard/internal/errors"
)

// WriteServiceError translates service-layer errors into JSON responses.
// Upstream provider failures surface as 502 so callers can tell them apart
// from our own faults.
func WriteServiceError(w http.ResponseWriter, err error) {
	var upstream *apperrors.UpstreamError
	if errors.As(err, &upstream) {
		WriteError(w, ErrorParams{Code: http.StatusBadGateway, ErrCode: "upstream_error", Err: err})
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		WriteError(w, ErrorParams{Code: statusForCode(appErr.Code), ErrCode: string(appErr.Code), Err: err})
		return
	}

	WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal", Err: err})
}

func statusForCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeValidation:
		return http.StatusBadRequest
	case apperrors.ErrCodeConflict:
		return http.StatusConflict
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
