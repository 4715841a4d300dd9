// Package response renders the unified JSON envelope for the HTTP API.
package response

import (
	deliverycontext "erpcore/internal/delivery/context"
	domainerrors "erpcore/internal/domain/errors"

	"github.com/labstack/echo/v4"
)

// Success writes a success envelope carrying the payload and request metadata.
func Success(c echo.Context, statusCode int, data any) error {
	return c.JSON(statusCode, domainerrors.SuccessResponse{
		Data: data,
		Meta: &domainerrors.MetaInfo{
			RequestID: deliverycontext.GetRequestID(c),
		},
	})
}

// Error writes an error envelope from explicit error fields. Most errors flow
// through the central error handler instead; this is for handlers that need
// to shape a response inline.
func Error(c echo.Context, statusCode int, errorCode, message string, details any) error {
	return c.JSON(statusCode, domainerrors.ErrorResponse{
		Error: &domainerrors.ErrorInfo{
			Code:    errorCode,
			Message: message,
			Details: details,
		},
		Meta: &domainerrors.MetaInfo{
			RequestID: deliverycontext.GetRequestID(c),
		},
	})
}

// AppError writes an error envelope from a domain AppError.
func AppError(c echo.Context, appErr domainerrors.AppError) error {
	var details any
	if appErr.Details() != "" {
		details = appErr.Details()
	}

	return Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), details)
}
