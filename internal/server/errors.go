package server

import (
	"errors"
	"net/http"

	"plate-server/internal/common"
	"plate-server/internal/dto"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// handleError maps err to a status code and the error envelope returned to the client.
func handleError(err error) (int, common.Response[any]) {
	var verr *dto.ValidationError
	var berr *common.BusinessError
	var herr *echo.HTTPError

	switch {
	case errors.As(err, &verr):
		return common.ValidationError.Status, common.Response[any]{
			Success:   false,
			Message:   common.ValidationError.Message,
			Data:      verr.Fields,
			ErrorCode: common.ValidationError.Code,
		}
	case errors.As(err, &berr):
		return berr.Code.Status, common.ErrorMessageResponse(berr.Message(), berr.Code.Code)
	case errors.As(err, &herr):
		switch herr.Code {
		case http.StatusNotFound:
			return http.StatusNotFound, common.ErrorResponse(common.CommonNotFound)
		case http.StatusMethodNotAllowed:
			return http.StatusMethodNotAllowed, common.ErrorResponse(common.CommonMethodNotAllowed)
		case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusRequestEntityTooLarge:
			return herr.Code, common.ErrorResponse(common.CommonInvalidRequest)
		case http.StatusTooManyRequests:
			return herr.Code, common.ErrorResponse(common.CommonTooManyRequests)
		}
		if herr.Code < http.StatusInternalServerError {
			return herr.Code, common.ErrorMessageResponse(http.StatusText(herr.Code), common.CommonInvalidRequest.Code)
		}
	}
	return http.StatusInternalServerError, common.ErrorResponse(common.CommonInternalError)
}

func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := handleError(err)

	entry := log.WithError(err).WithFields(log.Fields{
		"method": c.Request().Method,
		"path":   c.Request().URL.Path,
		"status": status,
	})
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Debug("Request rejected")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		log.WithError(err).Error("Failed to write error response")
	}
}
