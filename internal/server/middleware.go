package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// errorResponse is the uniform body for every non-2xx answer of the API.
type errorResponse struct {
	Message string `json:"message"`
}

func errorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			c.Logger().Error(err)
		} else {
			he = &echo.HTTPError{
				Code:    http.StatusInternalServerError,
				Message: http.StatusText(http.StatusInternalServerError),
			}
		}

		if c.Response().Committed {
			return
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(he.Code)
		} else {
			err = c.JSON(he.Code, errorResponse{Message: fmt.Sprintf("%v", he.Message)})
		}
		if err != nil {
			c.Logger().Error(err)
		}
	}
}
