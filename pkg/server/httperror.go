package server

import (
	"fmt"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/labstack/echo/v4"
)

// HTTPError is an error with an HTTP status code.
type HTTPError struct {
	Code  int
	Inner error
}

func (e HTTPError) Error() string {
	statusText := http.StatusText(e.Code)
	if statusText != "" {
		statusText = " " + statusText
	}
	return fmt.Sprintf("HTTP %d%s: %s", e.Code, statusText, e.Inner.Error())
}

func (e HTTPError) Unwrap() error { return e.Inner }

func badRequest(err error, message string) HTTPError {
	return HTTPError{Code: http.StatusBadRequest, Inner: errors.Wrap(err, message)}
}

// ErrorResponse is the body of an error response.
type ErrorResponse struct {
	Message string `json:"message"`
}

// errorHandler renders HTTPError as an ErrorResponse;
// other errors go to echo's default handler.
func errorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var he HTTPError
		if !errors.As(err, &he) {
			e.DefaultHTTPErrorHandler(err, c)
			return
		}
		if c.Response().Committed {
			return
		}
		if err := c.JSON(he.Code, ErrorResponse{Message: he.Inner.Error()}); err != nil {
			e.Logger.Error(err)
		}
	}
}
