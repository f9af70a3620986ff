package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/moogar0880/problems"
)

const problemContentType = "application/problem+json"

// Problem is an error that ErrorHandler renders as a problem document with
// the given status, type and detail.
type Problem struct {
	Status int
	Type   string
	Detail string
}

func NewProblem(status int, typ, detail string) *Problem {
	return &Problem{Status: status, Type: typ, Detail: detail}
}

func (p *Problem) Error() string {
	return fmt.Sprintf("%s: %s", p.Type, p.Detail)
}

// ErrorHandler renders every error returned by a handler as an RFC 7807
// problem. Unexpected errors are logged and answered with a generic 500.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			p  *Problem
			he *echo.HTTPError
		)
		switch {
		case errors.As(err, &p):
		case errors.As(err, &he):
			p = NewProblem(he.Code, typeForStatus(he.Code), fmt.Sprint(he.Message))
		default:
			logger.Error("unhandled error", "method", c.Request().Method, "path", c.Path(), "error", err)
			p = NewProblem(http.StatusInternalServerError, "internal_error", "internal server error")
		}

		problem := problems.NewStatusProblem(p.Status).
			WithInstance(c.Request().URL.Path).
			WithType(p.Type).
			WithDetail(p.Detail)

		c.Response().Header().Set(echo.HeaderContentType, problemContentType)
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(p.Status)
		} else {
			err = c.JSON(p.Status, problem)
		}
		if err != nil {
			logger.Error("failed to write error response", "error", err)
		}
	}
}

func typeForStatus(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnsupportedMediaType:
		return "unsupported_media_type"
	case http.StatusTooManyRequests:
		return "too_many_requests"
	}
	if code >= 500 {
		return "internal_error"
	}
	return "error"
}
