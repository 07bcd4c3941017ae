package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Result is what a handler produced on success. Errors travel separately and
// are rendered by the central error handler.
type Result struct {
	Status  int
	Message string
	// Key names the payload field, e.g. "project" or "projects".
	Key   string
	Data  any
	Count *int
	Token string
}

// Func is a handler that returns a Result instead of writing the response.
type Func func(c echo.Context) (Result, error)

// Wrap adapts f to echo, making Respond the only place successes are written.
func Wrap(f Func) echo.HandlerFunc {
	return func(c echo.Context) error {
		res, err := f(c)
		if err != nil {
			return err
		}
		return Respond(c, res)
	}
}

// Respond renders the success envelope.
func Respond(c echo.Context, r Result) error {
	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}

	body := map[string]any{"success": true}
	if r.Message != "" {
		body["message"] = r.Message
	}
	if r.Key != "" {
		body[r.Key] = r.Data
	}
	if r.Count != nil {
		body["count"] = *r.Count
	}
	if r.Token != "" {
		body["token"] = r.Token
	}
	return c.JSON(status, body)
}

func ok(key string, data any) Result {
	return Result{Key: key, Data: data}
}

func listed[T any](key string, items []T) Result {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	return Result{Key: key, Data: items, Count: &n}
}

func message(status int, msg string) Result {
	return Result{Status: status, Message: msg}
}
