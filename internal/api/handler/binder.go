package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/guiatnn/portal/internal/core/domain"
)

// strictBinder binds like echo.DefaultBinder but rejects JSON bodies that
// carry fields the request type does not declare.
type strictBinder struct {
	echo.DefaultBinder
}

// NewBinder returns the binder assigned to echo.Echo.Binder.
func NewBinder() echo.Binder {
	return &strictBinder{}
}

func (b *strictBinder) Bind(i any, c echo.Context) error {
	if err := b.BindPathParams(c, i); err != nil {
		return err
	}

	req := c.Request()
	method := req.Method
	if method == http.MethodGet || method == http.MethodDelete || method == http.MethodHead {
		if err := b.BindQueryParams(c, i); err != nil {
			return err
		}
	}
	if req.ContentLength == 0 {
		return nil
	}

	if !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return b.BindBody(c, i)
	}

	dec := json.NewDecoder(req.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(i); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return decodeError(err)
	}
	return nil
}

// decodeError turns a JSON decoding failure into a validation error that
// names the offending field when it can.
func decodeError(err error) error {
	if name, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		name = strings.Trim(name, `"`)
		return domain.NewValidationError(name, name+" is not allowed")
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return domain.NewValidationError(typeErr.Field, typeErr.Field+" has the wrong type")
	}
	return domain.NewValidationError("body", "invalid payload")
}
