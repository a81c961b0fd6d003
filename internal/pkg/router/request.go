package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/gomfa/internal/pkg/goerror"
)

// Request wraps http.Request with helpers for inbound handlers.
type Request struct {
	// Request is the underlying http.Request.
	*http.Request
}

// GetParam reads a path parameter from the request context (as stored by httprouter).
func (r *Request) GetParam(key string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(key)
}

// GetParamInt64 reads a path parameter and parses it as a signed integer.
func (r *Request) GetParamInt64(key string) (int64, error) {
	value, err := strconv.ParseInt(r.GetParam(key), 10, 64)
	if err != nil {
		return 0, goerror.NewInvalidFormat("param must integer value")
	}
	return value, nil
}

// DecodeBody decodes the JSON body into dst, rejecting unknown fields and
// trailing garbage.
func (r *Request) DecodeBody(dst any) error {
	if r == nil || r.Body == nil {
		return goerror.NewInvalidFormat()
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return goerror.NewInvalidFormat()
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return goerror.NewInvalidFormat()
	}

	return nil
}
