package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/shandysiswandi/gomailer/internal/pkg/goerror"
)

// MaxBodyBytes caps the JSON request body accepted by DecodeBody.
const MaxBodyBytes int64 = 1 << 20 // 1MB

// Request wraps http.Request with helpers for inbound handlers.
type Request struct {
	// Request is the underlying http.Request.
	*http.Request
}

// DecodeBody decodes the JSON body into dst.
//
// Unknown fields are ignored. Trailing data and bodies over MaxBodyBytes are
// rejected with an invalid format error.
func (r *Request) DecodeBody(dst any) error {
	if r == nil || r.Request == nil || r.Body == nil {
		return goerror.NewInvalidFormat()
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))

	if err := dec.Decode(dst); err != nil {
		return goerror.NewInvalidFormat()
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return goerror.NewInvalidFormat()
	}

	return nil
}
