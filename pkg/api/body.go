package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/ohler55/ojg/oj"

	"github.com/getmockd/seedapi/pkg/record"
)

// DefaultMaxBodyBytes is the request body limit when none is configured.
const DefaultMaxBodyBytes int64 = 100 << 10

// BodyError reports a request body that could not be turned into a record.
type BodyError struct {
	Status int
	Msg    string
	Err    error
}

func (e *BodyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *BodyError) Unwrap() error {
	return e.Err
}

// StatusCode returns 400, or 413 for an oversize body.
func (e *BodyError) StatusCode() int {
	if e.Status == 0 {
		return http.StatusBadRequest
	}
	return e.Status
}

// decodeRecord reads r's body as a JSON object. An empty body, or one sent
// without an application/json content type, yields an empty record.
func decodeRecord(w http.ResponseWriter, r *http.Request, limit int64) (record.Record, error) {
	if r.Body == nil || !isJSON(r.Header.Get("Content-Type")) {
		return record.Record{}, nil
	}
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &BodyError{
				Status: http.StatusRequestEntityTooLarge,
				Msg:    fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
			}
		}
		return nil, &BodyError{Msg: "cannot read request body", Err: err}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return record.Record{}, nil
	}

	v, err := oj.Parse(data)
	if err != nil {
		return nil, &BodyError{Msg: "invalid JSON body", Err: err}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &BodyError{Msg: "request body must be a JSON object"}
	}
	return record.Record(obj), nil
}

// isJSON reports whether a body with this content type is parsed. Only
// application/json qualifies; a missing content type or a +json suffix type
// leaves the body unread.
func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json"
}
