package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	inErrors "github.com/Alturino/plantstore/internal/errors"
)

// DecodeJson decodes the request body into v. An undecodable body is
// reported as a validation error so it maps to 400. An empty body leaves v
// untouched.
func DecodeJson(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errors.Join(
			fmt.Errorf("failed decoding request body with error=%w", err),
			&inErrors.ValidationError{
				Fields:  map[string]string{"body": "is not valid json"},
				Message: "Malformed request body",
			},
		)
	}
	return nil
}
