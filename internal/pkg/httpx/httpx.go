package httpx

import (
	"errors"
	"net/http"
)

// HTTPStatusCoder is implemented by domain errors that know their HTTP status.
type HTTPStatusCoder interface {
	HTTPStatusCode() int
}

// StatusFor maps an error to an HTTP status code, defaulting to 500.
func StatusFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var sc HTTPStatusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatusCode()
	}
	return http.StatusInternalServerError
}
