package llm

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError representa una respuesta no-2xx del proveedor.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("llm http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("llm http error: status=%d body=%s", e.StatusCode, e.Body)
}

// IsRateLimited indica si err proviene de un 429 del proveedor.
func IsRateLimited(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// StatusCode devuelve el status upstream embebido en err, o 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
