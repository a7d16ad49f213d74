package network

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound  = errors.New("page not found")
	ErrForbidden = errors.New("access forbidden")
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("get %s: unexpected status %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Is lets errors.Is match 404 and 403 against the sentinels.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Code == http.StatusNotFound
	case ErrForbidden:
		return e.Code == http.StatusForbidden
	default:
		return false
	}
}
