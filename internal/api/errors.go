package api

import (
	"errors"
	"fmt"
)

var (
	// ErrHTTP marks non-2xx responses.
	ErrHTTP = errors.New("http error")
	// ErrAPI marks 2xx responses whose status field is "error".
	ErrAPI = errors.New("api error")
)

const unknownErrorMessage = "Unknown error occurred"

type HTTPError struct {
	StatusCode int
	// Detail is the server's explanation, if it sent one.
	Detail string
}

func (e *HTTPError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("HTTP error! status: %d (%s)", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return ErrHTTP
}

type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return ErrAPI
}
