package service

import (
	"errors"
	"fmt"

	"petcare-ai/internal/repository"
)

var (
	// ErrModelUnavailable covers every generative model failure: not configured,
	// network, auth, quota, timeout or a malformed response.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrModelRateLimited is a quota failure; it also matches ErrModelUnavailable.
	ErrModelRateLimited = fmt.Errorf("%w: rate limited", ErrModelUnavailable)

	ErrKnowledgeUnavailable = errors.New("knowledge unavailable")
	ErrExtractorUnavailable = errors.New("document extractor unavailable")
)

// ClientInputError is a missing or malformed request field.
type ClientInputError struct {
	Field   string
	Message string
}

func (e *ClientInputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newClientInputError(field, message string) error {
	return &ClientInputError{Field: field, Message: message}
}

// PersistenceError is returned by the knowledge write path.
type PersistenceError = repository.PersistenceError
