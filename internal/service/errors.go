package service

import (
	"errors"
	"fmt"

	"friendship-match/internal/domain"
)

var (
	ErrEmptyUserID        = errors.New("user id is required")
	ErrProfileIncomplete  = errors.New("profile not ready for matching")
	ErrRateLimited        = errors.New("rate limited")
	ErrInvalidMatchConfig = errors.New("invalid matcher config")
	ErrSessionNotFound    = errors.New("session not found")
)

// ExtractionError indica que el mensaje de entrada esta mal formado.
// No encontrar senal NO es un error: eso es una TraitSignal con peso 0.
type ExtractionError struct {
	Reason string
}

func (e *ExtractionError) Error() string {
	return "extraction error: " + e.Reason
}

// InvalidSignalError indica una senal fuera de dominio (bug de integracion, no del usuario).
type InvalidSignalError struct {
	Field string
	Trait domain.Trait
	Value float64
}

func (e *InvalidSignalError) Error() string {
	if e.Field == "delta" {
		return fmt.Sprintf("invalid signal: delta for %s out of range: %v", e.Trait, e.Value)
	}
	return fmt.Sprintf("invalid signal: %s out of range: %v", e.Field, e.Value)
}

// IsExtractionError reporta si err (o algo que envuelve) es un ExtractionError.
func IsExtractionError(err error) bool {
	var target *ExtractionError
	return errors.As(err, &target)
}

// IsInvalidSignalError reporta si err (o algo que envuelve) es un InvalidSignalError.
func IsInvalidSignalError(err error) bool {
	var target *InvalidSignalError
	return errors.As(err, &target)
}
