package kafka

import (
	"errors"

	"github.com/IBM/sarama"
)

// PermanentError is a permanent error.
type PermanentError struct {
	Err error
}

func (e PermanentError) Error() string {
	if e.Err == nil {
		return "permanent error"
	}
	return e.Err.Error()
}

func (e PermanentError) Unwrap() error { return e.Err }

// Permanent returns a permanent error.
func Permanent(err error) error {
	return PermanentError{Err: err}
}

// IsPermanent reports whether resending the same notice cannot succeed.
func IsPermanent(err error) bool {
	var pe PermanentError
	return errors.As(err, &pe)
}

func classify(err error) error {
	switch {
	case errors.Is(err, sarama.ErrMessageSizeTooLarge),
		errors.Is(err, sarama.ErrInvalidMessage),
		errors.Is(err, sarama.ErrInvalidMessageSize):
		return Permanent(err)
	default:
		return err
	}
}
