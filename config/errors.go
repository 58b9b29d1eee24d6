package config

import (
	"errors"
	"fmt"
)

var (
	ErrMissing = errors.New("not set")
	ErrInvalid = errors.New("invalid value")
)

// KeyError reports the configuration key that stopped Load.
type KeyError struct {
	Key    string
	Err    error
	Reason string
}

func (e *KeyError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("config %s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("config %s: %v: %s", e.Key, e.Err, e.Reason)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

func missing(key string) error {
	return &KeyError{Key: key, Err: ErrMissing}
}

func invalid(key string, format string, a ...any) error {
	return &KeyError{Key: key, Err: ErrInvalid, Reason: fmt.Sprintf(format, a...)}
}
