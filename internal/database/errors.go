package database

import (
	"errors"
	"fmt"

	"github.com/gocql/gocql"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrAlreadyExists    = errors.New("record already exists")
	ErrPermissionDenied = errors.New("permission denied")
)

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gocql.ErrNotFound) {
		return ErrNotFound
	}
	var reqErr gocql.RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.Code() {
		case gocql.ErrCodeUnauthorized, gocql.ErrCodeCredentials:
			return fmt.Errorf("%w: %s", ErrPermissionDenied, reqErr.Message())
		}
	}
	return err
}
