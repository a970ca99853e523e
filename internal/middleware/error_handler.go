package middleware

import (
	"errors"
)

// MergeErrors drains errCh and joins everything received into one error, nil when none were sent.
func MergeErrors(errCh <-chan error) error {
	result := []error{}
	for err := range errCh {
		if err != nil {
			result = append(result, err)
		}
	}

	return errors.Join(result...)
}
