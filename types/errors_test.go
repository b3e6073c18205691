package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	t.Run("errors.Is works correctly", func(t *testing.T) {
		require.True(t, errors.Is(ErrKeyNotFound, ErrKeyNotFound))
		require.False(t, errors.Is(ErrKeyNotFound, ErrNilKeyOrValue))

		// Wrapped errors maintain identity
		wrapped := fmt.Errorf("get %q: %w", "traceId", ErrKeyNotFound)
		require.True(t, errors.Is(wrapped, ErrKeyNotFound))

		joined := errors.Join(ErrHookFailure, errors.New("boom"))
		require.True(t, errors.Is(joined, ErrHookFailure))
	})

	t.Run("all errors are distinct", func(t *testing.T) {
		allErrors := []error{
			// Context errors
			ErrKeyNotFound,
			ErrNilKeyOrValue,
			ErrDuplicateKey,
			// Protocol errors
			ErrNilValue,
			ErrNilError,
			ErrNilSubscription,
			ErrHookFailure,
			// Bridge errors
			ErrInvalidConfig,
			ErrConnectionRequired,
			ErrPublisherClosed,
		}

		for i, err1 := range allErrors {
			for j, err2 := range allErrors {
				if i == j {
					require.True(t, errors.Is(err1, err2), "error should equal itself: %v", err1)
				} else {
					require.False(t, errors.Is(err1, err2), "errors should be distinct: %v vs %v", err1, err2)
				}
			}
		}
	})
}
