package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDup = errors.New("simulated duplicate key")

func isSimulatedDup(err error) bool {
	return errors.Is(err, errDup)
}

func TestWithRetries_SuccessFirstAttempt(t *testing.T) {
	calls := 0
	op := func() error {
		calls++
		return nil
	}
	err := WithRetries(op, 3, isSimulatedDup)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetries_NonDuplicateKeyReturnsImmediately(t *testing.T) {
	boom := errors.New("connection reset")
	calls := 0
	op := func() error {
		calls++
		return boom
	}
	err := WithRetries(op, 3, isSimulatedDup)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestWithRetries_ExhaustsRetries(t *testing.T) {
	calls := 0
	op := func() error {
		calls++
		return errDup
	}
	err := WithRetries(op, 2, isSimulatedDup)
	require.Error(t, err)
	assert.ErrorIs(t, err, errDup)
	assert.Equal(t, 3, calls) // initial attempt + 2 retries
}

func TestWithRetries_CollisionResolves(t *testing.T) {
	calls := 0
	op := func() error {
		calls++
		if calls < 3 {
			return errDup
		}
		return nil
	}
	err := WithRetries(op, 3, isSimulatedDup)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestIsMongoDuplicateKeyError_NonMongoErrors(t *testing.T) {
	assert.False(t, IsMongoDuplicateKeyError(nil))
	assert.False(t, IsMongoDuplicateKeyError(errors.New("plain error")))
}
