package lawharvest_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ddobak/lawharvest"
	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	t.Parallel()

	t.Run("returns code from application error", func(t *testing.T) {
		t.Parallel()
		err := lawharvest.Errorf(lawharvest.EINVALID, "bad input")
		assert.Equal(t, lawharvest.EINVALID, lawharvest.ErrorCode(err))
	})

	t.Run("returns code from wrapped application error", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("outer: %w", lawharvest.Errorf(lawharvest.ENOTFOUND, "missing"))
		assert.Equal(t, lawharvest.ENOTFOUND, lawharvest.ErrorCode(err))
	})

	t.Run("returns EINTERNAL for plain errors", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, lawharvest.EINTERNAL, lawharvest.ErrorCode(errors.New("boom")))
	})

	t.Run("returns empty string for nil", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", lawharvest.ErrorCode(nil))
	})
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("returns message from application error", func(t *testing.T) {
		t.Parallel()
		err := lawharvest.Errorf(lawharvest.EUNAUTHORIZED, "session cookie not present")
		assert.Equal(t, "session cookie not present", lawharvest.ErrorMessage(err))
	})

	t.Run("masks plain errors", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Internal error.", lawharvest.ErrorMessage(errors.New("boom")))
	})
}
