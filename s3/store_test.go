package s3_test

import (
	"context"
	"testing"

	"github.com/ddobak/lawharvest"
	"github.com/ddobak/lawharvest/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	t.Parallel()

	t.Run("requires a bucket", func(t *testing.T) {
		t.Parallel()
		_, err := s3.NewStore(context.Background(), s3.Options{})
		require.Error(t, err)
		assert.Equal(t, lawharvest.EINVALID, lawharvest.ErrorCode(err))
	})
}
