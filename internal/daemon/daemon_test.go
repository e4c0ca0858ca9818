package daemon

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaladdle/rcopy/internal/copyerr"
)

func TestNew_ResolvesAddress(t *testing.T) {
	d, err := New("127.0.0.1:9000", nil)
	require.NoError(t, err)
	assert.Equal(t, 9000, d.Addr().Port)
	assert.True(t, d.Addr().IP.IsLoopback())
}

func TestNew_BadAddress(t *testing.T) {
	for _, hostport := range []string{"no-port", "127.0.0.1:notaport", "127.0.0.1:99999"} {
		t.Run(hostport, func(t *testing.T) {
			_, err := New(hostport, nil)
			assert.Error(t, err)
		})
	}
}

func TestServe_NotImplemented(t *testing.T) {
	d, err := New("127.0.0.1:0", nil)
	require.NoError(t, err)

	err = d.Serve(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, copyerr.ErrNotImplemented)
	assert.True(t, copyerr.IsKind(err, copyerr.NotImplemented))
	assert.False(t, copyerr.IsRetryable(err))
}

func TestServe_CancelledContext(t *testing.T) {
	d, err := New("127.0.0.1:0", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, d.Serve(ctx), context.Canceled)
}
