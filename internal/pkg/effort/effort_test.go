package effort

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestTry_Success(t *testing.T) {
	out := Try(zap.NewNop(), "noop", func() error { return nil })
	assert.True(t, out.OK())
	assert.NoError(t, out.Err)
}

func TestTry_CapturesError(t *testing.T) {
	boom := errors.New("boom")
	out := Try(zap.NewNop(), "failing", func() error { return boom })
	assert.False(t, out.OK())
	assert.ErrorIs(t, out.Err, boom)
	assert.Equal(t, "failing", out.Name)
}

func TestTry_CapturesPanic(t *testing.T) {
	out := Try(zap.NewNop(), "panicking", func() error { panic("kaboom") })
	assert.False(t, out.OK())
	assert.Contains(t, out.Err.Error(), "kaboom")
}
