package errx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMatchesSentinelByKind(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := fmt.Errorf("send: %w", Newf(KindProviderCallFailed, cause, "provider call failed"))

	assert.True(t, errors.Is(err, ErrProviderCallFailed))
	assert.False(t, errors.Is(err, ErrProviderUnavailable))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, KindProviderCallFailed, KindOf(err))
	assert.Equal(t, "provider call failed: dial tcp: refused", errors.Unwrap(err).Error())
}

func TestSafeMessage(t *testing.T) {
	assert.Equal(t, "", SafeMessage(nil))
	assert.Equal(t, SystemErrorMessage, SafeMessage(errors.New("secret detail")))

	err := New(KindProviderUnavailable, errors.New("quota exceeded"), http.StatusServiceUnavailable, ProviderUnavailableMessage)
	assert.Equal(t, ProviderUnavailableMessage, SafeMessage(err))
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("x")))
}

func TestWrapRedis(t *testing.T) {
	require.NoError(t, WrapRedis(nil))

	notFound := WrapRedis(redis.Nil)
	assert.True(t, errors.Is(notFound, ErrNotFound))
	assert.True(t, errors.Is(notFound, redis.Nil))

	other := WrapRedis(errors.New("connection reset"))
	assert.True(t, errors.Is(other, ErrStorage))
	var appErr *AppError
	require.True(t, errors.As(other, &appErr))
	assert.Equal(t, http.StatusBadGateway, appErr.Status)
}
