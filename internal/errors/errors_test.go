package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindSurvivesWrapping(t *testing.T) {
	base := stderrors.New("401")
	err := fmt.Errorf("load: %w", Wrap(RefreshFailed, "refresh rejected", base))

	assert.Equal(t, RefreshFailed, KindOf(err))
	assert.True(t, Is(err, RefreshFailed))
	assert.False(t, Is(err, LogoutFailed))
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "load: refresh_failed: refresh rejected: 401", err.Error())
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(stderrors.New("x")))
	assert.False(t, Is(nil, RefreshFailed))
	assert.Equal(t, "sign_in_failed: bad password", New(SignInFailed, "bad password").Error())
}
