package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"techsite/web/internal/backend"
)

func TestRunWhoamiPrintsUser(t *testing.T) {
	ta := newTestApp(t)
	access := ta.token(time.Hour)
	ta.seed(t, access, "ref")
	ta.api.On("GetMe", mock.Anything, access).Return(ada, nil).Once()

	var out bytes.Buffer
	require.NoError(t, runWhoami(context.Background(), ta.app, &out))

	assert.Contains(t, out.String(), "Current user: Ada Lovelace <ada@example.com>")
	ta.api.AssertExpectations(t)
}

func TestRunWhoamiRefreshesExpiredSession(t *testing.T) {
	ta := newTestApp(t)
	ta.seed(t, ta.token(-time.Minute), "ref-1")
	fresh := ta.token(time.Hour)
	ta.api.On("RefreshToken", mock.Anything, "ref-1").
		Return(backend.TokenPair{AccessToken: fresh, RefreshToken: "ref-2"}, nil).Once()
	ta.api.On("GetMe", mock.Anything, fresh).Return(ada, nil).Once()

	var out bytes.Buffer
	require.NoError(t, runWhoami(context.Background(), ta.app, &out))

	assert.Contains(t, out.String(), "Ada Lovelace")
	rt, _ := ta.store.RefreshToken()
	assert.Equal(t, "ref-2", rt)
	ta.api.AssertExpectations(t)
}

func TestRunWhoamiNotLoggedInAfterFailedLookup(t *testing.T) {
	ta := newTestApp(t)
	access := ta.token(time.Hour)
	ta.seed(t, access, "ref")
	ta.api.On("GetMe", mock.Anything, access).Return(nil, errors.New("boom")).Once()

	var out bytes.Buffer
	require.NoError(t, runWhoami(context.Background(), ta.app, &out))

	assert.Contains(t, out.String(), "not logged in")
	ta.requireCleared(t)
}

func TestRunWhoamiWithoutSession(t *testing.T) {
	ta := newTestApp(t)

	var out bytes.Buffer
	require.NoError(t, runWhoami(context.Background(), ta.app, &out))

	assert.Contains(t, out.String(), "not logged in")
	ta.api.AssertNotCalled(t, "GetMe", mock.Anything, mock.Anything)
}
