// Copyright (c) 2025 Techsite
// Licensed under the MIT License. See LICENSE file in the project root for details.

package keychain

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerSetGetDelete(t *testing.T) {
	m := NewManager(keyring.NewArrayKeyring(nil))

	_, err := m.Get(KeyAccessToken)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Set(KeyAccessToken, "a1"))
	require.NoError(t, m.Set(KeyAccessToken, "a2"))
	v, err := m.Get(KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "a2", v)

	require.NoError(t, m.Delete(KeyAccessToken))
	require.NoError(t, m.Delete(KeyAccessToken))
	_, err = m.Get(KeyAccessToken)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerEmptyValueIsNotFound(t *testing.T) {
	m := NewManager(keyring.NewArrayKeyring([]keyring.Item{{Key: KeyRefreshToken}}))
	_, err := m.Get(KeyRefreshToken)
	assert.ErrorIs(t, err, ErrNotFound)
}
