package service

import (
	"LinkHub-Backend/internal/apperr"
	"testing"

	"github.com/stretchr/testify/require"
)

func assertNotFound(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func assertForbidden(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, apperr.ErrForbidden)
}

func assertBadRequest(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, apperr.ErrBadRequest)
}
