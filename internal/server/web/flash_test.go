package web

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlezhnev/moviehub/internal/server/models"
)

func TestFlashSigner_RoundTrip(t *testing.T) {
	signer := NewFlashSigner("test_secret")

	token, err := signer.Sign(models.FlashError, "Please login to access this page")
	require.NoError(t, err)

	flash := signer.Parse(token)
	assert.Equal(t, "Please login to access this page", flash.Error)
	assert.Empty(t, flash.Success)
}

func TestFlashSigner_SuccessKind(t *testing.T) {
	signer := NewFlashSigner("test_secret")

	token, err := signer.Sign(models.FlashSuccess, "Movie added successfully!")
	require.NoError(t, err)

	flash := signer.Parse(token)
	assert.Equal(t, "Movie added successfully!", flash.Success)
	assert.Empty(t, flash.Error)
}

func TestFlashSigner_RejectsTamperedToken(t *testing.T) {
	signer := NewFlashSigner("test_secret")

	token, err := signer.Sign(models.FlashError, "original")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	assert.True(t, signer.Parse(tampered).Empty())
}

func TestFlashSigner_RejectsForeignSecret(t *testing.T) {
	other := NewFlashSigner("other_secret")
	token, err := other.Sign(models.FlashError, "forged")
	require.NoError(t, err)

	signer := NewFlashSigner("test_secret")
	assert.True(t, signer.Parse(token).Empty())
}

func TestFlashSigner_ExpiredTokenDropped(t *testing.T) {
	signer := NewFlashSigner("test_secret")
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	signer.now = func() time.Time { return start }

	token, err := signer.Sign(models.FlashError, "stale")
	require.NoError(t, err)

	signer.now = func() time.Time { return start.Add(anonFlashTTL + time.Minute) }
	assert.True(t, signer.Parse(token).Empty())
}

func TestFlashSigner_EmptyToken(t *testing.T) {
	signer := NewFlashSigner("test_secret")
	assert.True(t, signer.Parse("").Empty())
}
