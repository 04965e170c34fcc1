package token

import (
	"os"
	"testing"
	"time"

	"capsule-desk-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSymmetricKey = "12345678901234567890123456789012"

func TestMain(m *testing.M) {
	loc, err := time.LoadLocation("Asia/Kuala_Lumpur")
	if err != nil {
		loc = time.FixedZone("MYT", 8*60*60)
	}
	utils.DateLocation = loc

	os.Exit(m.Run())
}

func TestPasetoMakerRoundTrip(t *testing.T) {
	maker, err := NewPasetoMaker(testSymmetricKey)
	require.NoError(t, err)

	token, err := maker.CreateToken("frontdesk@pelangi.example", time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	payload, err := maker.VerifyToken(token)
	require.NoError(t, err)
	require.NotNil(t, payload)

	assert.Equal(t, "frontdesk@pelangi.example", payload.Email)
	assert.NotZero(t, payload.ID)
	assert.WithinDuration(t, payload.IssuedAt.Add(time.Minute), payload.ExpiredAt, time.Second)
}

func TestPasetoMakerRejectsExpiredToken(t *testing.T) {
	maker, err := NewPasetoMaker(testSymmetricKey)
	require.NoError(t, err)

	token, err := maker.CreateToken("frontdesk@pelangi.example", time.Millisecond)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	payload, err := maker.VerifyToken(token)
	assert.Nil(t, payload)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestPasetoMakerRejectsWrongKeySize(t *testing.T) {
	maker, err := NewPasetoMaker("too-short")
	assert.Nil(t, maker)
	assert.Error(t, err)
}

func TestPasetoMakerRejectsForeignToken(t *testing.T) {
	maker, err := NewPasetoMaker(testSymmetricKey)
	require.NoError(t, err)
	other, err := NewPasetoMaker("abcdefghijklmnopqrstuvwxyz123456")
	require.NoError(t, err)

	token, err := other.CreateToken("frontdesk@pelangi.example", time.Minute)
	require.NoError(t, err)

	payload, err := maker.VerifyToken(token)
	assert.Nil(t, payload)
	assert.Error(t, err)
}

func TestPasetoMakerRejectsGarbage(t *testing.T) {
	maker, err := NewPasetoMaker(testSymmetricKey)
	require.NoError(t, err)

	payload, err := maker.VerifyToken("v2.local.not-a-real-token")
	assert.Nil(t, payload)
	assert.Error(t, err)
}

func TestNewPayloadValidation(t *testing.T) {
	_, err := NewPayload("", time.Minute)
	assert.Error(t, err)

	_, err = NewPayload("frontdesk@pelangi.example", 0)
	assert.Error(t, err)
}
