package services

import (
	"testing"
	"time"

	"capsule-desk-backend/store/models"

	"github.com/stretchr/testify/assert"
)

func TestFilterReservedDropsActiveTokenClaims(t *testing.T) {
	now := time.Now()
	c5 := "C5"

	available := []models.Capsule{{Number: "C4"}, {Number: "C5"}, {Number: "C6"}}
	tokens := []models.GuestToken{
		{ID: "t1", CapsuleNumber: &c5, ExpiresAt: now.Add(time.Hour)},
	}

	out := FilterReserved(available, tokens, now)

	assert.Len(t, out, 2)
	assert.Equal(t, "C4", out[0].Number)
	assert.Equal(t, "C6", out[1].Number)
}

func TestFilterReservedIgnoresInactiveTokens(t *testing.T) {
	now := time.Now()
	c4 := "C4"
	c5 := "C5"

	available := []models.Capsule{{Number: "C4"}, {Number: "C5"}}
	tokens := []models.GuestToken{
		// Expired an hour ago.
		{ID: "t1", CapsuleNumber: &c4, ExpiresAt: now.Add(-time.Hour)},
		// Already consumed at check-in.
		{ID: "t2", CapsuleNumber: &c5, ExpiresAt: now.Add(time.Hour), IsUsed: true},
	}

	out := FilterReserved(available, tokens, now)
	assert.Len(t, out, 2)
}

func TestFilterReservedIgnoresAutoAssignTokens(t *testing.T) {
	now := time.Now()

	available := []models.Capsule{{Number: "C4"}}
	tokens := []models.GuestToken{
		// No capsule claimed yet; assignment happens at check-in.
		{ID: "t1", CapsuleNumber: nil, ExpiresAt: now.Add(time.Hour)},
	}

	out := FilterReserved(available, tokens, now)
	assert.Len(t, out, 1)
}

func TestFilterReservedNoTokens(t *testing.T) {
	available := []models.Capsule{{Number: "C4"}, {Number: "C5"}}

	out := FilterReserved(available, nil, time.Now())
	assert.Equal(t, available, out)
}
