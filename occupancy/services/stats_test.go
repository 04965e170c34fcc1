package services

import (
	"fmt"
	"testing"
	"time"

	store_models "capsule-desk-backend/store/models"

	"github.com/stretchr/testify/assert"
)

func TestComputeOccupancyStats(t *testing.T) {
	now := fixedNow()
	c3 := "C3"
	c4 := "C4"

	guests := []store_models.Guest{
		checkedInGuest("g1", "Aisyah", "C1"),
		checkedInGuest("g2", "Ben", "C2"),
	}
	expired := activeToken("t2", "Too Late", &c4)
	expired.ExpiresAt = now.Add(-time.Minute)
	tokens := []store_models.GuestToken{
		activeToken("t1", "Walk In", &c3),
		expired,
	}

	offline := rentableCapsule("C5", store_models.SectionFront)
	notForRent := false
	offline.ToRent = &notForRent
	capsules := []store_models.Capsule{
		rentableCapsule("C1", store_models.SectionBack),
		rentableCapsule("C2", store_models.SectionBack),
		rentableCapsule("C3", store_models.SectionMiddle),
		rentableCapsule("C4", store_models.SectionFront),
		offline,
	}

	stats := ComputeOccupancyStats(guests, tokens, capsules, now)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 2, stats.Occupied)
	assert.Equal(t, 1, stats.Pending)
	// C4's token expired and C5 is not for rent, so only C4 counts as free.
	assert.Equal(t, 1, stats.Available)
	assert.Equal(t, 40.0, stats.OccupancyRate)
	assert.Equal(t, "2026-03-14", stats.Date.String())
}

func TestComputeOccupancyStatsRoundsRateToOneDecimal(t *testing.T) {
	guests := make([]store_models.Guest, 0, 18)
	capsules := make([]store_models.Capsule, 0, 22)
	for i := 1; i <= 22; i++ {
		number := fmt.Sprintf("C%d", i)
		capsules = append(capsules, rentableCapsule(number, store_models.SectionBack))
		if i <= 18 {
			guests = append(guests, checkedInGuest(fmt.Sprintf("g%d", i), "Guest", number))
		}
	}

	stats := ComputeOccupancyStats(guests, nil, capsules, fixedNow())

	// 18/22 = 81.818...%, reported with one decimal place.
	assert.Equal(t, 81.8, stats.OccupancyRate)
}

func TestComputeOccupancyStatsEmptyRoster(t *testing.T) {
	stats := ComputeOccupancyStats(nil, nil, nil, fixedNow())

	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.Occupied)
	assert.Equal(t, 0.0, stats.OccupancyRate)
}
