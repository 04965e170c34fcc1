package services

import (
	"os"
	"testing"
	"time"

	"capsule-desk-backend/config"
	store_models "capsule-desk-backend/store/models"
	"capsule-desk-backend/utils"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	config.Logger = zap.NewNop()

	loc, err := time.LoadLocation("Asia/Kuala_Lumpur")
	if err != nil {
		// Environments without tzdata still get the hostel's offset.
		loc = time.FixedZone("MYT", 8*60*60)
	}
	utils.DateLocation = loc

	os.Exit(m.Run())
}

// =============================================================================
// SHARED FIXTURES
// =============================================================================

// fixedNow pins the merge instant so token-expiry and checkout-today checks
// stay deterministic.
func fixedNow() time.Time {
	return time.Date(2026, 3, 14, 10, 0, 0, 0, utils.DateLocation)
}

func checkedInGuest(id, name, capsule string) store_models.Guest {
	return store_models.Guest{
		ID:            id,
		Name:          name,
		CapsuleNumber: capsule,
		CheckinTime:   fixedNow().Add(-24 * time.Hour),
		IsCheckedIn:   true,
		IsPaid:        true,
	}
}

func activeToken(id, guestName string, capsule *string) store_models.GuestToken {
	return store_models.GuestToken{
		ID:            id,
		Token:         "tok-" + id,
		CapsuleNumber: capsule,
		GuestName:     &guestName,
		CreatedAt:     fixedNow().Add(-time.Hour),
		ExpiresAt:     fixedNow().Add(time.Hour),
	}
}

func rentableCapsule(number, section string) store_models.Capsule {
	return store_models.Capsule{
		ID:             "cap-" + number,
		Number:         number,
		Section:        section,
		IsAvailable:    true,
		CleaningStatus: store_models.CleaningCleaned,
	}
}
