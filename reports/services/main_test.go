package services

import (
	"os"
	"testing"
	"time"

	"capsule-desk-backend/config"
	"capsule-desk-backend/utils"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	config.Logger = zap.NewNop()

	loc, err := time.LoadLocation("Asia/Kuala_Lumpur")
	if err != nil {
		loc = time.FixedZone("MYT", 8*60*60)
	}
	utils.DateLocation = loc

	os.Exit(m.Run())
}
