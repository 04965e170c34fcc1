package utils

import (
	"fmt"
	"time"

	occupancy_models "capsule-desk-backend/occupancy/models"

	"github.com/xuri/excelize/v2"
)

var occupancyExportHeaders = []string{
	"Capsule", "Kind", "Name", "Section", "Check-in", "Expected Checkout",
	"Paid", "Amount", "Nationality", "Phone", "Cleaning Status",
}

// BuildOccupancyWorkbook renders the occupancy rows into a spreadsheet, one
// row per combined item, in the order given. The caller streams the workbook
// out with WriteToBuffer; nothing touches disk.
func BuildOccupancyWorkbook(items []occupancy_models.CombinedItem) (*excelize.File, error) {
	f := excelize.NewFile()

	sheetName := "Occupancy"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet: %v", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("error removing default sheet: %v", err)
	}

	for col, header := range occupancyExportHeaders {
		cell := fmt.Sprintf("%s1", string(rune(65+col))) // A1, B1, C1, etc.
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("error setting header %s: %v", header, err)
		}
	}

	for row := range items {
		values := occupancyRowValues(&items[row])
		for col, value := range values {
			cell := fmt.Sprintf("%s%d", string(rune(65+col)), row+2)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("error setting cell %s: %v", cell, err)
			}
		}
	}

	f.SetActiveSheet(index)
	return f, nil
}

func occupancyRowValues(item *occupancy_models.CombinedItem) []interface{} {
	capsule := item.CapsuleNumber
	if capsule == "" {
		capsule = "(auto-assign)"
	}

	switch item.Kind {
	case occupancy_models.KindGuest:
		guest := item.Guest
		expected := ""
		if guest.ExpectedCheckoutDate != nil {
			expected = *guest.ExpectedCheckoutDate
		}
		paid := "No"
		if guest.IsPaid {
			paid = "Yes"
		}
		return []interface{}{
			capsule, "Guest", guest.Name, "",
			guest.CheckinTime.In(DateLocation).Format("2006-01-02 15:04"),
			expected, paid, guest.PaymentAmount.StringFixed(2),
			guest.Nationality, guest.PhoneNumber, "",
		}
	case occupancy_models.KindPending:
		pending := item.Pending
		return []interface{}{
			capsule, "Pending", pending.GuestName, "",
			pending.CreatedAt.In(DateLocation).Format("2006-01-02 15:04"),
			pending.ExpiresAt.In(DateLocation).Format("2006-01-02 15:04"),
			"", "", "", pending.PhoneNumber, "",
		}
	default:
		empty := item.Empty
		return []interface{}{
			capsule, "Empty", "", empty.Section,
			"", "", "", "", "", "", empty.CleaningStatus,
		}
	}
}

// ExportFileName names an occupancy download for the moment it was taken.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("occupancy_%s.xlsx", now.In(DateLocation).Format("2006-01-02_15-04-05"))
}
