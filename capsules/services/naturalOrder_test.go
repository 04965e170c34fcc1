package services

import (
	"testing"

	"capsule-desk-backend/store/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCapsuleNumber(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		prefix string
		number int
	}{
		{"standard", "C12", "C", 12},
		{"single digit", "A1", "A", 1},
		{"lowercase prefix", "c7", "C", 7},
		{"leading zeros", "C007", "C", 7},
		{"surrounding whitespace", "  B3 ", "B", 3},
		{"letters only", "LOFT", "LOFT", 0},
		{"empty", "", missingPrefix, missingNumber},
		{"blank", "   ", missingPrefix, missingNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := ParseCapsuleNumber(tt.input)
			assert.Equal(t, tt.prefix, parsed.Prefix)
			assert.Equal(t, tt.number, parsed.Number)
		})
	}
}

func TestCompareCapsuleNumbers(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"numeric not lexicographic", "C2", "C10", -1},
		{"reversed", "C10", "C2", 1},
		{"equal", "C7", "C7", 0},
		{"case insensitive equal", "c2", "C2", 0},
		{"prefix before number", "A9", "B1", -1},
		{"bare prefix before numbered", "C", "C2", -1},
		{"real before missing", "C1", "", -1},
		{"missing after real", "", "C99", 1},
		{"both missing", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareCapsuleNumbers(tt.a, tt.b))
		})
	}
}

func TestSortCapsuleNumbers(t *testing.T) {
	numbers := []string{"C11", "A3", "C2", "B10", "B2", "C1"}
	SortCapsuleNumbers(numbers)
	assert.Equal(t, []string{"A3", "B2", "B10", "C1", "C2", "C11"}, numbers)
}

func TestSortCapsuleNumbersMissingLast(t *testing.T) {
	numbers := []string{"", "C3", "C10"}
	SortCapsuleNumbers(numbers)
	assert.Equal(t, []string{"C3", "C10", ""}, numbers)
}

func TestSortCapsulesStable(t *testing.T) {
	capsules := []models.Capsule{
		{Number: "C2", Section: models.SectionBack},
		{Number: "C2", Section: models.SectionFront},
		{Number: "C1", Section: models.SectionMiddle},
	}

	SortCapsules(capsules)

	require.Len(t, capsules, 3)
	assert.Equal(t, "C1", capsules[0].Number)
	// Equal numbers keep their input order.
	assert.Equal(t, models.SectionBack, capsules[1].Section)
	assert.Equal(t, models.SectionFront, capsules[2].Section)
}
