package services

import (
	"testing"

	"capsule-desk-backend/store/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capsuleIn(number, section string) models.Capsule {
	return models.Capsule{Number: number, Section: section, IsAvailable: true}
}

func TestRecommendCapsuleFemaleGetsBackBottom(t *testing.T) {
	available := []models.Capsule{
		capsuleIn("C1", models.SectionBack),
		capsuleIn("C4", models.SectionBack),
		capsuleIn("C2", models.SectionBack),
		capsuleIn("C6", models.SectionFront),
	}

	pick := RecommendCapsule("female", available)
	require.NotNil(t, pick)
	assert.Equal(t, "C2", pick.Number)
}

func TestRecommendCapsuleMaleGetsFrontBottom(t *testing.T) {
	available := []models.Capsule{
		capsuleIn("C2", models.SectionBack),
		capsuleIn("C21", models.SectionFront),
		capsuleIn("C24", models.SectionFront),
		capsuleIn("C22", models.SectionFront),
	}

	pick := RecommendCapsule("male", available)
	require.NotNil(t, pick)
	assert.Equal(t, "C22", pick.Number)
}

func TestRecommendCapsuleUnknownGenderTreatedLikeMale(t *testing.T) {
	available := []models.Capsule{
		capsuleIn("C2", models.SectionBack),
		capsuleIn("C12", models.SectionFront),
	}

	pick := RecommendCapsule("other", available)
	require.NotNil(t, pick)
	assert.Equal(t, "C12", pick.Number)
}

func TestRecommendCapsuleNoGenderSkipsSectionPass(t *testing.T) {
	// Lowest bottom bunk wins regardless of section when no gender is given.
	available := []models.Capsule{
		capsuleIn("C12", models.SectionFront),
		capsuleIn("C2", models.SectionBack),
		capsuleIn("C1", models.SectionFront),
	}

	pick := RecommendCapsule("", available)
	require.NotNil(t, pick)
	assert.Equal(t, "C2", pick.Number)
}

func TestRecommendCapsuleFallsBackWhenSectionExhausted(t *testing.T) {
	// Back section has only top bunks, so the female pass falls through to
	// the general bottom-first fallback.
	available := []models.Capsule{
		capsuleIn("C1", models.SectionBack),
		capsuleIn("C3", models.SectionBack),
		capsuleIn("C8", models.SectionFront),
	}

	pick := RecommendCapsule("female", available)
	require.NotNil(t, pick)
	assert.Equal(t, "C8", pick.Number)
}

func TestRecommendCapsuleFallsBackToLowestWhenNoBottoms(t *testing.T) {
	available := []models.Capsule{
		capsuleIn("C3", models.SectionFront),
		capsuleIn("C1", models.SectionBack),
	}

	pick := RecommendCapsule("female", available)
	require.NotNil(t, pick)
	assert.Equal(t, "C1", pick.Number)
}

func TestRecommendCapsuleNothingAvailable(t *testing.T) {
	assert.Nil(t, RecommendCapsule("female", nil))
	assert.Nil(t, RecommendCapsule("male", []models.Capsule{}))
}

func TestRecommendCapsuleNormalizesGender(t *testing.T) {
	available := []models.Capsule{
		capsuleIn("C2", models.SectionBack),
		capsuleIn("C4", models.SectionFront),
	}

	pick := RecommendCapsule("  FEMALE ", available)
	require.NotNil(t, pick)
	assert.Equal(t, "C2", pick.Number)
}

func TestRecommendCapsuleDeterministicAcrossInputOrder(t *testing.T) {
	first := []models.Capsule{
		capsuleIn("C6", models.SectionBack),
		capsuleIn("C2", models.SectionBack),
		capsuleIn("C4", models.SectionBack),
	}
	second := []models.Capsule{
		capsuleIn("C4", models.SectionBack),
		capsuleIn("C6", models.SectionBack),
		capsuleIn("C2", models.SectionBack),
	}

	pickFirst := RecommendCapsule("female", first)
	pickSecond := RecommendCapsule("female", second)
	require.NotNil(t, pickFirst)
	require.NotNil(t, pickSecond)
	assert.Equal(t, pickFirst.Number, pickSecond.Number)
}

func TestRecommendCapsuleReturnsCopy(t *testing.T) {
	available := []models.Capsule{capsuleIn("C2", models.SectionBack)}

	pick := RecommendCapsule("female", available)
	require.NotNil(t, pick)

	pick.Number = "changed"
	assert.Equal(t, "C2", available[0].Number)
}
