package services

import (
	"strings"

	"capsule-desk-backend/store/models"
)

// RecommendCapsule picks the capsule to suggest for a new check-in. The input
// is the available roster (occupied and non-rentable capsules already
// excluded); nil means nothing to suggest.
//
// House rules: female guests go to the back section, everyone else to the
// front, and in both cases only bottom capsules qualify for the section pass.
// When the section holds no qualifying capsule (or no gender was given), the
// general fallback runs over the whole roster, bottom capsules first. Lowest
// number wins every tie. Pure function of its inputs; the caller re-runs it
// whenever gender or availability changes and decides whether the suggestion
// may overwrite the currently selected capsule.
func RecommendCapsule(gender string, available []models.Capsule) *models.Capsule {
	if len(available) == 0 {
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(gender)) {
	case "":
		// No gender given: skip straight to the fallback.
	case models.GenderFemale:
		if pick := lowestMatching(available, func(c *models.Capsule) bool {
			return c.Section == models.SectionBack && isBottom(c)
		}); pick != nil {
			return pick
		}
	default:
		if pick := lowestMatching(available, func(c *models.Capsule) bool {
			return c.Section == models.SectionFront && isBottom(c)
		}); pick != nil {
			return pick
		}
	}

	if pick := lowestMatching(available, isBottom); pick != nil {
		return pick
	}
	return lowestMatching(available, func(*models.Capsule) bool { return true })
}

// isBottom reports whether a capsule is a bottom bunk. The hostel numbers its
// capsules so bottom bunks carry even numbers.
func isBottom(c *models.Capsule) bool {
	return ParseCapsuleNumber(c.Number).Number%2 == 0
}

// lowestMatching returns a copy of the lowest-numbered capsule satisfying the
// predicate, in natural order, or nil when none does.
func lowestMatching(capsules []models.Capsule, match func(*models.Capsule) bool) *models.Capsule {
	var best *models.Capsule
	for i := range capsules {
		if !match(&capsules[i]) {
			continue
		}
		if best == nil || CompareCapsuleNumbers(capsules[i].Number, best.Number) < 0 {
			best = &capsules[i]
		}
	}
	if best == nil {
		return nil
	}
	pick := *best
	return &pick
}
