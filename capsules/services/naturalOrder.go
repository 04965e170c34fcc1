package services

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"capsule-desk-backend/store/models"
)

// capsuleNumberPattern splits identifiers like "C12" into an alphabetic prefix
// and a numeric run.
var capsuleNumberPattern = regexp.MustCompile(`^([A-Za-z]+)(\d+)$`)

// Sentinels for missing identifiers: they sort after every real capsule.
const (
	missingPrefix = "ZZZ"
	missingNumber = math.MaxInt32
)

// ParsedCapsuleNumber is a capsule identifier split for natural ordering.
type ParsedCapsuleNumber struct {
	Prefix string
	Number int
}

// ParseCapsuleNumber splits a capsule identifier into prefix and number.
// "C12" parses to {C 12}. An identifier that does not match the
// prefix+digits shape becomes a pure prefix with number 0; an empty one gets
// the missing sentinels so it lands at the end of any ordering.
func ParseCapsuleNumber(id string) ParsedCapsuleNumber {
	id = strings.TrimSpace(id)
	if id == "" {
		return ParsedCapsuleNumber{Prefix: missingPrefix, Number: missingNumber}
	}

	match := capsuleNumberPattern.FindStringSubmatch(id)
	if match == nil {
		return ParsedCapsuleNumber{Prefix: strings.ToUpper(id), Number: 0}
	}

	number, _ := strconv.Atoi(match[2])
	return ParsedCapsuleNumber{Prefix: strings.ToUpper(match[1]), Number: number}
}

// CompareCapsuleNumbers orders two capsule identifiers naturally: prefixes
// compare case-insensitively, numbers compare arithmetically, so "C2" sorts
// before "C10". This is the only ordering rule for capsule numbers anywhere
// in the dashboard.
func CompareCapsuleNumbers(a, b string) int {
	pa, pb := ParseCapsuleNumber(a), ParseCapsuleNumber(b)

	if pa.Prefix != pb.Prefix {
		if pa.Prefix < pb.Prefix {
			return -1
		}
		return 1
	}
	switch {
	case pa.Number < pb.Number:
		return -1
	case pa.Number > pb.Number:
		return 1
	default:
		return 0
	}
}

// SortCapsules orders a capsule slice naturally by number, in place.
func SortCapsules(capsules []models.Capsule) {
	sort.SliceStable(capsules, func(i, j int) bool {
		return CompareCapsuleNumbers(capsules[i].Number, capsules[j].Number) < 0
	})
}

// SortCapsuleNumbers orders bare identifiers naturally, in place.
func SortCapsuleNumbers(numbers []string) {
	sort.SliceStable(numbers, func(i, j int) bool {
		return CompareCapsuleNumbers(numbers[i], numbers[j]) < 0
	})
}
