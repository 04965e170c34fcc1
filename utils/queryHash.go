package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

// GenerateQueryKey builds a deterministic Redis key for caching a list
// response: "<resourceType>:<sha256 of the canonical query>". Filter keys are
// sorted so the same query always hashes to the same key regardless of map
// iteration order.
func GenerateQueryKey(resourceType string, filters map[string]string, page, pageSize int) string {
	query := fmt.Sprintf("resource=%s&page=%d&page_size=%d", resourceType, page, pageSize)

	keys := make([]string, 0, len(filters))
	for key := range filters {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		query += fmt.Sprintf("&%s=%s", key, filters[key])
	}

	hash := sha256.New()
	hash.Write([]byte(query))
	return fmt.Sprintf("%s:%s", resourceType, hex.EncodeToString(hash.Sum(nil)))
}
