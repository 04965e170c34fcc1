package bootstrap

import (
	"context"

	"capsule-desk-backend/config"
	"capsule-desk-backend/feeds"
	search_repositories "capsule-desk-backend/search/repositories"

	"go.uber.org/zap"
)

// WarmFeedsAndSearch primes the feed snapshots and, through the guest indexer
// hook, the search index, so the first dashboard request after a restart is
// served warm. Failures are logged and left to the next refresh: the hostel
// backend being down at boot must not keep the dashboard down.
func WarmFeedsAndSearch(
	ctx context.Context,
	cache *feeds.Cache,
	searchRepo search_repositories.SearchRepositoryInterface,
) {
	// Start from clean indices so a warm boot never serves leftovers.
	if err := searchRepo.DeleteAllIndices(ctx); err != nil {
		config.Logger.Error("Error deleting search indices", zap.Error(err))
	}

	if _, err := cache.RefreshGuests(ctx); err != nil {
		config.Logger.Error("Error warming guest feed", zap.Error(err))
	}

	if _, err := cache.RefreshTokens(ctx); err != nil {
		config.Logger.Error("Error warming token feed", zap.Error(err))
	}

	if _, err := cache.RefreshCapsules(ctx); err != nil {
		config.Logger.Error("Error warming capsule feed", zap.Error(err))
	}
}
