package repositories

import (
	"context"

	search_services "capsule-desk-backend/search/services"
	store_models "capsule-desk-backend/store/models"
)

type SearchRepository struct {
	indexer *search_services.IndexingService
}

type SearchRepositoryInterface interface {
	// General
	DeleteAllIndices(ctx context.Context) error

	// ==== Guest Indexing ====
	ReindexGuests(guests []store_models.Guest) error
}

// Constructor returning both the struct and the interface
func NewSearchRepository(indexer *search_services.IndexingService) (*SearchRepository, SearchRepositoryInterface) {
	repo := &SearchRepository{indexer: indexer}
	return repo, repo
}

func (r *SearchRepository) DeleteAllIndices(ctx context.Context) error {
	return r.indexer.DeleteAllIndices()
}
