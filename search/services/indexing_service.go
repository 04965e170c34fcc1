package services

import (
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"go.uber.org/zap"
)

type IndexingServiceInterface interface {
	SearchIndex(indexName string, q query.Query, size int) (*bleve.SearchResult, error)
	RebuildIndex(indexName string, documents map[string]interface{}) error
	DeleteAllIndices() error
}

// IndexingService keeps one in-memory bleve index per document kind. Indexes
// are rebuilt wholesale from feed snapshots, so nothing touches disk and a
// restart simply re-warms from the hostel backend.
type IndexingService struct {
	mu      sync.RWMutex
	indexes map[string]bleve.Index
	logger  *zap.Logger
}

func NewIndexingService(logger *zap.Logger) *IndexingService {
	return &IndexingService{
		indexes: make(map[string]bleve.Index),
		logger:  logger,
	}
}

func (s *IndexingService) getOrCreateIndexLocked(indexName string) (bleve.Index, error) {
	if idx, ok := s.indexes[indexName]; ok {
		return idx, nil
	}

	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create index %s: %w", indexName, err)
	}
	s.indexes[indexName] = idx
	return idx, nil
}

// SearchIndex performs a search and requests stored fields to be included.
// The read lock is held for the whole query so a concurrent rebuild never
// closes an index mid-search.
func (s *IndexingService) SearchIndex(indexName string, q query.Query, size int) (*bleve.SearchResult, error) {
	s.mu.RLock()
	idx, ok := s.indexes[indexName]
	s.mu.RUnlock()
	if !ok {
		s.mu.Lock()
		var err error
		idx, err = s.getOrCreateIndexLocked(indexName)
		s.mu.Unlock()
		if err != nil {
			s.logger.Error("Could not get or create index", zap.Error(err))
			return nil, err
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	idx = s.indexes[indexName]

	searchRequest := bleve.NewSearchRequestOptions(q, size, 0, false)
	searchRequest.Fields = []string{"*"} // Fetch all stored fields

	searchResult, err := idx.Search(searchRequest)
	if err != nil {
		s.logger.Error("Search failed", zap.Error(err))
		return nil, err
	}

	return searchResult, nil
}

// RebuildIndex builds a fresh index from the given documents and swaps it in
// atomically. Documents missing from the new snapshot disappear, which is
// exactly what a feed-driven index wants.
func (s *IndexingService) RebuildIndex(indexName string, documents map[string]interface{}) error {
	fresh, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		s.logger.Error("Could not create replacement index",
			zap.String("index_name", indexName),
			zap.Error(err))
		return fmt.Errorf("failed to create replacement index %s: %w", indexName, err)
	}

	batch := fresh.NewBatch()
	for id, doc := range documents {
		if err := batch.Index(id, doc); err != nil {
			s.logger.Error("Failed to add doc to batch", zap.String("id", id), zap.Error(err))
			fresh.Close()
			return err
		}
	}

	if err := fresh.Batch(batch); err != nil {
		s.logger.Error("Failed to execute batch", zap.Error(err))
		fresh.Close()
		return err
	}

	s.mu.Lock()
	old := s.indexes[indexName]
	s.indexes[indexName] = fresh
	if old != nil {
		if err := old.Close(); err != nil {
			s.logger.Warn("Failed to close replaced index",
				zap.String("index_name", indexName),
				zap.Error(err))
		}
	}
	s.mu.Unlock()

	s.logger.Info("Successfully rebuilt index",
		zap.String("index_name", indexName),
		zap.Int("count", len(documents)))
	return nil
}

func (s *IndexingService) DeleteAllIndices() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errorsOccurred int
	for indexName, idx := range s.indexes {
		if err := idx.Close(); err != nil {
			s.logger.Error("Failed to close index",
				zap.String("index_name", indexName),
				zap.Error(err))
			errorsOccurred++
		}
		delete(s.indexes, indexName)
	}

	if errorsOccurred > 0 {
		return fmt.Errorf("%d errors occurred while deleting indices", errorsOccurred)
	}

	s.logger.Info("All indices deleted successfully")
	return nil
}
