package catalog

import (
	"context" // Context for backend and cache calls
	"strings" // Case-insensitive substring matching
	"time"    // Cache TTL

	"github.com/igaramadana/DataQu/internal/cache"  // Package list cache
	"github.com/igaramadana/DataQu/internal/domain" // Importing domain models
)

// CategoryAll disables the category filter
const CategoryAll = "all"

const (
	cacheKey = "catalog:packages" // Cache key for the raw package list
	cacheTTL = 60 * time.Second   // Cache the list for 60 seconds
)

// Backend is the slice of the record store API the catalog needs
type Backend interface {
	ListPackages(ctx context.Context, limit int) ([]domain.Package, error) // Fetch the package catalog
}

// Service fetches the package catalog and applies client-side filters
type Service struct {
	backend Backend     // Record store client
	cache   cache.Cache // Raw list cache
}

// NewService creates a catalog service over a record store backend
func NewService(backend Backend, c cache.Cache) *Service {
	return &Service{backend: backend, cache: c}
}

// List fetches the package list (cache-aside) and filters it by the free
// text query and category selection
func (s *Service) List(ctx context.Context, query, category string) ([]domain.Package, error) {
	var packages []domain.Package
	found, err := s.cache.Get(ctx, cacheKey, &packages) // Try the cache first
	if err != nil || !found {
		// Cache miss: fetch from the record store
		packages, err = s.backend.ListPackages(ctx, 0)
		if err != nil {
			return nil, err // Transport or backend failure
		}
		_ = s.cache.Set(ctx, cacheKey, packages, cacheTTL) // Cache the raw list
	}
	return Filter(packages, query, category), nil
}

// Get returns one package record by ID, or nil if the catalog has no such
// package
func (s *Service) Get(ctx context.Context, id string) (*domain.Package, error) {
	packages, err := s.List(ctx, "", CategoryAll) // Unfiltered, cache-aside
	if err != nil {
		return nil, err // Transport or backend failure
	}
	for _, pkg := range packages {
		if pkg.ID == id {
			return &pkg, nil // Found
		}
	}
	return nil, nil // Unknown package
}

// Filter applies the text and category filters to a package list.
// The category filter is an exact match against daily/weekly/monthly, with
// "all" (or empty) matching everything. The text filter is a
// case-insensitive substring match against name, description or quota.
// Both compose with AND.
func Filter(packages []domain.Package, query, category string) []domain.Package {
	filtered := make([]domain.Package, 0, len(packages))
	q := strings.ToLower(query) // Normalize the query once
	for _, pkg := range packages {
		// Category filter: exact match unless "all"
		if category != "" && category != CategoryAll && pkg.Category != category {
			continue
		}
		// Text filter: any one of name, description or quota must contain the query
		if q != "" &&
			!strings.Contains(strings.ToLower(pkg.Name), q) &&
			!strings.Contains(strings.ToLower(pkg.Description), q) &&
			!strings.Contains(strings.ToLower(pkg.Quota), q) {
			continue
		}
		filtered = append(filtered, pkg)
	}
	return filtered
}
