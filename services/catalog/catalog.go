// Package catalog is the read-only browse surface for experts. It never
// mutates expert documents; slot state changes only through the reservation
// protocol.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	expertRepo "meetio/database/repository/expert"
	"meetio/models"
	"meetio/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// listCacheTTL keeps catalog pages briefly cached. List payloads exclude
// slot state, so short staleness is harmless.
const listCacheTTL = 30 * time.Second

// Pagination is the envelope describing a catalog page.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
	Limit int   `json:"limit"`
}

// ListResult is one page of experts plus its pagination envelope.
type ListResult struct {
	Experts    []models.Expert `json:"experts"`
	Pagination Pagination      `json:"pagination"`
}

// Service exposes catalog browsing, search and pagination.
type Service interface {
	ListExperts(ctx context.Context, q expertRepo.ListQuery) (*ListResult, error)
	GetExpert(ctx context.Context, id string) (*models.Expert, error)
	Categories(ctx context.Context) ([]string, error)
}

// DefaultCatalogService is the production implementation, with a Redis
// read-through cache in front of the expert collection.
type DefaultCatalogService struct {
	Repo  expertRepo.ExpertRepository
	Cache *redis.Client
}

// ListExperts returns a catalog page, served from cache when possible.
func (s *DefaultCatalogService) ListExperts(ctx context.Context, q expertRepo.ListQuery) (*ListResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 8
	}

	cacheKey := fmt.Sprintf("experts:p%d:l%d:c%s:q%s", q.Page, q.Limit, q.Category, q.Search)
	if cached := s.fromCache(ctx, cacheKey); cached != nil {
		var result ListResult
		if err := json.Unmarshal(cached, &result); err == nil {
			return &result, nil
		}
	}

	experts, total, err := s.Repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	if experts == nil {
		experts = []models.Expert{}
	}

	result := &ListResult{
		Experts: experts,
		Pagination: Pagination{
			Total: total,
			Page:  q.Page,
			Pages: int(math.Ceil(float64(total) / float64(q.Limit))),
			Limit: q.Limit,
		},
	}
	s.toCache(ctx, cacheKey, result)
	return result, nil
}

// GetExpert returns the full expert document, availability included. Slot
// state is always read fresh so viewers merge events onto current truth.
func (s *DefaultCatalogService) GetExpert(ctx context.Context, id string) (*models.Expert, error) {
	return s.Repo.FindByID(ctx, id)
}

// Categories returns the distinct expert categories, cached briefly.
func (s *DefaultCatalogService) Categories(ctx context.Context) ([]string, error) {
	const cacheKey = "expert-categories"
	if cached := s.fromCache(ctx, cacheKey); cached != nil {
		var categories []string
		if err := json.Unmarshal(cached, &categories); err == nil {
			return categories, nil
		}
	}

	categories, err := s.Repo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, cacheKey, categories)
	return categories, nil
}

func (s *DefaultCatalogService) fromCache(ctx context.Context, key string) []byte {
	if s.Cache == nil {
		return nil
	}
	data, err := s.Cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	return data
}

func (s *DefaultCatalogService) toCache(ctx context.Context, key string, value interface{}) {
	if s.Cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, key, data, listCacheTTL).Err(); err != nil {
		utils.GetLogger().Debug("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}
