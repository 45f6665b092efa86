package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/abroadmap/abroadmap/internal/models"
	apperrors "github.com/abroadmap/abroadmap/pkg/errors"
	"github.com/abroadmap/abroadmap/pkg/logger"
	"github.com/abroadmap/abroadmap/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// ProgramSource fetches the program catalog
type ProgramSource interface {
	ListPrograms(ctx context.Context) ([]models.Program, error)
}

const (
	programsCacheName = "programs"
	programsKey       = "programs:all"
	programKeyPrefix  = "programs:id:"
	cleanupInterval   = time.Minute
)

// ProgramsCache keeps the program catalog in memory for a fixed TTL
type ProgramsCache struct {
	cache  *gocache.Cache
	source ProgramSource
	ttl    time.Duration

	// serializes refreshes so concurrent misses hit the backend once
	mu sync.Mutex
}

// NewProgramsCache creates a catalog cache. A non-positive TTL disables expiry.
func NewProgramsCache(source ProgramSource, ttlSeconds int) *ProgramsCache {
	ttl := time.Duration(ttlSeconds) * time.Second
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}

	return &ProgramsCache{
		cache:  gocache.New(ttl, cleanupInterval),
		source: source,
		ttl:    ttl,
	}
}

// Get returns the catalog, fetching it on a miss
func (pc *ProgramsCache) Get(ctx context.Context) ([]models.Program, error) {
	if programs, ok := pc.cached(); ok {
		metrics.CacheHits.WithLabelValues(programsCacheName).Inc()
		return programs, nil
	}

	pc.mu.Lock()
	defer pc.mu.Unlock()

	// Another caller may have refreshed while we waited
	if programs, ok := pc.cached(); ok {
		metrics.CacheHits.WithLabelValues(programsCacheName).Inc()
		return programs, nil
	}

	metrics.CacheMisses.WithLabelValues(programsCacheName).Inc()
	logger.Debug("Programs cache miss, fetching from backend")

	return pc.refresh(ctx)
}

// Find returns a single program by id
func (pc *ProgramsCache) Find(ctx context.Context, programID string) (*models.Program, error) {
	if data, found := pc.cache.Get(programKeyPrefix + programID); found {
		if program, ok := data.(models.Program); ok {
			metrics.CacheHits.WithLabelValues(programsCacheName).Inc()
			return &program, nil
		}
	}

	if _, err := pc.Get(ctx); err != nil {
		return nil, err
	}

	if data, found := pc.cache.Get(programKeyPrefix + programID); found {
		if program, ok := data.(models.Program); ok {
			return &program, nil
		}
	}

	return nil, apperrors.NotFoundError(fmt.Sprintf("program %s", programID))
}

// Invalidate drops every cached entry
func (pc *ProgramsCache) Invalidate() {
	pc.cache.Flush()
	metrics.CacheSize.WithLabelValues(programsCacheName).Set(0)
	logger.Debug("Programs cache invalidated")
}

func (pc *ProgramsCache) cached() ([]models.Program, bool) {
	data, found := pc.cache.Get(programsKey)
	if !found {
		return nil, false
	}

	programs, ok := data.([]models.Program)
	if !ok {
		logger.Error("Invalid programs cache data type")
		pc.cache.Delete(programsKey)
		return nil, false
	}
	return programs, true
}

func (pc *ProgramsCache) refresh(ctx context.Context) ([]models.Program, error) {
	programs, err := pc.source.ListPrograms(ctx)
	if err != nil {
		logger.Warn("Failed to refresh programs cache", zap.Error(err))
		return nil, err
	}

	pc.cache.Flush()
	for _, program := range programs {
		pc.cache.Set(programKeyPrefix+program.ProgramID, program, pc.ttl)
	}
	pc.cache.Set(programsKey, programs, pc.ttl)

	metrics.CacheSize.WithLabelValues(programsCacheName).Set(float64(len(programs)))
	logger.Debug("Programs cache refreshed", zap.Int("count", len(programs)))

	return programs, nil
}
