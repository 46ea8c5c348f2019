package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/fairwaylabs/caddie-api/internal/dto"
	"github.com/fairwaylabs/caddie-api/internal/golf"
	"github.com/fairwaylabs/caddie-api/pkg/ghin"
)

// HandicapClient is the slice of the handicap service client the service needs.
type HandicapClient interface {
	LookupGolfer(ctx context.Context, ghinNumber string) (ghin.Golfer, error)
	RecentScores(ctx context.Context, ghinNumber string, limit int) ([]golf.Round, error)
}

// HandicapService proxies golfer lookups and score history, with a short-lived
// cache in front of golfer records. The cache is optional; a nil redis client
// means every lookup goes to the upstream service.
type HandicapService interface {
	Lookup(ctx context.Context, ghinNumber string) (dto.GolferResponse, error)
	RecentScores(ctx context.Context, ghinNumber string, limit int) (dto.ScoresResponse, error)
	LookupGolfer(ctx context.Context, ghinNumber string) (ghin.Golfer, error)
}

type handicapService struct {
	client   HandicapClient
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewHandicapService constructs a handicap service.
func NewHandicapService(client HandicapClient, cache *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) HandicapService {
	return &handicapService{
		client:   client,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.With().Str("component", "handicap_service").Logger(),
	}
}

func (s *handicapService) Lookup(ctx context.Context, ghinNumber string) (dto.GolferResponse, error) {
	golfer, err := s.LookupGolfer(ctx, ghinNumber)
	if err != nil {
		if errors.Is(err, ghin.ErrGolferNotFound) {
			return dto.GolferResponse{}, ErrGolferNotFound
		}
		return dto.GolferResponse{}, err
	}

	return dto.NewGolferResponse(golfer), nil
}

// LookupGolfer returns a golfer record, serving from cache when fresh.
func (s *handicapService) LookupGolfer(ctx context.Context, ghinNumber string) (ghin.Golfer, error) {
	key := golferCacheKey(ghinNumber)

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key).Result(); err == nil {
			var golfer ghin.Golfer
			if err := json.Unmarshal([]byte(raw), &golfer); err == nil {
				return golfer, nil
			}
			s.logger.Warn().Str("key", key).Msg("dropping undecodable cache entry")
			s.cache.Del(ctx, key)
		}
	}

	golfer, err := s.client.LookupGolfer(ctx, ghinNumber)
	if err != nil {
		return ghin.Golfer{}, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(golfer); err == nil {
			if err := s.cache.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Str("key", key).Msg("failed to cache golfer record")
			}
		}
	}

	return golfer, nil
}

func (s *handicapService) RecentScores(ctx context.Context, ghinNumber string, limit int) (dto.ScoresResponse, error) {
	rounds, err := s.client.RecentScores(ctx, ghinNumber, limit)
	if err != nil {
		if errors.Is(err, ghin.ErrGolferNotFound) {
			return dto.ScoresResponse{}, ErrGolferNotFound
		}
		return dto.ScoresResponse{}, err
	}

	return dto.ScoresResponse{GHINNumber: ghinNumber, Rounds: rounds}, nil
}

func golferCacheKey(ghinNumber string) string {
	return fmt.Sprintf("golfer:%s", ghinNumber)
}
