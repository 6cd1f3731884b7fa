package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"friendship-match/internal/domain"
	"friendship-match/internal/repository"
)

var ErrSameUser = errors.New("cannot match a user with themselves")

const (
	DefaultMaxMatches        = 10
	DefaultCandidatePoolSize = 100
)

// MatchService busca candidatos en el repositorio y los ordena con el Matcher.
type MatchService struct {
	matcher    *Matcher
	profiles   repository.ProfileRepository
	limiter    MatchRateLimiter
	maxMatches int
	poolSize   int
	logger     *zap.Logger
}

func NewMatchService(matcher *Matcher, profiles repository.ProfileRepository, limiter MatchRateLimiter, maxMatches, poolSize int, logger *zap.Logger) *MatchService {
	if maxMatches <= 0 {
		maxMatches = DefaultMaxMatches
	}
	if poolSize < maxMatches {
		poolSize = DefaultCandidatePoolSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchService{
		matcher:    matcher,
		profiles:   profiles,
		limiter:    limiter,
		maxMatches: maxMatches,
		poolSize:   poolSize,
		logger:     logger,
	}
}

// FindMatches devuelve los mejores matches de userID. El perfil debe tener
// confianza suficiente; los candidatos tambien.
func (s *MatchService) FindMatches(ctx context.Context, userID string, limit int, minScore float64) ([]domain.MatchScore, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	if err := s.allow(ctx, userID); err != nil {
		return nil, err
	}

	subject, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	minConfidence := s.matcher.Config().MinConfidence
	if !subject.IsComplete(minConfidence) {
		return nil, fmt.Errorf("%w: confidence %.2f < %.2f", ErrProfileIncomplete, subject.Confidence, minConfidence)
	}

	if limit <= 0 || limit > s.maxMatches {
		limit = s.maxMatches
	}
	minScore = clamp01(minScore)

	candidates, err := s.profiles.ListCandidates(ctx, subject, minConfidence, s.poolSize)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	matches := s.matcher.Rank(subject, candidates, limit, minScore)
	s.logger.Debug("matches ranked",
		zap.String("user_id", userID),
		zap.Int("candidates", len(candidates)),
		zap.Int("matches", len(matches)),
	)
	return matches, nil
}

// MatchPair compara dos usuarios concretos. No exige confianza minima: el
// resultado lleva LowConfidence cuando corresponde.
func (s *MatchService) MatchPair(ctx context.Context, userID, otherID string) (domain.MatchScore, error) {
	userID, otherID = strings.TrimSpace(userID), strings.TrimSpace(otherID)
	if userID == "" || otherID == "" {
		return domain.MatchScore{}, ErrEmptyUserID
	}
	if userID == otherID {
		return domain.MatchScore{}, ErrSameUser
	}
	if err := s.allow(ctx, userID); err != nil {
		return domain.MatchScore{}, err
	}

	a, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return domain.MatchScore{}, fmt.Errorf("get profile %s: %w", userID, err)
	}
	b, err := s.profiles.Get(ctx, otherID)
	if err != nil {
		return domain.MatchScore{}, fmt.Errorf("get profile %s: %w", otherID, err)
	}
	return s.matcher.Match(a, b), nil
}

func (s *MatchService) allow(ctx context.Context, userID string) error {
	if s.limiter == nil {
		return nil
	}
	if !s.limiter.Allow(ctx, userID) {
		return ErrRateLimited
	}
	return nil
}
