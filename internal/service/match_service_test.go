package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"friendship-match/internal/domain"
	"friendship-match/internal/repository"
)

func newMatchFixture(t *testing.T, limiter MatchRateLimiter, maxMatches int) (*MatchService, *repository.MemoryProfileRepository) {
	t.Helper()
	repo := repository.NewMemoryProfileRepository()
	seed := []domain.PersonalityProfile{
		profileWith("me", domain.TraitVector{0.9, 0.8, 0.3, 0.7, 0.2}, 0.8),
		profileWith("close", domain.TraitVector{0.85, 0.75, 0.35, 0.65, 0.25}, 0.7),
		profileWith("mid", domain.TraitVector{0.6, 0.5, 0.5, 0.5, 0.4}, 0.9),
		profileWith("far", domain.TraitVector{0.1, 0.1, 0.9, 0.1, 0.9}, 0.9),
		profileWith("fresh", domain.TraitVector{0.9, 0.8, 0.3, 0.7, 0.2}, 0.3),
	}
	for _, p := range seed {
		if err := repo.Save(context.Background(), p); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return NewMatchService(DefaultMatcher(), repo, limiter, maxMatches, 100, zap.NewNop()), repo
}

func TestMatchService_FindMatches(t *testing.T) {
	svc, _ := newMatchFixture(t, nil, 10)
	ctx := context.Background()

	got, err := svc.FindMatches(ctx, "me", 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 confident candidates, got %d", len(got))
	}
	if got[0].UserB != "close" || got[len(got)-1].UserB != "far" {
		t.Fatalf("unexpected order: %+v", got)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Overall > got[i-1].Overall {
			t.Fatalf("results not sorted by overall")
		}
	}

	high, err := svc.FindMatches(ctx, "me", 0, 0.9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(high) != 1 || high[0].UserB != "close" {
		t.Fatalf("expected only close above 0.9, got %+v", high)
	}
}

func TestMatchService_LimitCappedByMax(t *testing.T) {
	svc, _ := newMatchFixture(t, nil, 2)
	got, err := svc.FindMatches(context.Background(), "me", 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected limit capped at 2, got %d", len(got))
	}
}

func TestMatchService_Errors(t *testing.T) {
	svc, _ := newMatchFixture(t, nil, 10)
	ctx := context.Background()

	if _, err := svc.FindMatches(ctx, "", 0, 0); !errors.Is(err, ErrEmptyUserID) {
		t.Fatalf("expected ErrEmptyUserID, got %v", err)
	}
	if _, err := svc.FindMatches(ctx, "ghost", 0, 0); !errors.Is(err, repository.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
	if _, err := svc.FindMatches(ctx, "fresh", 0, 0); !errors.Is(err, ErrProfileIncomplete) {
		t.Fatalf("expected ErrProfileIncomplete, got %v", err)
	}
	if _, err := svc.MatchPair(ctx, "me", "me"); !errors.Is(err, ErrSameUser) {
		t.Fatalf("expected ErrSameUser, got %v", err)
	}
	if _, err := svc.MatchPair(ctx, "me", " "); !errors.Is(err, ErrEmptyUserID) {
		t.Fatalf("expected ErrEmptyUserID, got %v", err)
	}
	if _, err := svc.MatchPair(ctx, "me", "ghost"); !errors.Is(err, repository.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestMatchService_MatchPairAllowsLowConfidence(t *testing.T) {
	svc, _ := newMatchFixture(t, nil, 10)
	got, err := svc.MatchPair(context.Background(), "me", "fresh")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.LowConfidence {
		t.Fatalf("expected low confidence flag")
	}
	if got.UserA != "me" || got.UserB != "fresh" {
		t.Fatalf("unexpected pair order %s/%s", got.UserA, got.UserB)
	}
}

func TestMatchService_RateLimited(t *testing.T) {
	svc, _ := newMatchFixture(t, NewMatchRateLimiter(time.Minute, 2), 10)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.FindMatches(ctx, "me", 0, 0); err != nil {
			t.Fatalf("request %d: unexpected error: %v", i, err)
		}
	}
	if _, err := svc.FindMatches(ctx, "me", 0, 0); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if _, err := svc.MatchPair(ctx, "close", "me"); err != nil {
		t.Fatalf("other users must not be limited: %v", err)
	}
}
