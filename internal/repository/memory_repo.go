package repository

import (
	"context"
	"math"
	"sort"
	"sync"

	"friendship-match/internal/domain"
)

// MemoryProfileRepository guarda perfiles en memoria. Util para tests y para correr sin Postgres.
type MemoryProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]domain.PersonalityProfile
}

func NewMemoryProfileRepository() *MemoryProfileRepository {
	return &MemoryProfileRepository{profiles: make(map[string]domain.PersonalityProfile)}
}

func (r *MemoryProfileRepository) Get(_ context.Context, userID string) (domain.PersonalityProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[userID]
	if !ok {
		return domain.PersonalityProfile{}, ErrProfileNotFound
	}
	return p.Clone(), nil
}

func (r *MemoryProfileRepository) Save(_ context.Context, profile domain.PersonalityProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.UserID] = profile.Clone()
	return nil
}

func (r *MemoryProfileRepository) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[userID]; !ok {
		return ErrProfileNotFound
	}
	delete(r.profiles, userID)
	return nil
}

func (r *MemoryProfileRepository) Stats(_ context.Context, minConfidence float64) (ProfileStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := ProfileStats{TotalProfiles: len(r.profiles)}
	for _, p := range r.profiles {
		if p.Confidence >= minConfidence {
			stats.ReadyProfiles++
		}
	}
	return stats, nil
}

// ListCandidates replica el orden de la version Postgres: distancia euclidea
// entre MatchVector y luego user id.
func (r *MemoryProfileRepository) ListCandidates(_ context.Context, subject domain.PersonalityProfile, minConfidence float64, limit int) ([]domain.PersonalityProfile, error) {
	r.mu.RLock()
	type scored struct {
		p    domain.PersonalityProfile
		dist float64
	}
	target := subject.MatchVector()
	candidates := make([]scored, 0, len(r.profiles))
	for id, p := range r.profiles {
		if id == subject.UserID || p.Confidence < minConfidence {
			continue
		}
		candidates = append(candidates, scored{p: p.Clone(), dist: euclidean(target, p.MatchVector())})
	}
	r.mu.RUnlock()

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].p.UserID < candidates[j].p.UserID
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]domain.PersonalityProfile, len(candidates))
	for i, c := range candidates {
		out[i] = c.p
	}
	return out, nil
}

func euclidean(a, b []float32) float64 {
	sum := 0.0
	for i := range a {
		d := float64(a[i] - b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// MemoryMessageRepository guarda mensajes en memoria, en orden de llegada.
type MemoryMessageRepository struct {
	mu       sync.RWMutex
	messages []domain.Message
}

func NewMemoryMessageRepository() *MemoryMessageRepository {
	return &MemoryMessageRepository{}
}

func (r *MemoryMessageRepository) Create(_ context.Context, message domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	return nil
}

func (r *MemoryMessageRepository) ListBySessionID(_ context.Context, sessionID string) ([]domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Message
	for _, m := range r.messages {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MemoryMessageRepository) ListRecentByUserID(_ context.Context, userID string, limit int) ([]domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Message
	for _, m := range r.messages {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}
