package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"friendship-match/internal/domain"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository es el mapa externo de perfiles: get / replace por usuario.
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (domain.PersonalityProfile, error)
	Save(ctx context.Context, profile domain.PersonalityProfile) error
	Delete(ctx context.Context, userID string) error
	// ListCandidates devuelve perfiles con confianza >= minConfidence, excluido subject,
	// ordenados por cercania del MatchVector.
	ListCandidates(ctx context.Context, subject domain.PersonalityProfile, minConfidence float64, limit int) ([]domain.PersonalityProfile, error)
	Stats(ctx context.Context, minConfidence float64) (ProfileStats, error)
}

// ProfileStats cuenta perfiles totales y los que alcanzan minConfidence.
type ProfileStats struct {
	TotalProfiles int `json:"total_profiles"`
	ReadyProfiles int `json:"ready_profiles"`
}

type PgProfileRepository struct {
	pool *pgxpool.Pool
}

func NewPgProfileRepository(pool *pgxpool.Pool) *PgProfileRepository {
	return &PgProfileRepository{pool: pool}
}

const profileColumns = `
	user_id, openness, conscientiousness, extraversion, agreeableness, neuroticism,
	confidence, trait_evidence, interests, communication_style, signals_folded, updated_at
`

func (r *PgProfileRepository) Get(ctx context.Context, userID string) (domain.PersonalityProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM personality_profiles WHERE user_id = $1`
	profile, err := scanProfile(r.pool.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PersonalityProfile{}, ErrProfileNotFound
	}
	return profile, err
}

func (r *PgProfileRepository) Stats(ctx context.Context, minConfidence float64) (ProfileStats, error) {
	const query = `
		SELECT count(*), count(*) FILTER (WHERE confidence >= $1)
		FROM personality_profiles
	`
	var stats ProfileStats
	if err := r.pool.QueryRow(ctx, query, minConfidence).Scan(&stats.TotalProfiles, &stats.ReadyProfiles); err != nil {
		return ProfileStats{}, fmt.Errorf("count profiles: %w", err)
	}
	return stats, nil
}

func (r *PgProfileRepository) Save(ctx context.Context, profile domain.PersonalityProfile) error {
	const query = `
		INSERT INTO personality_profiles (
			user_id, openness, conscientiousness, extraversion, agreeableness, neuroticism,
			confidence, trait_evidence, interests, communication_style, signals_folded, match_vector, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (user_id) DO UPDATE SET
			openness = EXCLUDED.openness,
			conscientiousness = EXCLUDED.conscientiousness,
			extraversion = EXCLUDED.extraversion,
			agreeableness = EXCLUDED.agreeableness,
			neuroticism = EXCLUDED.neuroticism,
			confidence = EXCLUDED.confidence,
			trait_evidence = EXCLUDED.trait_evidence,
			interests = EXCLUDED.interests,
			communication_style = EXCLUDED.communication_style,
			signals_folded = EXCLUDED.signals_folded,
			match_vector = EXCLUDED.match_vector,
			updated_at = EXCLUDED.updated_at
	`
	interests := profile.Interests
	if interests == nil {
		interests = []string{}
	}
	_, err := r.pool.Exec(ctx, query,
		profile.UserID,
		profile.Scores[domain.Openness],
		profile.Scores[domain.Conscientiousness],
		profile.Scores[domain.Extraversion],
		profile.Scores[domain.Agreeableness],
		profile.Scores[domain.Neuroticism],
		profile.Confidence,
		profile.TraitEvidence[:],
		interests,
		string(profile.CommunicationStyle),
		profile.SignalsFolded,
		pgvector.NewVector(profile.MatchVector()),
		profile.UpdatedAt,
	)
	return err
}

func (r *PgProfileRepository) Delete(ctx context.Context, userID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM personality_profiles WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *PgProfileRepository) ListCandidates(ctx context.Context, subject domain.PersonalityProfile, minConfidence float64, limit int) ([]domain.PersonalityProfile, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + profileColumns + `
		FROM personality_profiles
		WHERE user_id <> $1 AND confidence >= $2
		ORDER BY match_vector <-> $3, user_id
		LIMIT $4
	`
	rows, err := r.pool.Query(ctx, query, subject.UserID, minConfidence, pgvector.NewVector(subject.MatchVector()), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []domain.PersonalityProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

func scanProfile(row pgx.Row) (domain.PersonalityProfile, error) {
	var (
		p        domain.PersonalityProfile
		evidence []float64
		style    string
	)
	err := row.Scan(
		&p.UserID,
		&p.Scores[domain.Openness],
		&p.Scores[domain.Conscientiousness],
		&p.Scores[domain.Extraversion],
		&p.Scores[domain.Agreeableness],
		&p.Scores[domain.Neuroticism],
		&p.Confidence,
		&evidence,
		&p.Interests,
		&style,
		&p.SignalsFolded,
		&p.UpdatedAt,
	)
	if err != nil {
		return domain.PersonalityProfile{}, err
	}
	if len(evidence) != domain.NumTraits && len(evidence) != 0 {
		return domain.PersonalityProfile{}, fmt.Errorf("trait_evidence for %s: expected %d values, got %d", p.UserID, domain.NumTraits, len(evidence))
	}
	copy(p.TraitEvidence[:], evidence)
	p.CommunicationStyle = domain.CommunicationStyle(style)
	return p, nil
}
