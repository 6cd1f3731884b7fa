package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"friendship-match/internal/domain"
	"friendship-match/internal/logger"
	"friendship-match/internal/repository"
)

// styleWindow es cuantos mensajes recientes del usuario se usan para estilo e intereses.
const styleWindow = 50

// ConversationService recibe los mensajes de una conversacion y mantiene el perfil al dia.
// Los mensajes de un mismo usuario se procesan de a uno; usuarios distintos en paralelo.
type ConversationService struct {
	extractor *SignalExtractor
	estimator *Estimator
	profiles  repository.ProfileRepository
	messages  repository.MessageRepository
	history   HistoryProvider
	interests InterestTagger
	responder Responder
	locks     *keyedMutex
	logger    *zap.Logger
	now       func() time.Time
}

func NewConversationService(
	extractor *SignalExtractor,
	estimator *Estimator,
	profiles repository.ProfileRepository,
	messages repository.MessageRepository,
	history HistoryProvider,
	interests InterestTagger,
	logger *zap.Logger,
	opts ...ConversationOption,
) *ConversationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interests == nil {
		interests = NewLexicalInterestTagger()
	}
	s := &ConversationService{
		extractor: extractor,
		estimator: estimator,
		profiles:  profiles,
		messages:  messages,
		history:   history,
		interests: interests,
		locks:     newKeyedMutex(),
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type ConversationOption func(*ConversationService)

// WithResponder hace que cada mensaje del usuario reciba una respuesta del asistente.
func WithResponder(r Responder) ConversationOption {
	return func(s *ConversationService) { s.responder = r }
}

type MessageInput struct {
	UserID    string
	SessionID string
	Content   string
	Role      string // vacio = user
}

type MessageResult struct {
	Message domain.Message
	Signal  domain.TraitSignal
	Profile domain.PersonalityProfile
	// Reply es el turno del asistente ya persistido; nil sin responder configurado.
	Reply *domain.Message
}

// HandleMessage persiste el mensaje y, si es del usuario, lo pliega en su perfil.
// Un mensaje del asistente solo se guarda como contexto para los turnos siguientes.
func (s *ConversationService) HandleMessage(ctx context.Context, in MessageInput) (MessageResult, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return MessageResult{}, ErrEmptyUserID
	}
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if role == "" {
		role = domain.RoleUser
	}
	if role != domain.RoleUser && role != domain.RoleAssistant {
		return MessageResult{}, &ExtractionError{Reason: fmt.Sprintf("unknown role %q", in.Role)}
	}
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	log := logger.WithUser(s.logger, userID, sessionID)

	unlock := s.locks.Lock(userID)
	defer unlock()

	msg := domain.Message{
		ID:        uuid.NewString(),
		UserID:    userID,
		SessionID: sessionID,
		Content:   in.Content,
		Role:      role,
		CreatedAt: s.now(),
	}

	if role == domain.RoleAssistant {
		if err := validateMessage(in.Content); err != nil {
			return MessageResult{}, err
		}
		if err := s.messages.Create(ctx, msg); err != nil {
			return MessageResult{}, fmt.Errorf("persist message: %w", err)
		}
		profile, err := s.loadOrNew(ctx, userID)
		if err != nil {
			return MessageResult{}, err
		}
		return MessageResult{Message: msg, Signal: domain.EmptySignal(domain.SourceLexical), Profile: profile}, nil
	}

	history, err := s.history.History(ctx, sessionID)
	if err != nil {
		return MessageResult{}, fmt.Errorf("get history: %w", err)
	}

	signal, err := s.extractor.Extract(ctx, in.Content, history)
	if err != nil {
		return MessageResult{}, fmt.Errorf("extract signal: %w", err)
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return MessageResult{}, fmt.Errorf("persist message: %w", err)
	}

	profile, err := s.loadOrNew(ctx, userID)
	if err != nil {
		return MessageResult{}, err
	}

	updated, err := s.estimator.Update(profile, signal)
	if err != nil {
		log.Error("signal rejected by estimator", zap.Error(err), zap.String(logger.FieldScorer, string(signal.Source)))
		return MessageResult{}, fmt.Errorf("update profile: %w", err)
	}

	s.refreshStyleAndInterests(ctx, log, &updated)
	updated.UpdatedAt = s.now()

	if err := s.profiles.Save(ctx, updated); err != nil {
		return MessageResult{}, fmt.Errorf("save profile: %w", err)
	}

	log.Debug("signal folded",
		zap.String(logger.FieldScorer, string(signal.Source)),
		zap.Float64("weight", signal.Weight),
		zap.Int("traits", len(signal.Deltas)),
		zap.Float64("confidence", updated.Confidence),
	)

	return MessageResult{
		Message: msg,
		Signal:  signal,
		Profile: updated,
		Reply:   s.reply(ctx, log, msg, history, updated),
	}, nil
}

// reply genera y guarda el turno del asistente. El perfil ya se guardo, asi que un fallo
// aca solo se loguea: devolver error haria que el cliente reintente y pliegue dos veces.
func (s *ConversationService) reply(ctx context.Context, log *zap.Logger, msg domain.Message, history []domain.Message, profile domain.PersonalityProfile) *domain.Message {
	if s.responder == nil {
		return nil
	}
	turns, err := s.messages.ListBySessionID(ctx, msg.SessionID)
	if err != nil {
		log.Warn("list session messages failed", zap.Error(err))
		turns = append(append([]domain.Message(nil), history...), msg)
	}

	r := s.responder.Reply(ctx, ReplyInput{Turns: turns, Profile: profile})
	out := domain.Message{
		ID:        uuid.NewString(),
		UserID:    msg.UserID,
		SessionID: msg.SessionID,
		Content:   r.Content,
		Role:      domain.RoleAssistant,
		CreatedAt: s.now(),
	}
	if err := s.messages.Create(ctx, out); err != nil {
		log.Warn("persist reply failed", zap.Error(err))
		return nil
	}
	log.Debug("reply sent", zap.String("source", r.Source))
	return &out
}

// refreshStyleAndInterests recalcula estilo e intereses con los mensajes recientes del usuario.
// Es informacion secundaria: un fallo se loguea y no corta el turno.
func (s *ConversationService) refreshStyleAndInterests(ctx context.Context, log *zap.Logger, p *domain.PersonalityProfile) {
	recent, err := s.messages.ListRecentByUserID(ctx, p.UserID, styleWindow)
	if err != nil {
		log.Warn("list recent messages failed", zap.Error(err))
		return
	}
	if style := DetectCommunicationStyle(recent); style != domain.StyleUnknown {
		p.CommunicationStyle = style
	}
	tags, err := s.interests.Tags(ctx, recent)
	if err != nil {
		log.Warn("interest tagging failed", zap.Error(err))
		return
	}
	p.Interests = MergeInterests(p.Interests, tags)
}

func (s *ConversationService) loadOrNew(ctx context.Context, userID string) (domain.PersonalityProfile, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return domain.NewProfile(userID), nil
	}
	if err != nil {
		return domain.PersonalityProfile{}, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// Current devuelve el perfil guardado. Si el usuario no tiene perfil devuelve ErrProfileNotFound.
func (s *ConversationService) Current(ctx context.Context, userID string) (domain.PersonalityProfile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.PersonalityProfile{}, ErrEmptyUserID
	}
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return domain.PersonalityProfile{}, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// Reset vuelve el perfil al estado inicial. Es la unica via que baja la confianza.
func (s *ConversationService) Reset(ctx context.Context, userID string) (domain.PersonalityProfile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.PersonalityProfile{}, ErrEmptyUserID
	}
	unlock := s.locks.Lock(userID)
	defer unlock()

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return domain.PersonalityProfile{}, fmt.Errorf("get profile: %w", err)
	}
	reset := profile.Reset()
	reset.UpdatedAt = s.now()
	if err := s.profiles.Save(ctx, reset); err != nil {
		return domain.PersonalityProfile{}, fmt.Errorf("save profile: %w", err)
	}
	logger.WithUser(s.logger, userID, "").Info("profile reset")
	return reset, nil
}

type ConversationSummary struct {
	SessionID     string                     `json:"session_id"`
	UserID        string                     `json:"user_id"`
	TotalMessages int                        `json:"total_messages"`
	UserMessages  int                        `json:"user_messages"`
	Phase         int                        `json:"analysis_phase"`
	IsComplete    bool                       `json:"is_complete"`
	Profile       *domain.PersonalityProfile `json:"profile"`
}

// Summary resume una sesion: cuantos mensajes hubo, en que fase esta la entrevista y el perfil.
// La fase sigue al perfil (mensajes plegados desde el ultimo reset), no a la sesion.
func (s *ConversationService) Summary(ctx context.Context, sessionID string, minConfidence float64) (ConversationSummary, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return ConversationSummary{}, ErrSessionNotFound
	}
	msgs, err := s.messages.ListBySessionID(ctx, sessionID)
	if err != nil {
		return ConversationSummary{}, fmt.Errorf("list session messages: %w", err)
	}
	if len(msgs) == 0 {
		return ConversationSummary{}, ErrSessionNotFound
	}

	sum := ConversationSummary{
		SessionID:     sessionID,
		UserID:        msgs[0].UserID,
		TotalMessages: len(msgs),
		Phase:         PhaseIntroduction,
	}
	for _, m := range msgs {
		if m.FromUser() {
			sum.UserMessages++
		}
	}

	profile, err := s.profiles.Get(ctx, sum.UserID)
	switch {
	case errors.Is(err, repository.ErrProfileNotFound):
		return sum, nil
	case err != nil:
		return ConversationSummary{}, fmt.Errorf("get profile: %w", err)
	}
	sum.Phase = PhaseFor(profile.SignalsFolded)
	sum.IsComplete = AnalysisComplete(profile, minConfidence)
	sum.Profile = &profile
	return sum, nil
}

// Stats cuenta perfiles guardados y cuantos ya pueden buscar matches.
func (s *ConversationService) Stats(ctx context.Context, minConfidence float64) (repository.ProfileStats, error) {
	stats, err := s.profiles.Stats(ctx, minConfidence)
	if err != nil {
		return repository.ProfileStats{}, fmt.Errorf("profile stats: %w", err)
	}
	return stats, nil
}
