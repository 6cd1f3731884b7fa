package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"friendship-match/internal/domain"
	"friendship-match/internal/repository"
)

type failingProfileRepo struct {
	*repository.MemoryProfileRepository
	saveErr error
}

func (r *failingProfileRepo) Save(ctx context.Context, p domain.PersonalityProfile) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	return r.MemoryProfileRepository.Save(ctx, p)
}

type conversationFixture struct {
	svc      *ConversationService
	profiles *repository.MemoryProfileRepository
	messages *repository.MemoryMessageRepository
}

func newConversationFixture() conversationFixture {
	profiles := repository.NewMemoryProfileRepository()
	messages := repository.NewMemoryMessageRepository()
	svc := NewConversationService(
		NewSignalExtractor(zap.NewNop()),
		NewEstimator(DefaultEstimatorConfig()),
		profiles,
		messages,
		NewBasicHistoryProvider(messages, DefaultContextWindow),
		nil,
		zap.NewNop(),
	)
	return conversationFixture{svc: svc, profiles: profiles, messages: messages}
}

func TestConversationService_UserMessageUpdatesProfile(t *testing.T) {
	f := newConversationFixture()
	ctx := context.Background()

	res, err := f.svc.HandleMessage(ctx, MessageInput{UserID: "u1", SessionID: "s1", Content: "I love going to parties with friends"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Profile.SignalsFolded != 1 {
		t.Fatalf("expected 1 signal folded, got %d", res.Profile.SignalsFolded)
	}
	if res.Profile.Scores[domain.Extraversion] <= domain.DefaultTraitScore {
		t.Fatalf("expected extraversion to rise, got %v", res.Profile.Scores[domain.Extraversion])
	}
	if res.Message.Role != domain.RoleUser || res.Message.ID == "" {
		t.Fatalf("unexpected stored message %+v", res.Message)
	}

	stored, err := f.svc.Current(ctx, "u1")
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if stored.Scores != res.Profile.Scores || stored.Confidence != res.Profile.Confidence {
		t.Fatalf("stored profile differs from result")
	}

	msgs, _ := f.messages.ListBySessionID(ctx, "s1")
	if len(msgs) != 1 {
		t.Fatalf("expected message persisted, got %d", len(msgs))
	}
}

func TestConversationService_AssistantMessageIsContextOnly(t *testing.T) {
	f := newConversationFixture()
	ctx := context.Background()

	res, err := f.svc.HandleMessage(ctx, MessageInput{UserID: "u1", SessionID: "s1", Content: "Do you enjoy going to parties?", Role: "assistant"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Signal.IsEmpty() || res.Profile.SignalsFolded != 0 {
		t.Fatalf("assistant turn must not fold: %+v", res)
	}
	if _, err := f.svc.Current(ctx, "u1"); !errors.Is(err, repository.ErrProfileNotFound) {
		t.Fatalf("expected no stored profile, got %v", err)
	}

	res, err = f.svc.HandleMessage(ctx, MessageInput{UserID: "u1", SessionID: "s1", Content: "yes"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d := res.Signal.Deltas[domain.Extraversion]; d <= 0 {
		t.Fatalf("expected reply to inherit the question's cue, got %v", res.Signal.Deltas)
	}

	other, err := f.svc.HandleMessage(ctx, MessageInput{UserID: "u2", SessionID: "s2", Content: "yes"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !other.Signal.IsEmpty() {
		t.Fatalf("history from another session leaked: %+v", other.Signal)
	}
}

func TestConversationService_RejectsBadInput(t *testing.T) {
	f := newConversationFixture()
	ctx := context.Background()

	if _, err := f.svc.HandleMessage(ctx, MessageInput{UserID: "  ", Content: "hi"}); !errors.Is(err, ErrEmptyUserID) {
		t.Fatalf("expected ErrEmptyUserID, got %v", err)
	}
	if _, err := f.svc.HandleMessage(ctx, MessageInput{UserID: "u1", Content: "hi", Role: "system"}); !IsExtractionError(err) {
		t.Fatalf("expected ExtractionError for unknown role, got %v", err)
	}
	if _, err := f.svc.HandleMessage(ctx, MessageInput{UserID: "u1", Content: ""}); !IsExtractionError(err) {
		t.Fatalf("expected ExtractionError for empty message, got %v", err)
	}
	if msgs, _ := f.messages.ListRecentByUserID(ctx, "u1", 10); len(msgs) != 0 {
		t.Fatalf("rejected messages must not be persisted, got %d", len(msgs))
	}
}

func TestConversationService_GeneratesSessionID(t *testing.T) {
	f := newConversationFixture()
	res, err := f.svc.HandleMessage(context.Background(), MessageInput{UserID: "u1", Content: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Message.SessionID == "" {
		t.Fatalf("expected generated session id")
	}
}

func TestConversationService_RefreshesStyleAndInterests(t *testing.T) {
	f := newConversationFixture()
	ctx := context.Background()
	var res MessageResult
	var err error
	for _, msg := range []string{"I play guitar", "I like books", "hiking is fun"} {
		res, err = f.svc.HandleMessage(ctx, MessageInput{UserID: "u1", SessionID: "s1", Content: msg})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	for _, tag := range []string{"music", "books", "fitness"} {
		if !res.Profile.HasInterest(tag) {
			t.Fatalf("expected interest %q, got %v", tag, res.Profile.Interests)
		}
	}
	if res.Profile.CommunicationStyle != domain.StyleDirect {
		t.Fatalf("expected direct style, got %q", res.Profile.CommunicationStyle)
	}
}

func TestConversationService_ConcurrentMessagesSameUser(t *testing.T) {
	f := newConversationFixture()
	ctx := context.Background()
	const n = 40

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.HandleMessage(ctx, MessageInput{
				UserID:    "u1",
				SessionID: fmt.Sprintf("s%d", i%4),
				Content:   "I am curious about new ideas",
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	p, err := f.svc.Current(ctx, "u1")
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if p.SignalsFolded != n {
		t.Fatalf("expected %d signals folded, got %d (lost update)", n, p.SignalsFolded)
	}
	if f.svc.locks.size() != 0 {
		t.Fatalf("expected locks released")
	}
}

func TestConversationService_Reset(t *testing.T) {
	f := newConversationFixture()
	ctx := context.Background()

	if _, err := f.svc.Reset(ctx, "ghost"); !errors.Is(err, repository.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}

	if _, err := f.svc.HandleMessage(ctx, MessageInput{UserID: "u1", SessionID: "s1", Content: "I play guitar and love parties"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reset, err := f.svc.Reset(ctx, "u1")
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if reset.Confidence != 0 || reset.Scores != domain.Uniform(domain.DefaultTraitScore) || reset.Interests != nil || reset.SignalsFolded != 0 {
		t.Fatalf("expected initial profile, got %+v", reset)
	}
}

func TestConversationService_SaveError(t *testing.T) {
	profiles := &failingProfileRepo{MemoryProfileRepository: repository.NewMemoryProfileRepository(), saveErr: errors.New("db down")}
	messages := repository.NewMemoryMessageRepository()
	svc := NewConversationService(
		NewSignalExtractor(nil),
		NewEstimator(DefaultEstimatorConfig()),
		profiles,
		messages,
		NewBasicHistoryProvider(messages, 0),
		NewLexicalInterestTagger(),
		nil,
	)
	_, err := svc.HandleMessage(context.Background(), MessageInput{UserID: "u1", Content: "I love parties"})
	if err == nil || !errors.Is(err, profiles.saveErr) {
		t.Fatalf("expected wrapped save error, got %v", err)
	}
}

type failingReplyRepo struct {
	*repository.MemoryMessageRepository
}

func (r *failingReplyRepo) Create(ctx context.Context, m domain.Message) error {
	if m.Role == domain.RoleAssistant {
		return errors.New("disk full")
	}
	return r.MemoryMessageRepository.Create(ctx, m)
}

func newResponderFixture(messages repository.MessageRepository) (*ConversationService, *repository.MemoryProfileRepository) {
	profiles := repository.NewMemoryProfileRepository()
	svc := NewConversationService(
		NewSignalExtractor(nil),
		NewEstimator(DefaultEstimatorConfig()),
		profiles,
		messages,
		NewBasicHistoryProvider(messages, DefaultContextWindow),
		nil,
		nil,
		WithResponder(NewConversationResponder(nil, time.Second, 0.3, nil)),
	)
	return svc, profiles
}

func TestConversationService_PersistsReply(t *testing.T) {
	messages := repository.NewMemoryMessageRepository()
	svc, _ := newResponderFixture(messages)
	ctx := context.Background()

	res, err := svc.HandleMessage(ctx, MessageInput{UserID: "u1", SessionID: "s1", Content: "I love going to parties"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Reply == nil || res.Reply.Role != domain.RoleAssistant || res.Reply.SessionID != "s1" || res.Reply.UserID != "u1" {
		t.Fatalf("unexpected reply %+v", res.Reply)
	}

	msgs, _ := messages.ListBySessionID(ctx, "s1")
	if len(msgs) != 2 || msgs[1].ID != res.Reply.ID {
		t.Fatalf("expected user message and reply stored, got %d", len(msgs))
	}

	// La segunda respuesta no repite la primera pregunta.
	res2, err := svc.HandleMessage(ctx, MessageInput{UserID: "u1", SessionID: "s1", Content: "Mostly concerts"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res2.Reply == nil || res2.Reply.Content == res.Reply.Content {
		t.Fatalf("expected a new question, got %+v", res2.Reply)
	}
}

func TestConversationService_NoReplyForAssistantMessages(t *testing.T) {
	svc, _ := newResponderFixture(repository.NewMemoryMessageRepository())
	res, err := svc.HandleMessage(context.Background(), MessageInput{UserID: "u1", SessionID: "s1", Content: "Hi!", Role: domain.RoleAssistant})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Reply != nil {
		t.Fatalf("assistant turns must not get a reply")
	}
}

func TestConversationService_ReplyPersistFailureKeepsProfile(t *testing.T) {
	messages := &failingReplyRepo{MemoryMessageRepository: repository.NewMemoryMessageRepository()}
	svc, profiles := newResponderFixture(messages)
	ctx := context.Background()

	res, err := svc.HandleMessage(ctx, MessageInput{UserID: "u1", SessionID: "s1", Content: "I love going to parties"})
	if err != nil {
		t.Fatalf("reply failure must not fail the turn: %v", err)
	}
	if res.Reply != nil {
		t.Fatalf("expected no reply when it cannot be stored")
	}
	stored, err := profiles.Get(ctx, "u1")
	if err != nil || stored.SignalsFolded != 1 {
		t.Fatalf("expected profile saved once, got %+v (%v)", stored, err)
	}
}

func TestConversationService_Summary(t *testing.T) {
	svc, _ := newResponderFixture(repository.NewMemoryMessageRepository())
	ctx := context.Background()

	if _, err := svc.Summary(ctx, "ghost", 0.3); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}

	for i := 0; i < 7; i++ {
		if _, err := svc.HandleMessage(ctx, MessageInput{UserID: "u1", SessionID: "s1", Content: fmt.Sprintf("I love parties with friends %d", i)}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	sum, err := svc.Summary(ctx, "s1", 0.3)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.UserID != "u1" || sum.UserMessages != 7 || sum.TotalMessages != 14 {
		t.Fatalf("unexpected counts %+v", sum)
	}
	if sum.Phase != PhaseSocialLife || sum.IsComplete {
		t.Fatalf("expected social life phase and incomplete, got phase %d complete %v", sum.Phase, sum.IsComplete)
	}
	if sum.Profile == nil || sum.Profile.SignalsFolded != 7 {
		t.Fatalf("expected profile in summary")
	}
}

func TestConversationService_Stats(t *testing.T) {
	f := newConversationFixture()
	ctx := context.Background()

	ready := domain.NewProfile("ready")
	ready.Confidence = 0.5
	_ = f.profiles.Save(ctx, ready)
	_ = f.profiles.Save(ctx, domain.NewProfile("new"))

	stats, err := f.svc.Stats(ctx, 0.3)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalProfiles != 2 || stats.ReadyProfiles != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}
