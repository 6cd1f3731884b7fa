package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"friendship-match/internal/config"
	"friendship-match/internal/domain"
	"friendship-match/internal/llm"
	"friendship-match/internal/repository"
	"friendship-match/internal/service"
)

const cliUserID = "cli_user"

func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewDevelopment()
	if !cfg.LogDebug {
		logger = zap.NewNop()
	}
	defer logger.Sync()

	profileRepo := repository.NewMemoryProfileRepository()
	messageRepo := repository.NewMemoryMessageRepository()

	opts := []service.ExtractorOption{service.WithScorerTimeout(cfg.ScorerTimeout)}
	var tagger service.InterestTagger = service.NewLexicalInterestTagger()
	var replyClient llm.LLMClient
	if cfg.NeedsLLM() {
		llmClient, err := llm.NewClient(cfg, logger)
		if err != nil {
			log.Fatal(err)
		}
		if cfg.ScorerMode == config.ScorerModel {
			opts = append(opts, service.WithScorer(service.NewModelScorer(llmClient)))
			tagger = service.NewModelInterestTagger(llmClient, cfg.ScorerTimeout, logger)
		}
		if cfg.ReplyMode == config.ReplyModel {
			replyClient = llmClient
		}
	}
	responder := service.NewConversationResponder(replyClient, cfg.ReplyTimeout, cfg.MinConfidence, logger)

	conversation := service.NewConversationService(
		service.NewSignalExtractor(logger, opts...),
		service.NewEstimator(service.DefaultEstimatorConfig()),
		profileRepo,
		messageRepo,
		service.NewBasicHistoryProvider(messageRepo, cfg.ContextWindow),
		tagger,
		logger,
		service.WithResponder(responder),
	)

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("  Friendship match - personality chat")
	fmt.Printf("  scorer: %s  respuestas: %s\n", cfg.ScorerMode, cfg.ReplyMode)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Comandos: 'perfil' muestra el perfil, 'reset' lo reinicia, 'salir' termina.")
	fmt.Println()

	sessionID := uuid.NewString()
	readyShown := false

	// El asistente abre la conversacion; despues cada respuesta llega con el mensaje del usuario.
	greet := func() {
		r := responder.Reply(ctx, service.ReplyInput{Profile: domain.NewProfile(cliUserID)})
		if _, err := conversation.HandleMessage(ctx, service.MessageInput{
			UserID: cliUserID, SessionID: sessionID, Content: r.Content, Role: domain.RoleAssistant,
		}); err != nil {
			fmt.Printf("error guardando saludo: %v\n", err)
		}
		fmt.Printf("AI > %s\n", r.Content)
	}
	greet()

	for {
		fmt.Print("Tu > ")
		text, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			log.Fatalf("leer input: %v", err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		switch strings.ToLower(text) {
		case "salir", "exit", "q", "quit":
			fmt.Println("Hasta luego.")
			return
		case "perfil", "profile":
			printProfile(ctx, conversation, cfg.MinConfidence)
			continue
		case "reset":
			if _, err := conversation.Reset(ctx, cliUserID); err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
			readyShown = false
			sessionID = uuid.NewString()
			fmt.Println("Perfil reiniciado.")
			greet()
			continue
		}

		res, err := conversation.HandleMessage(ctx, service.MessageInput{
			UserID: cliUserID, SessionID: sessionID, Content: text,
		})
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		if len(res.Signal.Evidence) > 0 {
			fmt.Printf("     [%s] %s\n", res.Signal.Source, strings.Join(res.Signal.Evidence, ", "))
		}
		fmt.Printf("     confianza %d%%\n", int(res.Profile.Confidence*100))
		if !readyShown && res.Profile.IsComplete(cfg.MinConfidence) {
			readyShown = true
			fmt.Println("     El perfil ya tiene confianza suficiente para buscar matches.")
		}
		if res.Reply != nil {
			fmt.Printf("AI > %s\n", res.Reply.Content)
		}
	}
}

func printProfile(ctx context.Context, conversation *service.ConversationService, minConfidence float64) {
	p, err := conversation.Current(ctx, cliUserID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		fmt.Println("Todavia no hay perfil. Conta algo sobre vos.")
		return
	}
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 40))
	for _, t := range domain.AllTraits() {
		d := service.DescribeTrait(t, p.Score(t))
		fmt.Printf("%-18s %s %.2f (%s)\n", t.String()+":", bar(d.Score), d.Score, d.Level)
	}
	fmt.Printf("\nConfianza: %d%%  (listo para matching: %v)\n", int(p.Confidence*100), p.IsComplete(minConfidence))
	fmt.Printf("Senales: %d\n", p.SignalsFolded)
	if p.CommunicationStyle != domain.StyleUnknown {
		fmt.Printf("Estilo: %s\n", p.CommunicationStyle)
	}
	if len(p.Interests) > 0 {
		fmt.Printf("Intereses: %s\n", strings.Join(p.Interests, ", "))
	}
	fmt.Println(strings.Repeat("=", 40))
	fmt.Println()
}

func bar(score float64) string {
	filled := int(score*10 + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}
