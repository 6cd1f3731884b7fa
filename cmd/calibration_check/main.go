package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"friendship-match/internal/config"
	"friendship-match/internal/domain"
	"friendship-match/internal/llm"
	"friendship-match/internal/service"
)

const (
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorCyan  = "\033[36m"
	colorReset = "\033[0m"
)

func main() {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewNop()
	if cfg.LogDebug {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	estimator := service.NewEstimator(service.DefaultEstimatorConfig())
	extractors := map[string]*service.SignalExtractor{
		config.ScorerLexical: service.NewSignalExtractor(logger),
	}
	if cfg.ScorerMode == config.ScorerModel {
		llmClient, err := llm.NewClient(cfg, logger)
		if err != nil {
			log.Fatal(err)
		}
		extractors[config.ScorerModel] = service.NewSignalExtractor(logger,
			service.WithScorer(service.NewModelScorer(llmClient)),
			service.WithScorerTimeout(cfg.ScorerTimeout),
		)
	}

	failed := 0
	for _, mode := range []string{config.ScorerLexical, config.ScorerModel} {
		extractor, ok := extractors[mode]
		if !ok {
			continue
		}
		fmt.Printf("%s==== scorer: %s ====%s\n", colorCyan, mode, colorReset)
		for _, p := range personas {
			res, err := runPersona(ctx, extractor, estimator, p)
			if err != nil {
				log.Fatalf("run persona: %v", err)
			}
			printResult(res)
			if !res.Passed() {
				failed++
			}
		}
		fmt.Println()
	}

	if failed > 0 {
		fmt.Printf("%s%d persona(s) fuera de calibracion%s\n", colorRed, failed, colorReset)
		os.Exit(1)
	}
	fmt.Printf("%sTodas las personas calibradas%s\n", colorGreen, colorReset)
}

func printResult(res Result) {
	status := colorGreen + "PASS" + colorReset
	if !res.Passed() {
		status = colorRed + "FAIL" + colorReset
	}
	scores := make([]string, 0, domain.NumTraits)
	for _, t := range domain.AllTraits() {
		scores = append(scores, fmt.Sprintf("%s=%.2f", strings.ToUpper(t.String()[:1]), res.Profile.Score(t)))
	}
	fmt.Printf("[%s] %-24s %s conf=%.2f\n", status, res.Persona, strings.Join(scores, " "), res.Profile.Confidence)
	for _, f := range res.Failures {
		fmt.Printf("       - %s\n", f)
	}
}
