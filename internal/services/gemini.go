package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"alfredoptarigan/ai-interviewer/internal/config"
	"alfredoptarigan/ai-interviewer/pkg/metrics"
)

// GenerationService sends one prompt for a stage and returns the raw text.
// An empty reply is reported as ErrUpstreamEmpty.
type GenerationService interface {
	Generate(ctx context.Context, stage Stage, prompt string) (string, error)
}

// generativeModels is the part of *genai.Models the adapter uses.
type generativeModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	CountTokens(ctx context.Context, model string, contents []*genai.Content, config *genai.CountTokensConfig) (*genai.CountTokensResponse, error)
}

type GeminiOptions struct {
	Models          map[Stage]string
	Temperature     float32
	MaxOutputTokens int32
	Timeout         time.Duration
	MaxRetries      int
	RetryDelay      time.Duration
}

func GeminiOptionsFromConfig(cfg config.GeminiConfig) GeminiOptions {
	return GeminiOptions{
		Models: map[Stage]string{
			StageProfileExtraction:    cfg.ResumeModel,
			StageQuestionGeneration:   cfg.QuestionModel,
			StageAnswerEvaluation:     cfg.EvaluationModel,
			StageAssessmentGeneration: cfg.AssessmentModel,
		},
		Temperature:     cfg.Temperature,
		MaxOutputTokens: cfg.MaxOutputTokens,
		Timeout:         cfg.Timeout,
		MaxRetries:      cfg.MaxRetries,
		RetryDelay:      cfg.RetryInitialWait,
	}
}

const defaultGeminiModel = "gemini-2.5-flash"

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
	outcomeEmpty   = "empty"
)

type geminiService struct {
	models    generativeModels
	opts      GeminiOptions
	telemetry TelemetryQueue
	log       *zap.Logger
}

// NewGeminiClient creates the shared client; its Models handle serves both
// generation and token counting.
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return client, nil
}

func NewGeminiService(client *genai.Client, opts GeminiOptions, telemetry TelemetryQueue, log *zap.Logger) GenerationService {
	return newGeminiService(client.Models, opts, telemetry, log)
}

func newGeminiService(models generativeModels, opts GeminiOptions, telemetry TelemetryQueue, log *zap.Logger) *geminiService {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	return &geminiService{
		models:    models,
		opts:      opts,
		telemetry: telemetry,
		log:       log,
	}
}

func (g *geminiService) modelFor(stage Stage) string {
	if m := g.opts.Models[stage]; m != "" {
		return m
	}
	return defaultGeminiModel
}

func (g *geminiService) generationConfig() *genai.GenerateContentConfig {
	temperature := g.opts.Temperature
	return &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  g.opts.MaxOutputTokens,
		ResponseMIMEType: "application/json",
		// interview content trips the default filters too often
		SafetySettings: []*genai.SafetySetting{
			{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
		},
	}
}

// Generate implements GenerationService. Transient transport failures are
// retried up to MaxRetries times; empty replies are not.
func (g *geminiService) Generate(ctx context.Context, stage Stage, prompt string) (string, error) {
	model := g.modelFor(stage)

	ctx, span := otel.Tracer("ai-interviewer/gemini").Start(ctx, "gemini.generate", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("interview.stage", stage.String()),
		attribute.String("gemini.model", model),
		attribute.Int("gemini.prompt_chars", len(prompt)),
	)

	start := time.Now()
	text, attempts, err := g.generateWithRetry(ctx, model, prompt)
	latency := time.Since(start)

	outcome := generationOutcome(err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.Int("gemini.attempts", attempts))

	metrics.RecordGenerationCall(stage.String(), outcome)
	metrics.RecordGenerationLatency(stage.String(), float64(latency.Milliseconds()))

	if g.telemetry != nil {
		g.telemetry.Enqueue(TelemetryJob{
			Stage:    stage,
			Model:    model,
			Prompt:   prompt,
			Latency:  latency,
			Attempts: attempts,
			Outcome:  outcome,
		})
	}

	return text, err
}

func (g *geminiService) generateWithRetry(ctx context.Context, model, prompt string) (string, int, error) {
	var lastErr error
	maxAttempts := g.opts.MaxRetries + 1

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		text, err := g.generateOnce(ctx, model, prompt)
		if err == nil {
			return text, attempt, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", attempt, fmt.Errorf("%w: context cancelled: %w", ErrUpstreamEmpty, ctx.Err())
		}
		if !isTransient(err) || attempt == maxAttempts {
			return "", attempt, err
		}

		g.log.Warn("generation attempt failed, retrying",
			zap.String("model", model),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return "", attempt, fmt.Errorf("%w: context cancelled: %w", ErrUpstreamEmpty, ctx.Err())
		case <-time.After(g.opts.RetryDelay * time.Duration(attempt)):
		}
	}

	return "", maxAttempts, lastErr
}

func (g *geminiService) generateOnce(ctx context.Context, model, prompt string) (string, error) {
	callCtx := ctx
	if g.opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()
	}

	resp, err := g.models.GenerateContent(callCtx, model, genai.Text(prompt), g.generationConfig())
	if err != nil {
		return "", &transportError{err: err}
	}

	if resp == nil {
		return "", fmt.Errorf("%w: nil response", ErrUpstreamEmpty)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		reason := "no text content"
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != "" {
			reason = fmt.Sprintf("no text content (finish reason %s)", resp.Candidates[0].FinishReason)
		}
		return "", fmt.Errorf("%w: %s", ErrUpstreamEmpty, reason)
	}

	return text, nil
}

// transportError marks a failed call to the generation service. It counts
// as an empty upstream for callers.
type transportError struct {
	err error
}

func (e *transportError) Error() string {
	return fmt.Sprintf("generation request failed: %v", e.err)
}

func (e *transportError) Unwrap() []error {
	return []error{ErrUpstreamEmpty, e.err}
}

// generationOutcome labels a call for metrics. Only a reply that arrived
// without text counts as empty; transport errors and cancellation are failures.
func generationOutcome(err error) string {
	if err == nil {
		return outcomeSuccess
	}

	var te *transportError
	if errors.As(err, &te) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return outcomeFailure
	}
	if errors.Is(err, ErrUpstreamEmpty) {
		return outcomeEmpty
	}
	return outcomeFailure
}

// isTransient reports whether a retry could succeed: per-attempt timeouts,
// network errors and upstream 429/5xx responses.
func isTransient(err error) bool {
	var te *transportError
	if !errors.As(err, &te) {
		return false
	}

	if errors.Is(te.err, context.DeadlineExceeded) {
		return true
	}

	var apiErr genai.APIError
	if errors.As(te.err, &apiErr) {
		return retryableStatus(apiErr.Code)
	}
	var apiErrPtr *genai.APIError
	if errors.As(te.err, &apiErrPtr) {
		return retryableStatus(apiErrPtr.Code)
	}

	var netErr net.Error
	return errors.As(te.err, &netErr)
}

func retryableStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
