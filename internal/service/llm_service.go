package service

import (
	"context"
	"fmt"
	"strings"

	"docportal/pkg/config"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"
)

// Enricher produces the AI-generated parts of a document.
type Enricher interface {
	Summarize(ctx context.Context, text string) (string, error)
	Translate(ctx context.Context, text, language string) (string, error)
}

const systemInstruction = `You help staff of a metro rail operator keep up with internal documents.
Answer only with the requested text, without markdown, headings or commentary.
Keep the meaning of the source exactly; do not invent facts.`

type LLMService struct {
	client *gigago.Client
	model  *gigago.GenerativeModel
	logger *zap.Logger
}

func NewLLMService(ctx context.Context, cfg *config.GigaChatConfig, logger *zap.Logger) (*LLMService, error) {
	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}

	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SystemInstruction = systemInstruction
	model.Temperature = 0.3

	logger.Info("Using GigaChat model", zap.String("model", cfg.Model))

	return &LLMService{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

func (s *LLMService) Summarize(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(`Summarise the following document in 3-5 sentences for an employee who has to act on it.
Mention deadlines, responsibilities and safety-relevant changes if the document has any.

DOCUMENT:
%s`, text)

	return s.generate(ctx, "summary", prompt)
}

func (s *LLMService) Translate(ctx context.Context, text, language string) (string, error) {
	prompt := fmt.Sprintf(`Translate the following text into %s. Return only the translation.

TEXT:
%s`, language, text)

	return s.generate(ctx, "translation", prompt)
}

func (s *LLMService) generate(ctx context.Context, task, prompt string) (string, error) {
	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: prompt},
	}

	resp, err := s.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", task, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no %s returned by LLM", task)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = sanitizeUTF8(strings.TrimSpace(content))

	s.logger.Debug("LLM response received",
		zap.String("task", task),
		zap.Int("length", len(content)),
	)
	return content, nil
}

func (s *LLMService) Close() error {
	if s.client != nil {
		s.client.Close()
	}
	return nil
}

// NoopEnricher is used when no GigaChat credentials are configured. Documents
// still get their extracted text; summary and translation stay empty.
type NoopEnricher struct{}

func (NoopEnricher) Summarize(context.Context, string) (string, error) { return "", nil }

func (NoopEnricher) Translate(context.Context, string, string) (string, error) { return "", nil }
