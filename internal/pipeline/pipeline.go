package pipeline

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/BerylCAtieno/paper-simplifier/internal/analyzer"
	"github.com/BerylCAtieno/paper-simplifier/internal/config"
	"github.com/BerylCAtieno/paper-simplifier/internal/models"
	"github.com/BerylCAtieno/paper-simplifier/internal/utils"
)

type Options struct {
	// MaxInputChars caps how much of the document each prompt sees.
	// Long papers are summarized from their prefix only.
	MaxInputChars         int
	CostPerThousandTokens float64
	EnableFactCheck       bool
	EnableCategory        bool
}

func DefaultOptions() Options {
	return Options{
		MaxInputChars:         2000,
		CostPerThousandTokens: 0.002,
		EnableFactCheck:       true,
		EnableCategory:        true,
	}
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MaxInputChars:         cfg.MaxInputChars,
		CostPerThousandTokens: cfg.CostPerThousandTokens,
		EnableFactCheck:       cfg.EnableFactCheck,
		EnableCategory:        cfg.EnableCategory,
	}
}

// Pipeline turns a paper's text into an AnalysisResult via a fixed set of
// completion calls.
type Pipeline struct {
	client analyzer.Client
	opts   Options
	logger *utils.Logger
}

func New(client analyzer.Client, opts Options, logger *utils.Logger) *Pipeline {
	return &Pipeline{client: client, opts: opts, logger: logger}
}

// Extraction is the outcome of an auxiliary call: either text or the error
// that replaced it.
type Extraction struct {
	Text  string
	Err   error
	Usage *analyzer.Usage
}

// OrElse returns the extracted text, or fallback(err) if the call failed.
func (e Extraction) OrElse(fallback func(error) string) string {
	if e.Err != nil {
		return fallback(e.Err)
	}
	return e.Text
}

type auxiliary struct {
	name      string
	system    string
	prompt    string
	maxTokens int
}

// Analyze runs every reading-level summary, then the auxiliary extractions.
// A failed summary aborts the run; failed auxiliaries degrade to placeholders.
func (p *Pipeline) Analyze(ctx context.Context, text string) (*models.AnalysisResult, error) {
	start := time.Now()
	excerpt := Truncate(text, p.opts.MaxInputChars) + "..."

	levels := models.ReadingLevels
	completions := make([]*analyzer.Completion, len(levels))

	g, gctx := errgroup.WithContext(ctx)
	for i, level := range levels {
		g.Go(func() error {
			c, err := p.client.Complete(gctx, analyzer.Request{
				Messages:  []analyzer.Message{{Role: "user", Content: levelPrompt(level, excerpt)}},
				MaxTokens: levelMaxTokens,
			})
			if err != nil {
				return fmt.Errorf("%s summary: %w", level, err)
			}
			completions[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var tally tokenTally
	summaries := make(map[string]string, len(levels))
	for i, level := range levels {
		summaries[level] = completions[i].Content
		tally.add(completions[i].Usage)
	}

	aux := []auxiliary{
		{name: "citations", prompt: citationsPrompt(excerpt), maxTokens: citationsMaxTokens},
		{name: "key_findings", prompt: findingsPrompt(excerpt), maxTokens: findingsMaxTokens},
	}
	if p.opts.EnableFactCheck {
		aux = append(aux, auxiliary{name: "fact_check", system: factCheckSystemPrompt, prompt: factCheckPrompt(excerpt), maxTokens: factCheckMaxTokens})
	}
	if p.opts.EnableCategory {
		aux = append(aux, auxiliary{name: "category", system: categorySystemPrompt(), prompt: categoryPrompt(excerpt), maxTokens: categoryMaxTokens})
	}

	extractions := p.runAuxiliaries(ctx, aux)
	for _, e := range extractions {
		tally.add(e.Usage)
	}

	result := &models.AnalysisResult{
		Text:      text,
		Summaries: summaries,
		Citations: extractions["citations"].OrElse(func(err error) string {
			return "Error extracting citations: " + err.Error()
		}),
		KeyFindings: extractions["key_findings"].OrElse(func(err error) string {
			return "Error extracting key findings: " + err.Error()
		}),
	}
	if e, ok := extractions["fact_check"]; ok {
		factCheck := e.OrElse(func(err error) string {
			return "Error performing fact check: " + err.Error()
		})
		result.FactCheck = &factCheck
	}
	if e, ok := extractions["category"]; ok {
		category := normalizeCategory(e.OrElse(func(error) string { return Uncategorized }))
		if category == "" {
			category = Uncategorized
		}
		result.Category = &category
	}

	result.Stats = models.AnalysisStats{
		InputTokens:    tally.input,
		OutputTokens:   tally.output,
		Cost:           Cost(tally.input, tally.output, p.opts.CostPerThousandTokens),
		ProcessingTime: time.Since(start).Milliseconds(),
	}
	return result, nil
}

func (p *Pipeline) runAuxiliaries(ctx context.Context, aux []auxiliary) map[string]Extraction {
	results := make([]Extraction, len(aux))

	// Every goroutine returns nil: auxiliary failures are recorded, never propagated.
	var g errgroup.Group
	for i, a := range aux {
		g.Go(func() error {
			messages := make([]analyzer.Message, 0, 2)
			if a.system != "" {
				messages = append(messages, analyzer.Message{Role: "system", Content: a.system})
			}
			messages = append(messages, analyzer.Message{Role: "user", Content: a.prompt})

			c, err := p.client.Complete(ctx, analyzer.Request{Messages: messages, MaxTokens: a.maxTokens})
			if err != nil {
				p.logger.Warn("Auxiliary extraction failed", "extraction", a.name, "error", err)
				results[i] = Extraction{Err: err}
				return nil
			}
			results[i] = Extraction{Text: c.Content, Usage: c.Usage}
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]Extraction, len(aux))
	for i, a := range aux {
		out[a.name] = results[i]
	}
	return out
}

// Ask answers a free-text question about text. No history is kept.
func (p *Pipeline) Ask(ctx context.Context, question, text string) (string, error) {
	excerpt := Truncate(text, p.opts.MaxInputChars) + "..."
	c, err := p.client.Complete(ctx, analyzer.Request{
		Messages: []analyzer.Message{
			{Role: "system", Content: chatSystemPrompt},
			{Role: "user", Content: chatPrompt(excerpt, question)},
		},
		MaxTokens: chatMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	return c.Content, nil
}

// Truncate keeps the first n runes of text.
func Truncate(text string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(text) <= n {
		return text
	}
	count := 0
	for i := range text {
		if count == n {
			return text[:i]
		}
		count++
	}
	return text
}

// Cost prices a token count at rate per thousand tokens, rounded to 4 places.
func Cost(inputTokens, outputTokens int, rate float64) float64 {
	raw := float64(inputTokens+outputTokens) * rate / 1000
	return math.Round(raw*1e4) / 1e4
}

type tokenTally struct {
	input  int
	output int
}

func (t *tokenTally) add(u *analyzer.Usage) {
	if u == nil {
		return
	}
	t.input += u.PromptTokens
	t.output += u.CompletionTokens
}

// normalizeCategory is applied to raw category completions.
func normalizeCategory(raw string) string {
	raw = strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), ".\"'"))
	for _, c := range Categories {
		if strings.EqualFold(raw, c) {
			return c
		}
	}
	return raw
}
