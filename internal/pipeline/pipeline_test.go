package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/paper-simplifier/internal/analyzer"
	"github.com/BerylCAtieno/paper-simplifier/internal/config"
	"github.com/BerylCAtieno/paper-simplifier/internal/models"
	"github.com/BerylCAtieno/paper-simplifier/internal/utils"
)

// fakeClient answers by prompt kind and records every request.
type fakeClient struct {
	mu       sync.Mutex
	requests []analyzer.Request
	fail     map[string]error
	content  map[string]string
	usage    *analyzer.Usage
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		fail:    map[string]error{},
		content: map[string]string{},
		usage:   &analyzer.Usage{PromptTokens: 100, CompletionTokens: 50},
	}
}

func (f *fakeClient) Complete(_ context.Context, req analyzer.Request) (*analyzer.Completion, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	kind := promptKind(req)
	if err := f.fail[kind]; err != nil {
		return nil, err
	}
	content, ok := f.content[kind]
	if !ok {
		content = kind + " output"
	}
	return &analyzer.Completion{Content: content, Usage: f.usage}, nil
}

func promptKind(req analyzer.Request) string {
	user := req.Messages[len(req.Messages)-1].Content
	switch {
	case strings.Contains(user, "level reader"):
		for _, level := range models.ReadingLevels {
			if strings.Contains(user, "for a "+level+" level") {
				return "summary:" + level
			}
		}
		return "summary"
	case strings.Contains(user, "citations and references"):
		return "citations"
	case strings.Contains(user, "most important findings"):
		return "key_findings"
	case strings.Contains(user, "numerical accuracy"):
		return "fact_check"
	case strings.Contains(user, "predefined categories"):
		return "category"
	case strings.Contains(user, "Question about this paper"):
		return "chat"
	}
	return "unknown"
}

func newTestPipeline(client analyzer.Client, opts Options) *Pipeline {
	return New(client, opts, utils.NewNopLogger())
}

func TestAnalyzeProducesAllFields(t *testing.T) {
	client := newFakeClient()
	client.content["category"] = " science. "
	p := newTestPipeline(client, DefaultOptions())

	result, err := p.Analyze(context.Background(), "A paper about things.")
	require.NoError(t, err)

	assert.Equal(t, "A paper about things.", result.Text)
	require.Len(t, result.Summaries, 3)
	for _, level := range models.ReadingLevels {
		assert.Equal(t, "summary:"+level+" output", result.Summaries[level])
	}
	assert.Equal(t, "citations output", result.Citations)
	assert.Equal(t, "key_findings output", result.KeyFindings)
	require.NotNil(t, result.FactCheck)
	assert.Equal(t, "fact_check output", *result.FactCheck)
	require.NotNil(t, result.Category)
	assert.Equal(t, "Science", *result.Category)

	// 3 summaries + 4 auxiliaries, 100 in / 50 out each
	assert.Len(t, client.requests, 7)
	assert.Equal(t, 700, result.Stats.InputTokens)
	assert.Equal(t, 350, result.Stats.OutputTokens)
	assert.Equal(t, 0.0021, result.Stats.Cost)
	assert.GreaterOrEqual(t, result.Stats.ProcessingTime, int64(0))
}

func TestAnalyzeAuxiliaryFailureUsesPlaceholders(t *testing.T) {
	client := newFakeClient()
	client.fail["citations"] = errors.New("rate limited")
	client.fail["key_findings"] = errors.New("timeout")
	client.fail["fact_check"] = errors.New("overloaded")
	client.fail["category"] = errors.New("boom")
	p := newTestPipeline(client, DefaultOptions())

	result, err := p.Analyze(context.Background(), "text")
	require.NoError(t, err)

	assert.Equal(t, "Error extracting citations: rate limited", result.Citations)
	assert.Equal(t, "Error extracting key findings: timeout", result.KeyFindings)
	assert.Equal(t, "Error performing fact check: overloaded", *result.FactCheck)
	assert.Equal(t, Uncategorized, *result.Category)

	// Primary summaries are untouched; only their usage is counted.
	assert.Equal(t, "summary:phd output", result.Summaries[models.LevelPhD])
	assert.Equal(t, 300, result.Stats.InputTokens)
	assert.Equal(t, 150, result.Stats.OutputTokens)
}

func TestAnalyzePrimaryFailureAborts(t *testing.T) {
	client := newFakeClient()
	client.fail["summary:college"] = errors.New("upstream 500")
	p := newTestPipeline(client, DefaultOptions())

	result, err := p.Analyze(context.Background(), "text")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "college summary")
	assert.Contains(t, err.Error(), "upstream 500")

	for _, req := range client.requests {
		assert.True(t, strings.HasPrefix(promptKind(req), "summary"), "no auxiliary call after a primary failure")
	}
}

func TestAnalyzeOptionalExtractionsDisabled(t *testing.T) {
	client := newFakeClient()
	opts := DefaultOptions()
	opts.EnableFactCheck = false
	opts.EnableCategory = false
	p := newTestPipeline(client, opts)

	result, err := p.Analyze(context.Background(), "text")
	require.NoError(t, err)

	assert.Nil(t, result.FactCheck)
	assert.Nil(t, result.Category)
	assert.Len(t, client.requests, 5)
}

func TestAnalyzeTruncatesEveryPrompt(t *testing.T) {
	client := newFakeClient()
	opts := DefaultOptions()
	opts.MaxInputChars = 10
	p := newTestPipeline(client, opts)

	text := "0123456789" + strings.Repeat("#", 5000)
	result, err := p.Analyze(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, text, result.Text, "result keeps the full text")

	for _, req := range client.requests {
		user := req.Messages[len(req.Messages)-1].Content
		assert.Contains(t, user, "0123456789...")
		assert.NotContains(t, user, "#")
	}
}

func TestAnalyzeMissingUsageIsNotCounted(t *testing.T) {
	client := newFakeClient()
	client.usage = nil
	p := newTestPipeline(client, DefaultOptions())

	result, err := p.Analyze(context.Background(), "text")
	require.NoError(t, err)
	assert.Zero(t, result.Stats.InputTokens)
	assert.Zero(t, result.Stats.Cost)
}

func TestAsk(t *testing.T) {
	client := newFakeClient()
	client.content["chat"] = "It is about cats."
	p := newTestPipeline(client, DefaultOptions())

	answer, err := p.Ask(context.Background(), "What is it about?", "Cats are great.")
	require.NoError(t, err)
	assert.Equal(t, "It is about cats.", answer)

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	assert.Equal(t, chatMaxTokens, req.MaxTokens)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Contains(t, req.Messages[1].Content, "Cats are great....")
	assert.Contains(t, req.Messages[1].Content, "What is it about?")
}

func TestAskPropagatesFailure(t *testing.T) {
	client := newFakeClient()
	client.fail["chat"] = errors.New("down")
	p := newTestPipeline(client, DefaultOptions())

	_, err := p.Ask(context.Background(), "q", "t")
	assert.Error(t, err)
}

func TestCost(t *testing.T) {
	assert.Equal(t, 0.003, Cost(1000, 500, 0.002))
	assert.Equal(t, 0.0, Cost(0, 0, 0.002))
	// 0.00123 rounds to 4 places
	assert.Equal(t, 0.0012, Cost(600, 15, 0.002))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "héé", Truncate("hééllo", 3))
	assert.Equal(t, "", Truncate("abc", 0))
}

func TestExtractionOrElse(t *testing.T) {
	ok := Extraction{Text: "fine"}
	failed := Extraction{Err: errors.New("nope")}
	fallback := func(err error) string { return "placeholder: " + err.Error() }

	assert.Equal(t, "fine", ok.OrElse(fallback))
	assert.Equal(t, "placeholder: nope", failed.OrElse(fallback))
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(&config.Config{
		MaxInputChars:         500,
		CostPerThousandTokens: 0.01,
		EnableFactCheck:       false,
		EnableCategory:        true,
	})

	assert.Equal(t, Options{
		MaxInputChars:         500,
		CostPerThousandTokens: 0.01,
		EnableFactCheck:       false,
		EnableCategory:        true,
	}, opts)
}
