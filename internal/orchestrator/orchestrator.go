// Package orchestrator turns source text into a shuffled collection of social
// media posts. It fans one completion request per strategy out to the model,
// extracts posts from every returned sample, and merges the results.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/Yates-Labs/postcraft/internal/extract"
	"github.com/Yates-Labs/postcraft/internal/llm"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrGenerationFailed = errors.New("post generation failed")
)

// Config holds the model identifiers used by the orchestrator.
type Config struct {
	// Model generates the posts (e.g., "gpt-4o")
	Model string

	// ArticleModel strips a web page down to its article body
	ArticleModel string
}

// DefaultConfig returns the models used for post generation.
func DefaultConfig() Config {
	return Config{
		Model:        "gpt-4o",
		ArticleModel: "gpt-4o",
	}
}

// Orchestrator issues multi-strategy completion requests and merges the
// extracted posts. It holds no mutable state and is safe for concurrent use.
type Orchestrator struct {
	client    llm.Client
	extractor extract.Extractor
	config    Config
	logger    *zap.Logger
	shuffle   func(n int, swap func(i, j int))
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithExtractor replaces the default bracket extractor.
func WithExtractor(e extract.Extractor) Option {
	return func(o *Orchestrator) { o.extractor = e }
}

// WithLogger sets the logger used for request and extraction diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithShuffle replaces the uniform shuffle applied by Merge.
func WithShuffle(shuffle func(n int, swap func(i, j int))) Option {
	return func(o *Orchestrator) { o.shuffle = shuffle }
}

// New creates an orchestrator backed by client.
func New(client llm.Client, config Config, opts ...Option) (*Orchestrator, error) {
	if client == nil {
		return nil, fmt.Errorf("client cannot be nil")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("%w: missing model name", llm.ErrInvalidConfig)
	}
	if config.ArticleModel == "" {
		config.ArticleModel = config.Model
	}

	o := &Orchestrator{
		client:  client,
		config:  config,
		logger:  zap.NewNop(),
		shuffle: rand.Shuffle,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.extractor == nil {
		o.extractor = extract.NewBracketExtractor(o.logger)
	}

	return o, nil
}

// Generate issues one completion request per strategy, all concurrently, and
// returns the content of every sample. If any request fails the whole batch
// fails and the remaining requests are cancelled.
func (o *Orchestrator) Generate(ctx context.Context, content string, strategies []Strategy) ([]string, error) {
	if len(strategies) == 0 {
		return nil, fmt.Errorf("%w: at least one strategy is required", ErrInvalidStrategy)
	}
	for _, s := range strategies {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}

	logger := o.logger.With(zap.String("run", uuid.NewString()))
	logger.Info("Issuing completion requests",
		zap.Int("strategies", len(strategies)),
		zap.Int("content_length", len(content)))

	results := make([][]llm.Completion, len(strategies))
	g, gctx := errgroup.WithContext(ctx)

	for i, s := range strategies {
		g.Go(func() error {
			start := time.Now()
			completions, err := o.client.Complete(gctx, o.strategyRequest(s, content))
			if err != nil {
				return fmt.Errorf("%w: strategy %q: %w", ErrGenerationFailed, s.Name, err)
			}
			results[i] = completions
			logger.Debug("Strategy completed",
				zap.String("strategy", s.Name),
				zap.Int("samples", len(completions)),
				zap.Duration("elapsed", time.Since(start)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Warn("Completion batch failed", zap.Error(err))
		return nil, err
	}

	var raw []string
	for _, completions := range results {
		for _, c := range completions {
			raw = append(raw, c.Content)
		}
	}
	logger.Info("Completion batch finished", zap.Int("completions", len(raw)))

	return raw, nil
}

// Merge extracts posts from every completion, concatenates them and returns
// them in uniformly random order. Completions that cannot be parsed
// contribute nothing.
func (o *Orchestrator) Merge(completions []string) []extract.Post {
	posts := make([]extract.Post, 0, len(completions))
	empty := 0
	for _, c := range completions {
		extracted := o.extractor.Extract(c)
		if len(extracted) == 0 {
			empty++
		}
		posts = append(posts, extracted...)
	}

	o.shuffle(len(posts), func(i, j int) {
		posts[i], posts[j] = posts[j], posts[i]
	})

	o.logger.Debug("Merged completions",
		zap.Int("completions", len(completions)),
		zap.Int("without_posts", empty),
		zap.Int("posts", len(posts)))

	return posts
}

// GeneratePosts runs the default strategies against content and merges the result.
func (o *Orchestrator) GeneratePosts(ctx context.Context, content string) ([]extract.Post, error) {
	return o.GeneratePostsWith(ctx, content, DefaultStrategies())
}

// GeneratePostsWith runs the given strategies against content and merges the result.
func (o *Orchestrator) GeneratePostsWith(ctx context.Context, content string, strategies []Strategy) ([]extract.Post, error) {
	completions, err := o.Generate(ctx, content, strategies)
	if err != nil {
		return nil, err
	}
	return o.Merge(completions), nil
}

// ExtractArticleAndGenerate asks the model to reduce a full web page to its
// article body, then generates posts from that article. An empty article is
// passed on as-is.
func (o *Orchestrator) ExtractArticleAndGenerate(ctx context.Context, rawPage string) ([]extract.Post, error) {
	o.logger.Info("Extracting article", zap.Int("page_length", len(rawPage)))

	completions, err := o.client.Complete(ctx, llm.CompletionRequest{
		Model: o.config.ArticleModel,
		Messages: []llm.Message{
			{Role: llm.RoleAssistant, Content: articleInstruction},
			{Role: llm.RoleUser, Content: rawPage},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: article extraction: %w", ErrGenerationFailed, err)
	}

	var article string
	if len(completions) > 0 {
		article = completions[0].Content
	}
	o.logger.Info("Article extracted", zap.Int("article_length", len(article)))

	return o.GeneratePosts(ctx, article)
}

func (o *Orchestrator) strategyRequest(s Strategy, content string) llm.CompletionRequest {
	return llm.CompletionRequest{
		Model: o.config.Model,
		Messages: []llm.Message{
			{Role: llm.RoleAssistant, Content: s.Instruction},
			{Role: llm.RoleUser, Content: content},
		},
		N:           s.SampleCount,
		Temperature: llm.Float(s.Temperature),
	}
}
