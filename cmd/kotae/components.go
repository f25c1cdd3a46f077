package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/chat"
	"github.com/hyperjump/kotae/internal/classify"
	"github.com/hyperjump/kotae/internal/completion"
	"github.com/hyperjump/kotae/internal/config"
	"github.com/hyperjump/kotae/internal/dataset"
	"github.com/hyperjump/kotae/internal/knowledge"
	"github.com/hyperjump/kotae/internal/prompt"
)

// Components holds everything a command needs to answer questions.
type Components struct {
	Deployment   *dataset.Deployment
	Gateway      dataset.Gateway
	Classifier   *classify.Classifier
	Loader       *knowledge.Loader
	Cache        *knowledge.CachedCorpus
	Corpus       knowledge.Corpus
	Retriever    *knowledge.Retriever
	Template     *prompt.TemplateFile
	Completion   *completion.Client
	Orchestrator *chat.Orchestrator
}

// Close stops the knowledge cache if one was started.
func (c *Components) Close() {
	if c.Cache != nil {
		c.Cache.Stop()
	}
}

// initializeComponents wires the pipeline from cfg. With cache set, knowledge documents are
// served from a watched snapshot; the caller must Start it.
func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger, cache bool) (*Components, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	deployment, err := loadDeployment(ctx, cfg.Dataset, logger)
	if err != nil {
		return nil, err
	}
	classifier, err := classify.ForDeployment(deployment)
	if err != nil {
		return nil, err
	}

	loader := knowledge.NewLoader(cfg.Knowledge.Directory, cfg.Knowledge.Extensions, logger)
	c := &Components{
		Deployment: deployment,
		Gateway:    dataset.NewMemoryGateway(deployment),
		Classifier: classifier,
		Loader:     loader,
		Corpus:     loader,
		Retriever:  knowledge.NewRetriever(nil),
		Template:   prompt.NewTemplateFile(cfg.Prompt.TemplatePath),
	}
	if cache {
		c.Cache = knowledge.NewCachedCorpus(loader, logger)
		c.Corpus = c.Cache
	}

	provider, err := newProvider(cfg.Completion)
	if err != nil {
		return nil, err
	}
	c.Completion = completion.NewClient(provider,
		completion.WithTimeout(cfg.Completion.Timeout),
		completion.WithValidation(cfg.Completion.Validate),
		completion.WithLogger(logger),
	)
	c.Orchestrator = chat.NewOrchestrator(c.Classifier, c.Gateway, c.Corpus, c.Retriever, c.Template, c.Completion, logger)

	logger.Debug("components initialized",
		zap.String("deployment", deployment.Name),
		zap.String("backend", cfg.Dataset.Backend),
		zap.String("provider", provider.Name()),
		zap.String("model", provider.Model()),
		zap.String("knowledge_dir", loader.Dir()),
		zap.Bool("knowledge_cache", cache),
	)
	return c, nil
}

// loadDeployment returns the configured deployment. The sqlite backend seeds the database on
// first use and then reads every row back, so edits to the file replace the built-in rows.
func loadDeployment(ctx context.Context, cfg config.DatasetConfig, logger *zap.Logger) (*dataset.Deployment, error) {
	builtin, err := dataset.Lookup(cfg.Deployment)
	if err != nil {
		return nil, err
	}
	if cfg.Backend != config.BackendSQLite {
		return builtin, nil
	}

	fixtures, err := dataset.NewSQLiteFixtures(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixtures: %w", err)
	}
	defer fixtures.Close()

	seeded, err := fixtures.Seed(ctx, builtin)
	if err != nil {
		return nil, fmt.Errorf("failed to seed fixtures: %w", err)
	}
	if seeded > 0 {
		logger.Info("fixtures seeded", zap.String("path", cfg.DatabasePath), zap.Int("rows", seeded))
	}
	d, err := fixtures.Load(ctx, builtin)
	if err != nil {
		return nil, fmt.Errorf("failed to load fixtures: %w", err)
	}
	return d, nil
}

func newProvider(cfg config.CompletionConfig) (completion.Provider, error) {
	switch cfg.Provider {
	case config.ProviderOllama:
		return completion.NewOllamaProvider(cfg.BaseURL, cfg.Model), nil
	case config.ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key (set OPENAI_API_KEY)")
		}
		return completion.NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, nil), nil
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.Provider)
	}
}
