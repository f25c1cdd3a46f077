// Package chat runs one question through classification, data lookup, knowledge retrieval,
// prompt assembly and completion.
package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/classify"
	"github.com/hyperjump/kotae/internal/dataset"
	"github.com/hyperjump/kotae/internal/knowledge"
	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/internal/prompt"
)

// Completer turns a prompt into a chart. It never fails; failures are error specs.
type Completer interface {
	Complete(ctx context.Context, prompt string) models.ChartSpec
}

// TemplateSource supplies the instruction template for each question.
type TemplateSource interface {
	Load() (string, error)
}

// Orchestrator sequences the pipeline. It holds no per-request state and is safe for
// concurrent use.
type Orchestrator struct {
	classifier *classify.Classifier
	gateway    dataset.Gateway
	corpus     knowledge.Corpus
	retriever  *knowledge.Retriever
	template   TemplateSource
	completer  Completer
	logger     *zap.Logger
}

// NewOrchestrator wires the pipeline stages.
func NewOrchestrator(
	classifier *classify.Classifier,
	gateway dataset.Gateway,
	corpus knowledge.Corpus,
	retriever *knowledge.Retriever,
	template TemplateSource,
	completer Completer,
	logger *zap.Logger,
) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		classifier: classifier,
		gateway:    gateway,
		corpus:     corpus,
		retriever:  retriever,
		template:   template,
		completer:  completer,
		logger:     logger,
	}
}

// Prepared is everything computed for a question before the completion call.
type Prepared struct {
	RequestID string
	Question  string
	Tag       models.DomainTag
	Keyword   string
	Records   []models.Record
	Knowledge string
	Prompt    string
}

// Prepare runs every stage except completion. Errors come only from reading the knowledge
// directory or the template file.
func (o *Orchestrator) Prepare(ctx context.Context, question string) (*Prepared, error) {
	p := &Prepared{RequestID: uuid.NewString(), Question: question}
	log := o.logger.With(zap.String("request_id", p.RequestID))

	p.Tag, p.Keyword = o.classifier.Explain(question)
	p.Records = o.gateway.ListByDomain(p.Tag)
	log.Debug("question classified",
		zap.String("tag", string(p.Tag)),
		zap.String("keyword", p.Keyword),
		zap.Int("records", len(p.Records)))

	docs, err := o.corpus.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("load knowledge: %w", err)
	}
	p.Knowledge = o.retriever.Retrieve(question, docs)
	log.Debug("knowledge retrieved",
		zap.Int("documents", len(docs)),
		zap.Int("knowledge_bytes", len(p.Knowledge)))

	tpl, err := o.template.Load()
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}
	p.Prompt, err = prompt.Assemble(p.Records, p.Knowledge, question, tpl)
	if err != nil {
		return nil, err
	}
	log.Debug("prompt assembled", zap.Int("prompt_bytes", len(p.Prompt)))
	return p, nil
}

// Handle answers one question with exactly one completion call. Completion failures are
// returned as error specs; the error result is reserved for local I/O faults.
func (o *Orchestrator) Handle(ctx context.Context, question string) (models.ChartSpec, error) {
	start := time.Now()
	p, err := o.Prepare(ctx, question)
	if err != nil {
		o.logger.Error("question not prepared", zap.Error(err))
		return models.ChartSpec{}, err
	}

	spec := o.completer.Complete(ctx, p.Prompt)
	fields := []zap.Field{
		zap.String("request_id", p.RequestID),
		zap.String("tag", string(p.Tag)),
		zap.Int("records", len(p.Records)),
		zap.Int("knowledge_bytes", len(p.Knowledge)),
		zap.Duration("duration", time.Since(start)),
	}
	if spec.IsError() {
		o.logger.Warn("question answered with error", append(fields, zap.String("error", spec.Error))...)
	} else {
		o.logger.Info("question answered", append(fields, zap.String("chart_type", string(spec.ChartType)))...)
	}
	return spec, nil
}

// Gateway returns the dataset gateway.
func (o *Orchestrator) Gateway() dataset.Gateway {
	return o.gateway
}

// Corpus returns the knowledge corpus.
func (o *Orchestrator) Corpus() knowledge.Corpus {
	return o.corpus
}
