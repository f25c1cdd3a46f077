package knowledge

import (
	"strings"

	"github.com/hyperjump/kotae/internal/models"
)

// TopicPair marks a document relevant when Topic occurs in the question and Keyword occurs in
// the document content. Both are compared lowercased.
type TopicPair struct {
	Topic   string
	Keyword string
}

// DefaultTopicPairs are the business topics the bundled documents cover.
var DefaultTopicPairs = []TopicPair{
	{Topic: "revenue", Keyword: "revenue"},
	{Topic: "profit", Keyword: "profit"},
	{Topic: "cost", Keyword: "cost"},
	{Topic: "customer", Keyword: "customer"},
	{Topic: "product", Keyword: "product"},
	{Topic: "chart", Keyword: "chart"},
}

// Retriever selects documents for a question.
type Retriever struct {
	pairs []TopicPair
}

// NewRetriever returns a retriever over pairs; nil means DefaultTopicPairs.
func NewRetriever(pairs []TopicPair) *Retriever {
	if pairs == nil {
		pairs = DefaultTopicPairs
	}
	norm := make([]TopicPair, len(pairs))
	for i, p := range pairs {
		norm[i] = TopicPair{Topic: strings.ToLower(p.Topic), Keyword: strings.ToLower(p.Keyword)}
	}
	return &Retriever{pairs: norm}
}

// Pairs returns the retriever's topic pairs.
func (r *Retriever) Pairs() []TopicPair {
	return append([]TopicPair(nil), r.pairs...)
}

// Select returns the relevant documents in corpus order. When nothing matches, the first
// document is returned alone; an empty corpus yields nil.
func (r *Retriever) Select(question string, corpus []models.KnowledgeDocument) []models.KnowledgeDocument {
	if len(corpus) == 0 {
		return nil
	}
	q := strings.ToLower(question)
	var topics []TopicPair
	for _, p := range r.pairs {
		if strings.Contains(q, p.Topic) {
			topics = append(topics, p)
		}
	}

	var out []models.KnowledgeDocument
	for _, doc := range corpus {
		content := strings.ToLower(doc.Content)
		for _, p := range topics {
			if strings.Contains(content, p.Keyword) {
				out = append(out, doc)
				break
			}
		}
	}
	if len(out) == 0 {
		return []models.KnowledgeDocument{corpus[0]}
	}
	return out
}

// Retrieve joins the contents of the selected documents with a blank line.
func (r *Retriever) Retrieve(question string, corpus []models.KnowledgeDocument) string {
	docs := r.Select(question, corpus)
	parts := make([]string, len(docs))
	for i, d := range docs {
		parts[i] = d.Content
	}
	return strings.Join(parts, "\n\n")
}
