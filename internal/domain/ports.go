package domain

import "context"

// GeneratedContent is what the article generator returns for an aggregate
// record. Produced and consumed outside this core.
type GeneratedContent struct {
	HTML           string
	SEOTitle       string
	SEODescription string
	FAQ            []FAQPair
}

type FAQPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ContentKind keys the article store together with a slug.
type ContentKind string

const (
	ContentDevelopment ContentKind = "development"
	ContentBuilder     ContentKind = "builder"
	ContentArea        ContentKind = "area"
)

// ContentGenerator is the LLM-backed article generator. This core only
// supplies its structured inputs (Development, Builder, TownSummary).
type ContentGenerator interface {
	GenerateDevelopment(ctx context.Context, d Development) (GeneratedContent, error)
	GenerateBuilder(ctx context.Context, b Builder) (GeneratedContent, error)
	GenerateArea(ctx context.Context, a TownSummary) (GeneratedContent, error)
}

// ContentStore persists generated articles keyed by (kind, slug). The slug is
// derived by this core; storage lives elsewhere.
type ContentStore interface {
	Save(ctx context.Context, kind ContentKind, slug string, c GeneratedContent) error
	Load(ctx context.Context, kind ContentKind, slug string) (GeneratedContent, bool, error)
}
