package input

import "context"

type TranslateOptions struct {
	SourceLang string
	TargetLang string
	Domain     string
}

// BatchTranslator translates a set of drawing texts concurrently.
// TranslateAll returns one result per input item, in input order; items
// that fail keep their original text. onProgress may be nil.
type BatchTranslator interface {
	TranslateAll(ctx context.Context, items []string, opts TranslateOptions, onProgress func(done, total int)) []string
}
