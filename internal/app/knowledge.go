package app

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"bena_places/internal/domain"
)

const (
	DescriptionLimit  = 500
	categoryNamespace = "Category:"
	localizedLang     = "ar"
)

// KnowledgeEnricher fills description, tags and the Arabic title from the
// encyclopedia collaborator.
type KnowledgeEnricher struct {
	wiki domain.Encyclopedia
}

func NewKnowledgeEnricher(w domain.Encyclopedia) *KnowledgeEnricher {
	return &KnowledgeEnricher{wiki: w}
}

// LookupKnowledge returns DefaultKnowledge when the page does not exist.
// The error is non-nil only when the lookup itself failed.
func (e *KnowledgeEnricher) LookupKnowledge(ctx context.Context, name string) (domain.KnowledgeResult, error) {
	page, err := e.wiki.Page(ctx, name)
	if err != nil {
		return domain.DefaultKnowledge(), err
	}
	if !page.Exists {
		log.Info().Str("name", name).Msg("no encyclopedia page")
		return domain.DefaultKnowledge(), nil
	}

	out := domain.DefaultKnowledge()
	out.Found = true
	if page.Summary != "" {
		out.Description = Truncate(page.Summary, DescriptionLimit)
	}
	if tags := JoinCategories(page.Categories); tags != "" {
		out.Tags = tags
	}
	if ar := strings.TrimSpace(page.LangLinks[localizedLang]); ar != "" {
		out.ArabicName = ar
	}
	return out, nil
}

// Truncate cuts s to at most n characters. It does not look for word boundaries.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// JoinCategories strips the "Category:" namespace and joins with ", ".
func JoinCategories(cats []string) string {
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		c = strings.TrimSpace(strings.TrimPrefix(c, categoryNamespace))
		if c != "" {
			names = append(names, c)
		}
	}
	return strings.Join(names, ", ")
}
