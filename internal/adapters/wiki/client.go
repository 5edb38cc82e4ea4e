// Package wiki is the encyclopedia collaborator backed by the MediaWiki action API.
package wiki

import (
	"context"
	"net/url"

	"bena_places/internal/adapters/httpx"
	"bena_places/internal/domain"
)

const (
	DefaultBaseURL   = "https://en.wikipedia.org/w/api.php"
	DefaultUserAgent = "Bena/1.0 (bena@example.com)"
)

// Client looks pages up by exact title and returns their intro, categories
// and the title of one localized variant.
type Client struct {
	g    *httpx.Getter
	lang string
}

func New(base, userAgent string, rps int) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{g: httpx.New("wiki", base, userAgent, rps), lang: "ar"}
}

type queryResponse struct {
	Query struct {
		Pages []struct {
			Title      string `json:"title"`
			Missing    bool   `json:"missing"`
			Invalid    bool   `json:"invalid"`
			Extract    string `json:"extract"`
			Categories []struct {
				Title string `json:"title"`
			} `json:"categories"`
			LangLinks []struct {
				Lang  string `json:"lang"`
				Title string `json:"title"`
			} `json:"langlinks"`
		} `json:"pages"`
	} `json:"query"`
}

func (c *Client) Page(ctx context.Context, title string) (domain.Page, error) {
	q := url.Values{
		"action":        {"query"},
		"format":        {"json"},
		"formatversion": {"2"},
		"prop":          {"extracts|categories|langlinks"},
		"exintro":       {"1"},
		"explaintext":   {"1"},
		"cllimit":       {"max"},
		"lllang":        {c.lang},
		"titles":        {title},
	}
	var raw queryResponse
	if err := c.g.GetJSON(ctx, "", q, &raw); err != nil {
		return domain.Page{}, err
	}
	if len(raw.Query.Pages) == 0 {
		return domain.Page{Title: title}, nil
	}

	p := raw.Query.Pages[0]
	if p.Missing || p.Invalid {
		return domain.Page{Title: title}, nil
	}
	out := domain.Page{
		Exists:    true,
		Title:     p.Title,
		Summary:   p.Extract,
		LangLinks: map[string]string{},
	}
	for _, cat := range p.Categories {
		out.Categories = append(out.Categories, cat.Title)
	}
	for _, ll := range p.LangLinks {
		out.LangLinks[ll.Lang] = ll.Title
	}
	return out, nil
}
