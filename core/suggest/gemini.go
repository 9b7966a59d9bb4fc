package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Defaults for the Gemini client.
const (
	DefaultEndpoint = "https://generativelanguage.googleapis.com"
	DefaultModel    = "gemini-2.5-flash"
)

// Gemini is a Client asking a Gemini language model for suggestions.
type Gemini struct {
	Endpoint string       // defaults to DefaultEndpoint
	Model    string       // defaults to DefaultModel
	APIKey   string       // without a key, no requests are made
	Client   *http.Client // defaults to a client with a 30s timeout
}

var _ Client = Gemini{}

// Suggest asks the model for a text of the requested kind.
func (g Gemini) Suggest(ctx context.Context, kind Kind, locale language.Tag) string {
	prompt := samplePrompt(kind, locale)
	if prompt == "" {
		tracer().Errorf("no prompt for suggestion kind %q", kind)
		return ""
	}
	text, err := g.generate(ctx, prompt)
	if err != nil {
		tracer().Errorf("Gemini API error: %v", err)
		return ""
	}
	return text
}

// SuggestStack asks the model for a CSS font-family stack.
func (g Gemini) SuggestStack(ctx context.Context, family string) string {
	prompt := fmt.Sprintf(`Generate a modern, safe CSS font-family stack for a font named "%s". `+
		`Return ONLY the CSS value string (e.g. "Inter, system-ui, sans-serif").`, family)
	stack, err := g.generate(ctx, prompt)
	if err != nil || stack == "" {
		if err != nil {
			tracer().Errorf("Gemini API error: %v", err)
		}
		return FallbackStack(family)
	}
	return stack
}

func samplePrompt(kind Kind, locale language.Tag) string {
	zh := isChinese(locale)
	switch kind {
	case CommonChinese:
		return "Provide a string containing the 500 most frequently used Simplified Chinese characters " +
			"combined into a coherent paragraph if possible, otherwise just a list. Return ONLY the characters."
	case ASCII:
		return "Return a string containing all standard ASCII printable characters " +
			"(letters, numbers, punctuation). Return ONLY the characters."
	case Pangram:
		if zh {
			return "Generate 5 unique, creative pangrams or complete sentence examples in Simplified Chinese " +
				"that cover a wide range of characters. Return them as plain text."
		}
		return "Generate 5 unique, creative pangrams in English. Return them as plain text."
	case Marketing:
		if zh {
			return "Generate a short, punchy, minimalist marketing slogan for a design portfolio website " +
				"in Simplified Chinese. Provide 3 variations."
		}
		return "Generate a short, punchy, minimalist marketing slogan for a design portfolio website " +
			"in English. 3 variations."
	}
	return ""
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// generate sends a prompt and returns the text of the first candidate, trimmed.
func (g Gemini) generate(ctx context.Context, prompt string) (string, error) {
	if g.APIKey == "" {
		return "", fmt.Errorf("API key not set")
	}
	endpoint, model := g.Endpoint, g.Model
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if model == "" {
		model = DefaultModel
	}
	client := g.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	body, err := json.Marshal(generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}})
	if err != nil {
		return "", err
	}
	u := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		strings.TrimSuffix(endpoint, "/"), model, url.QueryEscape(g.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("response status %s", resp.Status)
	}
	var r generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", err
	}
	if len(r.Candidates) == 0 {
		return "", nil
	}
	var b strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	tracer().Debugf("model %s returned %d bytes", model, b.Len())
	return strings.TrimSpace(b.String()), nil
}
