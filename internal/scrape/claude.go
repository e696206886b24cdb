package scrape

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/venue-quote/internal/model"
	"github.com/sells-group/venue-quote/internal/resilience"
	"github.com/sells-group/venue-quote/pkg/anthropic"
	"github.com/sells-group/venue-quote/pkg/jina"
)

const (
	defaultClaudeModel     = "claude-haiku-4-5-20251001"
	defaultClaudeMaxTokens = 4096
	defaultMaxPageChars    = 60000
)

const claudeSystemPrompt = `You extract structured hotel venue data from web page content.
Reply with a single JSON object that conforms to the given JSON schema and nothing else.
Use empty arrays for categories the page does not mention. Never invent names or sizes.
Copy square footage exactly as written on the page.`

// ClaudeExtractor reads a page as markdown through Jina Reader and asks
// Claude to fill the schema from it.
type ClaudeExtractor struct {
	reader jina.Client
	ai     anthropic.Client

	Model     string
	MaxTokens int64
	// MaxPageChars truncates page content before prompting.
	MaxPageChars int
	Retry        resilience.Policy
}

// NewClaudeExtractor creates a ClaudeExtractor with default model and limits.
func NewClaudeExtractor(reader jina.Client, ai anthropic.Client) *ClaudeExtractor {
	return &ClaudeExtractor{
		reader:       reader,
		ai:           ai,
		Model:        defaultClaudeModel,
		MaxTokens:    defaultClaudeMaxTokens,
		MaxPageChars: defaultMaxPageChars,
		Retry:        resilience.DefaultPolicy(),
	}
}

// Extract implements Extractor.
func (c *ClaudeExtractor) Extract(ctx context.Context, pageURL string, schema Schema, prompt string) (*model.ExtractionRecord, error) {
	retry := c.Retry
	retry.OnRetry = resilience.LogRetries(zap.L(), "jina", "read")

	page, err := resilience.DoVal(ctx, retry, func(ctx context.Context) (*jina.ReadResponse, error) {
		return c.reader.Read(ctx, pageURL)
	})
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(page.Data.Content)
	if content == "" {
		return nil, eris.Wrapf(ErrNoExtract, "jina: empty page %s", pageURL)
	}
	if c.MaxPageChars > 0 && len(content) > c.MaxPageChars {
		content = content[:c.MaxPageChars]
	}

	temp := 0.0
	resp, err := c.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		System:      claudeSystemPrompt,
		Messages:    []anthropic.Message{{Role: "user", Content: buildUserPrompt(pageURL, page.Data.Title, content, schema, prompt)}},
		Temperature: &temp,
	})
	if err != nil {
		return nil, eris.Wrapf(err, "claude: extract %s", pageURL)
	}
	resp.Usage.LogUsage(zap.L(), c.Model, pageURL)

	rec, err := decodeRecord([]byte(cleanJSON(resp.Text())))
	if err != nil {
		return nil, eris.Wrapf(err, "claude: %s", pageURL)
	}
	return rec, nil
}

func buildUserPrompt(pageURL, title, content string, schema Schema, prompt string) string {
	var b strings.Builder
	b.WriteString(prompt)
	b.WriteString("\n\nJSON schema:\n")
	b.WriteString(schema.JSON())
	fmt.Fprintf(&b, "\n\nPage: %s", pageURL)
	if title != "" {
		fmt.Fprintf(&b, " (%s)", title)
	}
	b.WriteString("\n\nContent:\n")
	b.WriteString(content)
	return b.String()
}
