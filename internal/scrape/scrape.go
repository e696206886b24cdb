// Package scrape discovers hotel site pages and extracts venue data from them.
package scrape

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/venue-quote/internal/model"
)

// Mapper lists the URLs of a site.
type Mapper interface {
	Map(ctx context.Context, siteURL string) ([]string, error)
}

// Extractor pulls a structured record out of one page according to schema,
// using prompt as the natural-language hint.
type Extractor interface {
	Extract(ctx context.Context, pageURL string, schema Schema, prompt string) (*model.ExtractionRecord, error)
}

// ErrNoExtract is returned when the extraction service answers without data.
var ErrNoExtract = eris.New("scrape: no data extracted")

// cleanJSON strips markdown fences and surrounding prose from an LLM reply,
// leaving the outermost JSON object.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if rest, ok := strings.CutPrefix(text, "```"); ok {
		rest = strings.TrimPrefix(rest, "json")
		if idx := strings.LastIndex(rest, "```"); idx >= 0 {
			rest = rest[:idx]
		}
		text = rest
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}
