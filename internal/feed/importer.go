package feed

import (
	"context"
	"fmt"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"github.com/manolydidier/bibliotheque-console/internal/api"
)

// Importer ingests an RSS/Atom feed as draft articles through the platform
// API. Feed bodies arrive as HTML and are converted to markdown, the body
// format the platform stores.
type Importer struct {
	client    *api.Client
	parser    *gofeed.Parser
	converter *md.Converter
	log       zerolog.Logger
}

func NewImporter(client *api.Client, log zerolog.Logger) *Importer {
	return &Importer{
		client:    client,
		parser:    gofeed.NewParser(),
		converter: md.NewConverter("", true, nil),
		log:       log,
	}
}

// ImportFeed fetches and parses a feed and submits one draft per usable
// item. A failed item is logged and skipped; the rest still import.
func (im *Importer) ImportFeed(ctx context.Context, feedURL string) (int, error) {
	parsed, err := im.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return 0, fmt.Errorf("parsing feed %s: %w", feedURL, err)
	}

	created := 0
	for _, item := range parsed.Items {
		draft := im.convertToDraft(item)
		if draft == nil {
			continue
		}

		if _, err := im.client.CreateArticle(ctx, draft); err != nil {
			im.log.Warn().Err(err).Str("title", item.Title).Msg("importing feed item failed")
			continue
		}
		created++
	}

	im.log.Info().Str("feed", feedURL).Int("created", created).
		Int("items", len(parsed.Items)).Msg("feed import finished")
	return created, nil
}

// convertToDraft converts a gofeed.Item into a create payload.
func (im *Importer) convertToDraft(item *gofeed.Item) *api.ArticleDraft {
	var publishedAt *time.Time
	if item.PublishedParsed != nil {
		publishedAt = item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		publishedAt = item.UpdatedParsed
	} else {
		// Undated items can't be ordered in the collection.
		return nil
	}

	content := item.Content
	if content == "" {
		content = item.Description
	}
	if content == "" || item.Title == "" {
		return nil
	}

	markdown, err := im.converter.ConvertString(content)
	if err != nil {
		im.log.Warn().Err(err).Str("title", item.Title).Msg("converting item body failed")
		markdown = content
	}

	excerpt := item.Description
	if excerpt == "" {
		if len(markdown) > 500 {
			excerpt = markdown[:500] + "..."
		} else {
			excerpt = markdown
		}
	}

	var tags []string
	for _, c := range item.Categories {
		if c != "" {
			tags = append(tags, c)
		}
	}

	return &api.ArticleDraft{
		Title:       item.Title,
		Content:     markdown,
		Excerpt:     excerpt,
		Status:      "draft",
		Tags:        tags,
		SourceURL:   item.Link,
		PublishedAt: publishedAt,
	}
}
