package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/manolydidier/bibliotheque-console/pkg/models"
)

// articleItem adapts an article to the bubbles list for the cards layout.
type articleItem struct {
	article  models.Article
	selected bool
	restored bool
}

func (i articleItem) Title() string {
	var b strings.Builder
	if i.selected {
		b.WriteString("[x] ")
	}
	b.WriteString(i.article.Title)
	if i.article.Featured {
		b.WriteString(" ★")
	}
	if i.article.Sticky {
		b.WriteString(" ⚲")
	}
	if i.restored {
		b.WriteString(" (restored)")
	}
	return b.String()
}

func (i articleItem) Description() string {
	published := "unpublished"
	if i.article.PublishedAt != nil {
		published = i.article.PublishedAt.Format("Jan 2, 2006")
	}
	category := ""
	if c := i.article.PrimaryCategory(); c != nil {
		category = c.Name + " | "
	}
	return fmt.Sprintf("%s%s | %s | %d views | %.1f (%d)",
		category, i.article.Status, published,
		i.article.ViewCount, i.article.RatingAvg, i.article.RatingCount)
}

func (i articleItem) FilterValue() string {
	return i.article.Title
}

var _ list.Item = articleItem{}
