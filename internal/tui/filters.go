package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/manolydidier/bibliotheque-console/pkg/models"
)

// filterPanel edits a draft of the filter block. Edits stay local until
// the user applies them; applying replaces the store's filters in one step
// and resets the page.
type filterPanel struct {
	draft   models.Filters
	cursor  int
	editing bool
	input   textinput.Model
}

type filterRow struct {
	label  string
	facet  string // facet dimension key, for count hints
	toggle bool
	get    func(f *models.Filters) string
	set    func(f *models.Filters, raw string)
}

var filterRows = []filterRow{
	{
		label: "Categories (ids or slugs)", facet: "categories",
		get: func(f *models.Filters) string { return strings.Join(f.Categories, ",") },
		set: func(f *models.Filters, raw string) { f.Categories = splitInput(raw) },
	},
	{
		label: "Tags (ids or slugs)", facet: "tags",
		get: func(f *models.Filters) string { return strings.Join(f.Tags, ",") },
		set: func(f *models.Filters, raw string) { f.Tags = splitInput(raw) },
	},
	{
		label: "Authors (ids or names)", facet: "authors",
		get: func(f *models.Filters) string { return strings.Join(f.Authors, ",") },
		set: func(f *models.Filters, raw string) { f.Authors = splitInput(raw) },
	},
	{
		label: "Published from (YYYY-MM-DD)",
		get:   func(f *models.Filters) string { return f.DateFrom },
		set:   func(f *models.Filters, raw string) { f.DateFrom = strings.TrimSpace(raw) },
	},
	{
		label: "Published to (YYYY-MM-DD)",
		get:   func(f *models.Filters) string { return f.DateTo },
		set:   func(f *models.Filters, raw string) { f.DateTo = strings.TrimSpace(raw) },
	},
	{
		label: "Rating min (0-5)",
		get:   func(f *models.Filters) string { return strconv.FormatFloat(f.RatingMin, 'f', -1, 64) },
		set: func(f *models.Filters, raw string) {
			if r, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
				f.RatingMin = r
			}
		},
	},
	{
		label: "Rating max (0-5)",
		get:   func(f *models.Filters) string { return strconv.FormatFloat(f.RatingMax, 'f', -1, 64) },
		set: func(f *models.Filters, raw string) {
			if r, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
				f.RatingMax = r
			}
		},
	},
	{
		label: "Status (draft/pending/published/archived)",
		get:   func(f *models.Filters) string { return f.Status },
		set:   func(f *models.Filters, raw string) { f.Status = strings.TrimSpace(raw) },
	},
	{
		label: "Visibility",
		get:   func(f *models.Filters) string { return f.Visibility },
		set:   func(f *models.Filters, raw string) { f.Visibility = strings.TrimSpace(raw) },
	},
	{
		label: "Featured only", toggle: true,
		get: func(f *models.Filters) string { return checkbox(f.Featured) },
		set: func(f *models.Filters, _ string) { f.Featured = !f.Featured },
	},
	{
		label: "Sticky only", toggle: true,
		get: func(f *models.Filters) string { return checkbox(f.Sticky) },
		set: func(f *models.Filters, _ string) { f.Sticky = !f.Sticky },
	},
}

func newFilterPanel(current models.Filters) *filterPanel {
	input := textinput.New()
	input.CharLimit = 200
	return &filterPanel{draft: current, input: input}
}

func (p *filterPanel) moveUp() {
	if p.cursor > 0 {
		p.cursor--
	}
}

func (p *filterPanel) moveDown() {
	if p.cursor < len(filterRows)-1 {
		p.cursor++
	}
}

// activate toggles a boolean row or opens the text editor for the row
// under the cursor.
func (p *filterPanel) activate() {
	row := filterRows[p.cursor]
	if row.toggle {
		row.set(&p.draft, "")
		return
	}
	p.editing = true
	p.input.SetValue(row.get(&p.draft))
	p.input.CursorEnd()
	p.input.Focus()
}

func (p *filterPanel) commitEdit() {
	filterRows[p.cursor].set(&p.draft, p.input.Value())
	p.editing = false
	p.input.Blur()
}

func (p *filterPanel) cancelEdit() {
	p.editing = false
	p.input.Blur()
}

func (p *filterPanel) reset() {
	p.draft = models.Filters{RatingMin: models.RatingMin, RatingMax: models.RatingMax}
}

func (p *filterPanel) render(facets map[string][]models.FacetCount) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Filters"))
	b.WriteString("\n")

	for i, row := range filterRows {
		prefix := "  "
		if i == p.cursor {
			prefix = "> "
		}

		value := row.get(&p.draft)
		if i == p.cursor && p.editing {
			value = p.input.View()
		} else if value == "" {
			value = helpStyle.Render("(any)")
		}

		hint := ""
		if row.facet != "" {
			if counts := facets[row.facet]; len(counts) > 0 {
				hint = helpStyle.Render("  " + facetHint(counts))
			}
		}

		b.WriteString(fmt.Sprintf("%s%-38s %s%s\n", prefix, row.label, value, hint))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: edit/toggle • a: apply • x: reset • esc: close"))
	return b.String()
}

// facetHint summarizes the top facet values the server reported.
func facetHint(counts []models.FacetCount) string {
	limit := 3
	if len(counts) < limit {
		limit = len(counts)
	}
	parts := make([]string, 0, limit)
	for _, c := range counts[:limit] {
		label := c.Label
		if label == "" {
			label = c.Value
		}
		parts = append(parts, fmt.Sprintf("%s:%d", label, c.Count))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func splitInput(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}
