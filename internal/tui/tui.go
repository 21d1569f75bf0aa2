package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/manolydidier/bibliotheque-console/internal/api"
	"github.com/manolydidier/bibliotheque-console/internal/console"
	"github.com/manolydidier/bibliotheque-console/internal/settings"
	"github.com/manolydidier/bibliotheque-console/pkg/models"
)

type View int

const (
	ViewCollection View = iota
	ViewDetail
	ViewFilters
	ViewSavedViews
	ViewColumns
	ViewHelp
)

// columnOrder fixes the table layout; visibility is per-column.
var columnOrder = []struct {
	key   string
	title string
	width int
}{
	{"title", "Title", 40},
	{"status", "Status", 10},
	{"category", "Category", 14},
	{"author", "Author", 14},
	{"published", "Published", 12},
	{"views", "Views", 8},
	{"rating", "Rating", 10},
	{"flags", "Flags", 6},
}

var perPageSizes = []int{12, 24, 48, 96}

type Model struct {
	client   *api.Client
	store    *console.Store
	mutator  *console.Mutator
	undo     *console.Undo
	settings *settings.Settings
	log      zerolog.Logger
	debounce time.Duration

	view    View
	list    list.Model
	table   table.Model
	search  textinput.Model
	filters *filterPanel
	confirm *confirmState
	grab    *grabState

	searchFocused bool
	savingView    bool
	nameInput     textinput.Model
	viewCursor    int
	colCursor     int

	detail   string
	restored map[int64]bool

	width   int
	height  int
	loading bool

	loadErr   error
	statusMsg string
}

type pageLoadedMsg struct {
	gen  uint64
	page *models.Page
	err  error
}

type mutationSettledMsg struct {
	pending *console.Pending
	outcome *console.Outcome
}

type searchDebounceMsg struct {
	gen uint64
}

type clearRestoredMsg struct{}

type statusMsg string

func New(client *api.Client, store *console.Store, mutator *console.Mutator,
	undo *console.Undo, sets *settings.Settings, debounce time.Duration, log zerolog.Logger) Model {

	delegate := list.NewDefaultDelegate()
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Articles"
	l.SetShowStatusBar(false)
	// Search is server-side; local fuzzy filtering would lie about the
	// collection.
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle

	search := textinput.New()
	search.Placeholder = "search articles"
	search.CharLimit = 120

	nameInput := textinput.New()
	nameInput.Placeholder = "view name"
	nameInput.CharLimit = 60

	if cols := sets.Columns(); cols != nil {
		store.SetColumns(cols)
	}
	search.SetValue(store.Query().Search)

	m := Model{
		client:    client,
		store:     store,
		mutator:   mutator,
		undo:      undo,
		settings:  sets,
		log:       log,
		debounce:  debounce,
		view:      ViewCollection,
		list:      l,
		search:    search,
		nameInput: nameInput,
		restored:  make(map[int64]bool),
	}
	m.table = m.buildTable()
	if store.FiltersOpen() {
		m.view = ViewFilters
		m.filters = newFilterPanel(store.Query().Filters)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchCmd(),
		tea.EnterAltScreen,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-7)
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(msg.Height - 8)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case pageLoadedMsg:
		m.loading = false
		if msg.err != nil {
			// Keep the stale list on screen; the banner carries the error.
			m.loadErr = msg.err
			m.log.Error().Err(msg.err).Msg("loading article page failed")
			return m, nil
		}
		if !m.store.ApplyPage(msg.gen, msg.page) {
			// A newer fetch owns the view now.
			return m, nil
		}
		m.loadErr = nil
		m.applyFacets(msg.page)
		m.syncRows()
		meta := m.store.Meta()
		m.statusMsg = fmt.Sprintf("Page %d/%d • %d articles", meta.CurrentPage, meta.LastPage, meta.Total)
		return m, nil

	case searchDebounceMsg:
		if m.store.CommitSearch(msg.gen) {
			return m, m.fetchCmd()
		}
		return m, nil

	case mutationSettledMsg:
		return m.settleMutation(msg)

	case clearRestoredMsg:
		m.restored = make(map[int64]bool)
		m.syncRows()
		return m, nil

	case statusMsg:
		m.statusMsg = string(msg)
		return m, nil
	}

	return m.updateActiveWidget(msg)
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Overlays swallow keys first: an open prompt must not leak into the
	// list underneath.
	if m.confirm != nil {
		return m.handleConfirmKeys(msg)
	}
	if m.grab != nil {
		return m.handleGrabKeys(msg)
	}

	switch m.view {
	case ViewCollection:
		return m.handleCollectionKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewFilters:
		return m.handleFilterKeys(msg)
	case ViewSavedViews:
		return m.handleSavedViewKeys(msg)
	case ViewColumns:
		return m.handleColumnKeys(msg)
	case ViewHelp:
		return m.handleHelpKeys(msg)
	}
	return m, nil
}

func (m Model) handleCollectionKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.savingView {
		switch msg.String() {
		case "enter":
			name := strings.TrimSpace(m.nameInput.Value())
			if name == "" {
				name = "Unnamed view"
			}
			m.settings.SaveView(name, m.store.Query())
			m.savingView = false
			m.nameInput.Blur()
			m.statusMsg = fmt.Sprintf("Saved view %q", name)
			return m, nil
		case "esc":
			m.savingView = false
			m.nameInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}

	if m.searchFocused {
		switch msg.String() {
		case "enter":
			m.searchFocused = false
			m.search.Blur()
			if m.store.SetSearch(m.search.Value()) {
				return m, m.fetchCmd()
			}
			return m, nil
		case "esc":
			m.searchFocused = false
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		gen := m.store.BeginSearch(m.search.Value())
		return m, tea.Batch(cmd, m.debounceCmd(gen))
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "/":
		m.searchFocused = true
		m.search.Focus()
		return m, nil

	case "enter":
		if a := m.cursorArticle(); a != nil {
			m.view = ViewDetail
			m.detail = m.renderArticle(a)
		}
		return m, nil

	case "v":
		if m.store.Query().ViewMode == models.ViewTable {
			m.store.SetViewMode(models.ViewCards)
		} else {
			m.store.SetViewMode(models.ViewTable)
		}
		m.syncRows()
		return m, nil

	case " ":
		if a := m.cursorArticle(); a != nil {
			m.store.ToggleSelect(a.ID)
			m.syncRows()
		}
		return m, nil

	case "a":
		m.store.SelectAllVisible()
		m.syncRows()
		return m, nil

	case "A":
		m.store.ClearSelection()
		m.syncRows()
		return m, nil

	case "g":
		if a := m.cursorArticle(); a != nil {
			m.grab = &grabState{id: a.ID, label: a.Title}
		}
		return m, nil

	case "d":
		return m.promptFor(console.ActionTrash), nil

	case "D":
		return m.promptFor(console.ActionDelete), nil

	case "R":
		return m.promptFor(console.ActionRestore), nil

	case "u":
		if c, ok := m.undo.RestoreConfirm(); ok {
			// Compensating restore: no prompt, undoing is the confirmation.
			return m.startMutation(c)
		}
		return m, nil

	case "U":
		m.undo.Clear()
		m.statusMsg = "Undo dismissed"
		return m, nil

	case "f":
		m.view = ViewFilters
		m.store.SetFiltersOpen(true)
		m.filters = newFilterPanel(m.store.Query().Filters)
		return m, nil

	case "o":
		m.store.SetSort(nextSortKey(m.store.Query().SortBy), m.store.Query().SortDir)
		return m, m.fetchCmd()

	case "O":
		dir := "asc"
		if m.store.Query().SortDir == "asc" {
			dir = "desc"
		}
		m.store.SetSort(m.store.Query().SortBy, dir)
		return m, m.fetchCmd()

	case "right", "n":
		if m.store.SetPage(m.store.Query().Page + 1) {
			return m, m.fetchCmd()
		}
		return m, nil

	case "left", "p":
		if m.store.SetPage(m.store.Query().Page - 1) {
			return m, m.fetchCmd()
		}
		return m, nil

	case "+":
		m.store.SetPerPage(nextPerPage(m.store.Query().PerPage, 1))
		return m, m.fetchCmd()

	case "-":
		m.store.SetPerPage(nextPerPage(m.store.Query().PerPage, -1))
		return m, m.fetchCmd()

	case "w":
		m.view = ViewSavedViews
		m.viewCursor = 0
		return m, nil

	case "W":
		m.savingView = true
		m.nameInput.SetValue("")
		m.nameInput.Focus()
		return m, nil

	case "c":
		m.view = ViewColumns
		m.colCursor = 0
		return m, nil

	case "C":
		m.settings.SetColorEmphasis(!m.settings.ColorEmphasis())
		m.statusMsg = fmt.Sprintf("Color emphasis %s", onOff(m.settings.ColorEmphasis()))
		return m, nil

	case "e":
		return m, m.exportCmd()

	case "r":
		m.loading = true
		return m, tea.Batch(
			m.fetchCmd(),
			func() tea.Msg { return statusMsg("Refreshing...") },
		)

	case "x":
		m.loadErr = nil
		return m, nil

	case "?":
		m.view = ViewHelp
		return m, nil
	}

	return m.updateActiveWidget(msg)
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.view = ViewCollection
		return m, nil
	case "d":
		m.view = ViewCollection
		return m.promptFor(console.ActionTrash), nil
	case "?":
		m.view = ViewHelp
		return m, nil
	}
	return m, nil
}

func (m Model) handleFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filters == nil {
		m.filters = newFilterPanel(m.store.Query().Filters)
	}

	if m.filters.editing {
		switch msg.String() {
		case "enter":
			m.filters.commitEdit()
			return m, nil
		case "esc":
			m.filters.cancelEdit()
			return m, nil
		}
		var cmd tea.Cmd
		m.filters.input, cmd = m.filters.input.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.filters.moveUp()
		return m, nil
	case "down", "j":
		m.filters.moveDown()
		return m, nil
	case "enter", " ":
		m.filters.activate()
		return m, nil
	case "x":
		m.filters.reset()
		return m, nil
	case "a":
		m.store.SetFilters(m.filters.draft)
		m.view = ViewCollection
		m.store.SetFiltersOpen(false)
		return m, m.fetchCmd()
	case "esc", "q":
		m.view = ViewCollection
		m.store.SetFiltersOpen(false)
		return m, nil
	}
	return m, nil
}

func (m Model) handleSavedViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	views := m.settings.Views()
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.viewCursor > 0 {
			m.viewCursor--
		}
		return m, nil
	case "down", "j":
		if m.viewCursor < len(views)-1 {
			m.viewCursor++
		}
		return m, nil
	case "enter":
		if m.viewCursor < len(views) {
			v := views[m.viewCursor]
			m.store.ApplyView(v)
			m.search.SetValue(m.store.Query().Search)
			m.view = ViewCollection
			m.statusMsg = fmt.Sprintf("Applied view %q", v.Name)
			return m, m.fetchCmd()
		}
		return m, nil
	case "d":
		if m.viewCursor < len(views) {
			m.settings.DeleteViewAt(m.viewCursor)
			if m.viewCursor > 0 {
				m.viewCursor--
			}
		}
		return m, nil
	case "x":
		m.settings.ClearViews()
		m.viewCursor = 0
		return m, nil
	case "esc", "q":
		m.view = ViewCollection
		return m, nil
	}
	return m, nil
}

func (m Model) handleColumnKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.colCursor > 0 {
			m.colCursor--
		}
		return m, nil
	case "down", "j":
		if m.colCursor < len(columnOrder)-1 {
			m.colCursor++
		}
		return m, nil
	case "enter", " ":
		m.store.ToggleColumn(columnOrder[m.colCursor].key)
		m.settings.SetColumns(m.store.Columns())
		m.table = m.buildTable()
		m.syncRows()
		return m, nil
	case "esc", "q":
		m.view = ViewCollection
		return m, nil
	}
	return m, nil
}

func (m Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "?", "q":
		m.view = ViewCollection
		return m, nil
	}
	return m, nil
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "left", "right":
		m.confirm.toggleFocus()
		return m, nil
	case "enter":
		if m.confirm.focus == confirmFocusConfirm {
			c := m.confirm.pending
			m.confirm = nil
			return m.startMutation(c)
		}
		m.confirm = nil
		return m, nil
	case "esc", "ctrl+g", "q":
		m.confirm = nil
		return m, nil
	}
	return m, nil
}

func (m Model) handleGrabKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		m.grab.moveLeft()
		return m, nil
	case "right", "l":
		m.grab.moveRight()
		return m, nil
	case "enter":
		c := m.grab.drop()
		m.grab = nil
		// Same contract as the buttons: the drop opens the standard
		// confirmation before anything is touched.
		m.confirm = newConfirm(c)
		return m, nil
	case "esc", "q", "g":
		m.grab = nil
		return m, nil
	}
	return m, nil
}

// promptFor builds a confirmation for the current selection, or the cursor
// row when nothing is selected.
func (m Model) promptFor(action console.Action) Model {
	ids := m.store.SelectedIDs()
	label := fmt.Sprintf("%d articles", len(ids))
	if len(ids) == 0 {
		a := m.cursorArticle()
		if a == nil {
			return m
		}
		ids = []int64{a.ID}
		label = a.Title
	}
	m.confirm = newConfirm(console.Confirm{Action: action, IDs: ids, Label: label})
	return m
}

// startMutation applies the optimistic change right away and runs the
// remote calls off the loop.
func (m Model) startMutation(c console.Confirm) (Model, tea.Cmd) {
	pending := m.mutator.Apply(c)
	m.syncRows()

	mutator := m.mutator
	return m, func() tea.Msg {
		outcome := mutator.Execute(context.Background(), pending)
		return mutationSettledMsg{pending: pending, outcome: outcome}
	}
}

func (m Model) settleMutation(msg mutationSettledMsg) (tea.Model, tea.Cmd) {
	out := msg.outcome
	m.mutator.Settle(msg.pending, out)
	m.syncRows()

	var cmds []tea.Cmd
	switch {
	case out.Succeeded() == out.Total:
		switch out.Action {
		case console.ActionTrash:
			m.statusMsg = fmt.Sprintf("Moved %d to trash • u: undo", out.Total)
		case console.ActionDelete:
			m.statusMsg = fmt.Sprintf("Permanently deleted %d", out.Total)
		case console.ActionRestore:
			m.statusMsg = fmt.Sprintf("Restored %d", out.Total)
			for _, id := range out.SucceededIDs {
				m.restored[id] = true
			}
			cmds = append(cmds,
				m.fetchCmd(),
				tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearRestoredMsg{} }),
			)
		}
	case out.Total == 1:
		m.statusMsg = errorStyle.Render(fmt.Sprintf("%s failed: %s", out.Action, remoteMessage(out.Err())))
	default:
		m.statusMsg = errorStyle.Render(fmt.Sprintf("%s: %d/%d succeeded", out.Action, out.Succeeded(), out.Total))
	}

	return m, tea.Batch(cmds...)
}

func (m Model) updateActiveWidget(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.store.Query().ViewMode == models.ViewCards {
		m.list, cmd = m.list.Update(msg)
	} else {
		m.table, cmd = m.table.Update(msg)
	}
	return m, cmd
}

// cursorArticle returns the article under the cursor in whichever layout
// is active.
func (m Model) cursorArticle() *models.Article {
	items := m.store.Items()
	if len(items) == 0 {
		return nil
	}
	idx := m.table.Cursor()
	if m.store.Query().ViewMode == models.ViewCards {
		idx = m.list.Index()
	}
	if idx < 0 || idx >= len(items) {
		return nil
	}
	return &items[idx]
}

func (m *Model) applyFacets(page *models.Page) {
	for _, f := range page.Facets["status"] {
		if f.Value == models.StatusArchived {
			m.store.SetTrashCount(f.Count)
		}
	}
}

// syncRows rebuilds the table rows and card items from the store.
func (m *Model) syncRows() {
	articles := m.store.Items()
	emphasis := m.settings.ColorEmphasis()

	rows := make([]table.Row, len(articles))
	items := make([]list.Item, len(articles))
	for i := range articles {
		a := &articles[i]
		rows[i] = m.tableRow(a, emphasis)
		items[i] = articleItem{
			article:  *a,
			selected: m.store.Selected(a.ID),
			restored: m.restored[a.ID],
		}
	}
	m.table.SetRows(rows)
	m.list.SetItems(items)
}

func (m Model) tableRow(a *models.Article, emphasis bool) table.Row {
	var row table.Row
	for _, col := range columnOrder {
		if !m.store.ColumnVisible(col.key) {
			continue
		}
		switch col.key {
		case "title":
			title := a.Title
			if m.store.Selected(a.ID) {
				title = "[x] " + title
			}
			if m.restored[a.ID] {
				title += " (restored)"
			}
			row = append(row, title)
		case "status":
			row = append(row, a.Status)
		case "category":
			cell := ""
			if c := a.PrimaryCategory(); c != nil {
				cell = c.Name
				if emphasis && c.Color != "" {
					cell = lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render(c.Name)
				}
			}
			row = append(row, cell)
		case "author":
			row = append(row, a.Author.Name)
		case "published":
			cell := ""
			if a.PublishedAt != nil {
				cell = a.PublishedAt.Format("2006-01-02")
			}
			row = append(row, cell)
		case "views":
			row = append(row, fmt.Sprintf("%d", a.ViewCount))
		case "rating":
			row = append(row, fmt.Sprintf("%.1f (%d)", a.RatingAvg, a.RatingCount))
		case "flags":
			flags := ""
			if a.Featured {
				flags += "★"
			}
			if a.Sticky {
				flags += "⚲"
			}
			row = append(row, flags)
		}
	}
	return row
}

func (m Model) buildTable() table.Model {
	var cols []table.Column
	for _, col := range columnOrder {
		if m.store.ColumnVisible(col.key) {
			cols = append(cols, table.Column{Title: col.title, Width: col.width})
		}
	}
	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
	)
	if m.height > 0 {
		t.SetHeight(m.height - 8)
	}
	return t
}

func (m Model) View() string {
	var body string
	switch m.view {
	case ViewCollection:
		body = m.renderCollection()
	case ViewDetail:
		body = m.renderDetail()
	case ViewFilters:
		body = m.filtersView()
	case ViewSavedViews:
		body = m.renderSavedViews()
	case ViewColumns:
		body = m.renderColumns()
	case ViewHelp:
		body = m.renderHelp()
	}

	if m.grab != nil {
		body += "\n" + m.grab.render()
	}
	if m.confirm != nil {
		body += "\n" + m.confirm.render(m.width)
	}
	return body
}

func (m Model) filtersView() string {
	if m.filters == nil {
		return ""
	}
	return m.filters.render(m.store.Facets())
}

func (m Model) renderCollection() string {
	var s strings.Builder

	s.WriteString(fmt.Sprintf("%s  %s\n", titleStyle.Render("Articles"), m.search.View()))

	if m.store.Query().ViewMode == models.ViewCards {
		s.WriteString(m.list.View())
	} else {
		s.WriteString(m.table.View())
	}
	s.WriteString("\n")

	if m.loadErr != nil {
		s.WriteString(bannerStyle.Render(fmt.Sprintf("Load failed: %s • x: dismiss • r: retry", remoteMessage(m.loadErr))))
		s.WriteString("\n")
	}
	if m.statusMsg != "" {
		s.WriteString(statusStyle.Render(m.statusMsg))
		s.WriteString("\n")
	}
	if m.undo.Available() {
		s.WriteString(undoStyle.Render(fmt.Sprintf("%d in trash can be restored • u: undo • U: dismiss", len(m.undo.IDs()))))
		s.WriteString("\n")
	}
	if m.savingView {
		s.WriteString(fmt.Sprintf("Save view as: %s\n", m.nameInput.View()))
	}

	s.WriteString(permalinkStyle.Render("state: ?" + console.EncodeQuery(m.store.Query(), m.store.FiltersOpen())))
	s.WriteString("\n")
	s.WriteString(helpStyle.Render(fmt.Sprintf(
		"trash:%d • /: search • f: filters • d: trash • D: delete • R: restore • g: grab • space: select • e: csv • ?: help",
		m.store.TrashCount())))

	return s.String()
}

func (m Model) renderDetail() string {
	var s strings.Builder
	s.WriteString(m.detail)
	s.WriteString("\n\n")
	if m.statusMsg != "" {
		s.WriteString(statusStyle.Render(m.statusMsg))
		s.WriteString("\n")
	}
	s.WriteString(helpStyle.Render("d: trash • esc: back • ?: help • q: quit"))
	return s.String()
}

func (m Model) renderSavedViews() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("Saved views"))
	s.WriteString("\n")

	views := m.settings.Views()
	if len(views) == 0 {
		s.WriteString(helpStyle.Render("No saved views yet. Press W in the list to save the current one."))
		s.WriteString("\n")
	}
	for i, v := range views {
		prefix := "  "
		if i == m.viewCursor {
			prefix = "> "
		}
		s.WriteString(fmt.Sprintf("%s%s  %s\n", prefix, v.Name,
			helpStyle.Render(v.SavedAt.Format("Jan 2, 2006 15:04"))))
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("enter: apply • d: delete • x: clear all • esc: back"))
	return s.String()
}

func (m Model) renderColumns() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("Table columns"))
	s.WriteString("\n")

	for i, col := range columnOrder {
		prefix := "  "
		if i == m.colCursor {
			prefix = "> "
		}
		s.WriteString(fmt.Sprintf("%s%s %s\n", prefix, checkbox(m.store.ColumnVisible(col.key)), col.title))
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("space: toggle • esc: back"))
	return s.String()
}

func (m Model) renderHelp() string {
	help := `
Article Console - Keyboard Shortcuts

Collection:
  ↑/↓, j/k     Navigate articles
  enter        Open article
  /            Search (debounced)
  f            Filter panel
  o / O        Cycle sort key / flip direction
  ←/→, p/n     Previous / next page
  + / -        Page size
  v            Toggle table / cards
  space, a, A  Select / select all / clear selection
  d, D, R      Trash / delete forever / restore (with confirmation)
  g            Grab row, drop on a target
  u / U        Undo last trash / dismiss undo
  w / W        Saved views / save current view
  c / C        Columns / toggle color emphasis
  e            Export visible page as CSV
  r            Refresh
  x            Dismiss error banner
  q, ctrl+c    Quit

General:
  ?            Show/hide this help
`
	return help + "\n" + helpStyle.Render("Press ? or esc to close help")
}

// renderArticle renders the detail view body with glamour.
func (m Model) renderArticle(a *models.Article) string {
	var s strings.Builder
	s.WriteString(articleTitleStyle.Render(a.Title))
	s.WriteString("\n")

	published := "unpublished"
	if a.PublishedAt != nil {
		published = a.PublishedAt.Format("Jan 2, 2006")
	}
	s.WriteString(helpStyle.Render(fmt.Sprintf("%s | %s | %s | %d views | %.1f (%d ratings)",
		a.Status, a.Visibility, published, a.ViewCount, a.RatingAvg, a.RatingCount)))
	s.WriteString("\n\n")

	body := a.Content
	if body == "" {
		body = a.Excerpt
	}
	rendered, err := glamour.Render(body, "auto")
	if err != nil {
		rendered = body
	}
	s.WriteString(rendered)
	return s.String()
}

func (m Model) fetchCmd() tea.Cmd {
	gen := m.store.NextFetch()
	q := m.store.Query()
	client := m.client
	return func() tea.Msg {
		page, err := client.ListArticles(context.Background(), q, true)
		return pageLoadedMsg{gen: gen, page: page, err: err}
	}
}

func (m Model) debounceCmd(gen uint64) tea.Cmd {
	return tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{gen: gen}
	})
}

func (m Model) exportCmd() tea.Cmd {
	articles := m.store.Items()
	return func() tea.Msg {
		name := fmt.Sprintf("articles-%s.csv", time.Now().Format("20060102-150405"))
		f, err := os.Create(name)
		if err != nil {
			return statusMsg(errorStyle.Render(fmt.Sprintf("Export failed: %v", err)))
		}
		defer f.Close()
		if err := console.WriteCSV(f, articles); err != nil {
			return statusMsg(errorStyle.Render(fmt.Sprintf("Export failed: %v", err)))
		}
		return statusMsg(fmt.Sprintf("Exported %d rows to %s", len(articles), name))
	}
}

func nextSortKey(current string) string {
	keys := []string{"published_at", "title", "view_count", "rating_average", "created_at"}
	for i, k := range keys {
		if k == current {
			return keys[(i+1)%len(keys)]
		}
	}
	return keys[0]
}

func nextPerPage(current, dir int) int {
	for i, size := range perPageSizes {
		if size == current {
			next := i + dir
			if next < 0 || next >= len(perPageSizes) {
				return current
			}
			return perPageSizes[next]
		}
	}
	return models.DefaultPerPage
}

func remoteMessage(err error) string {
	if err == nil {
		return "unknown error"
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
