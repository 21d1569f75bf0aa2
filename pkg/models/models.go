package models

import "time"

// Article lifecycle statuses as used by the platform API. Archived means
// trashed: the record is soft-deleted and waiting in the trash bin.
const (
	StatusDraft     = "draft"
	StatusPending   = "pending"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

const (
	RatingMin = 0
	RatingMax = 5
)

type Category struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	Color   string `json:"color"`
	Icon    string `json:"icon"`
	Primary bool   `json:"is_primary"`
}

type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Author struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Article struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content,omitempty"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Status      string     `json:"status"`
	Visibility  string     `json:"visibility"`
	Categories  []Category `json:"categories,omitempty"`
	Tags        []Tag      `json:"tags,omitempty"`
	Author      Author     `json:"author"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	ViewCount   int64      `json:"view_count"`
	RatingAvg   float64    `json:"rating_average"`
	RatingCount int64      `json:"rating_count"`
	Featured    bool       `json:"is_featured"`
	Sticky      bool       `json:"is_sticky"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// Trashed reports whether the article is soft-deleted.
func (a *Article) Trashed() bool {
	return a.DeletedAt != nil
}

// PrimaryCategory returns the category flagged primary, or the first one.
func (a *Article) PrimaryCategory() *Category {
	for i := range a.Categories {
		if a.Categories[i].Primary {
			return &a.Categories[i]
		}
	}
	if len(a.Categories) > 0 {
		return &a.Categories[0]
	}
	return nil
}

// Filters holds the facet and range selectors of a collection query.
// Category, tag and author selectors may mix numeric ids and slugs; the
// query builder partitions them into separate request parameters.
type Filters struct {
	Categories []string `json:"categories,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Authors    []string `json:"authors,omitempty"`
	Featured   bool     `json:"featured,omitempty"`
	Sticky     bool     `json:"sticky,omitempty"`
	DateFrom   string   `json:"date_from,omitempty"`
	DateTo     string   `json:"date_to,omitempty"`
	RatingMin  float64  `json:"rating_min"`
	RatingMax  float64  `json:"rating_max"`
	Status     string   `json:"status,omitempty"`
	Visibility string   `json:"visibility,omitempty"`
}

// Query is the full collection criteria tuple: search, filters, sort,
// pagination and layout. It is what saved views snapshot and what the
// state codec serializes.
type Query struct {
	Search   string  `json:"search,omitempty"`
	Filters  Filters `json:"filters"`
	SortBy   string  `json:"sort_by"`
	SortDir  string  `json:"sort_direction"`
	Page     int     `json:"page"`
	PerPage  int     `json:"per_page"`
	ViewMode string  `json:"view_mode"`
}

const (
	ViewTable = "table"
	ViewCards = "cards"

	DefaultSortBy  = "published_at"
	DefaultSortDir = "desc"
	DefaultPerPage = 24
)

// DefaultQuery returns the criteria a fresh session starts from.
func DefaultQuery() Query {
	return Query{
		Filters: Filters{
			RatingMin: RatingMin,
			RatingMax: RatingMax,
		},
		SortBy:   DefaultSortBy,
		SortDir:  DefaultSortDir,
		Page:     1,
		PerPage:  DefaultPerPage,
		ViewMode: ViewTable,
	}
}

// Meta is the canonical pagination block every fetch resolves to,
// regardless of the payload shape the server picked.
type Meta struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

type FacetCount struct {
	Value string `json:"value"`
	Label string `json:"label,omitempty"`
	Count int64  `json:"count"`
}

// Page is one normalized page of the collection.
type Page struct {
	Items  []Article               `json:"items"`
	Meta   Meta                    `json:"meta"`
	Facets map[string][]FacetCount `json:"facets,omitempty"`
}

// SavedView is a named snapshot of the full query tuple. Views live in an
// ordered list; position is identity, names need not be unique.
type SavedView struct {
	Name    string    `json:"name"`
	SavedAt time.Time `json:"saved_at"`
	Query   Query     `json:"query"`
}

// MaxSavedViews caps the saved-view list; saving past the cap drops the
// oldest entry.
const MaxSavedViews = 30
