package dataset

import (
	"strings"

	"github.com/lehigh-university-libraries/bookmatch/internal/models"
)

// BookRow is one book in a batch dataset.
type BookRow struct {
	ID          string   `json:"id" parquet:"id"`
	Title       string   `json:"title" parquet:"title"`
	Authors     []string `json:"authors" parquet:"authors,list"`
	Description string   `json:"description" parquet:"description"`
	Categories  []string `json:"categories" parquet:"categories,list"`
}

// Identifier returns the row id, or the title when the dataset has no ids.
func (r *BookRow) Identifier() string {
	if id := strings.TrimSpace(r.ID); id != "" {
		return id
	}
	return r.Title
}

// Book converts the row into the record the analysis pipeline scores.
func (r *BookRow) Book() *models.BookRecord {
	return &models.BookRecord{
		Title:       r.Title,
		Authors:     r.Authors,
		Description: r.Description,
		Categories:  r.Categories,
	}
}
