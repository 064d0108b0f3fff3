// Package prompt renders the compatibility-analysis instructions sent to the
// generative backend. Rendering is pure and deterministic.
package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/bookmatch/internal/models"
)

const (
	// Placeholder replaces any absent reader or book field.
	Placeholder = "Not specified"
	// NoDescription is rendered when no usable description could be resolved.
	NoDescription = "No description available"
)

// Build renders the default analysis template.
func Build(profile *models.ReaderProfile, book *models.BookRecord, description string) string {
	t, _ := Lookup(TemplateAnalysis)
	return t.Render(profile, book, description)
}

// Render builds the prompt for this template.
func (t Template) Render(profile *models.ReaderProfile, book *models.BookRecord, description string) string {
	if profile == nil {
		profile = &models.ReaderProfile{}
	}
	if book == nil {
		book = &models.BookRecord{}
	}

	var b strings.Builder

	b.WriteString("You are an expert literary advisor. Based on the reader profile and the book description, perform an accurate compatibility analysis. The DESCRIPTION is the most important source.\n\n")

	b.WriteString("READER PROFILE:\n")
	fmt.Fprintf(&b, "- Favorite genres: %s\n", list(profile.FavoriteGenres))
	fmt.Fprintf(&b, "- Bio: %q\n", text(profile.Bio))
	fmt.Fprintf(&b, "- Vibes: %s\n", list(profile.Vibes))
	fmt.Fprintf(&b, "- Reading pace: %s\n", text(profile.ReadingPace))
	b.WriteString("- Reading history:")
	if len(profile.ReadingHistory) == 0 {
		fmt.Fprintf(&b, " %s\n", Placeholder)
	} else {
		b.WriteString("\n")
		for _, h := range profile.ReadingHistory {
			fmt.Fprintf(&b, "  %s\n", historyLine(h))
		}
	}

	b.WriteString("\nTARGET BOOK:\n")
	fmt.Fprintf(&b, "- Title: %s\n", text(book.Title))
	fmt.Fprintf(&b, "- Authors: %s\n", list(book.Authors))
	fmt.Fprintf(&b, "- Categories: %s\n", list(book.Categories))
	if description == "" {
		description = NoDescription
	}
	fmt.Fprintf(&b, "- Description (use this for the analysis): %q\n", description)

	b.WriteString("\nINSTRUCTIONS:\n")
	if t.Breakdown {
		b.WriteString("1. Score three dimensions from 1.0 to 5.0: plot_affinity (how well the story and themes match the reader), style_affinity (how well the tone and vibes match), genre_affinity (how well the genres match).\n")
		b.WriteString("2. Compute final_rating as the weighted average: plot_affinity 50%, style_affinity 30%, genre_affinity 20%. Plot weighs most, genre least.\n")
		b.WriteString("3. Set confidence_level to High, Medium or Low depending on how much the description and profile tell you.\n")
		b.WriteString("4. List concrete positive_points and negative_points for this reader, a few words each.\n")
	} else {
		b.WriteString("1. Rate the compatibility from 1.0 to 5.0 as final_rating.\n")
		b.WriteString("2. List concrete positive_points and negative_points for this reader, a few words each.\n")
	}

	b.WriteString("\nMANDATORY JSON OUTPUT:\n")
	b.WriteString("Respond with ONLY a JSON object with exactly these fields and types, no markdown and no text before or after it:\n\n")
	b.WriteString(t.Output)
	b.WriteString("\n")

	return b.String()
}

func text(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

func list(items []string) string {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			kept = append(kept, item)
		}
	}
	if len(kept) == 0 {
		return Placeholder
	}
	return strings.Join(kept, ", ")
}

func historyLine(h models.HistoryEntry) string {
	line := "- " + text(h.Title)
	if h.Author != "" {
		line += " by " + h.Author
	}
	if h.Rating > 0 {
		line += ": " + strconv.FormatFloat(h.Rating, 'f', -1, 64) + "/5"
	}
	return line
}
