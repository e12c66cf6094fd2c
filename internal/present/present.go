package present

import (
	"fmt"
	"math"
	"strings"

	"shopchat-client/internal/pricing"
	"shopchat-client/internal/types"
)

const descriptionLimit = 100

// ProductCardView is the display-ready projection of a product. It is a
// pure function of the product record plus the presenter's configuration.
type ProductCardView struct {
	Name        string
	ImageURL    string
	Description string
	Price       pricing.PriceView
	InStock     string
	// DetailLines holds the optional attributes in fixed order: category,
	// model, brand, rating, warranty. Absent fields are omitted.
	DetailLines []string
}

type Presenter struct {
	placeholderImageURL string
}

func New(placeholderImageURL string) *Presenter {
	return &Presenter{placeholderImageURL: placeholderImageURL}
}

func (pr *Presenter) Present(p types.Product) ProductCardView {
	view := ProductCardView{
		Name:        p.Name,
		ImageURL:    p.ImageURL,
		Description: truncate(p.Description, descriptionLimit),
		Price:       pricing.BuildPriceView(p),
		InStock:     p.InStock,
	}
	if view.ImageURL == "" {
		view.ImageURL = pr.placeholderImageURL
	}
	if p.Category != "" {
		view.DetailLines = append(view.DetailLines, "Category: "+p.Category)
	}
	if p.Model != "" {
		view.DetailLines = append(view.DetailLines, "Model: "+p.Model)
	}
	if p.Brand != "" {
		view.DetailLines = append(view.DetailLines, "Brand: "+p.Brand)
	}
	if p.Rating > 0 {
		view.DetailLines = append(view.DetailLines,
			fmt.Sprintf("Rating: %s (%.1f)", Stars(p.Rating), p.Rating))
	}
	if p.Warranty != "" {
		view.DetailLines = append(view.DetailLines, "Warranty: "+p.Warranty)
	}
	return view
}

// Stars renders a rating on a 5-glyph scale with floor(rating) filled
// glyphs.
func Stars(rating float64) string {
	filled := int(math.Floor(rating))
	if filled < 0 {
		filled = 0
	}
	if filled > 5 {
		filled = 5
	}
	return strings.Repeat("★", filled) + strings.Repeat("☆", 5-filled)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
