package pricing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"shopchat-client/internal/types"
)

// PriceView is the display-ready projection of a product's price fields.
type PriceView struct {
	Label string
	// DiscountPercent and Strikeout are set only for the discounted form.
	DiscountPercent int
	Strikeout       string
	Discounted      bool
}

// ExtractNumeric pulls a numeric value out of either price shape. Strings
// are stripped to digits and decimal points before parsing ("$1,299.99"
// -> 1299.99); anything unparseable yields 0.00. The result is always
// rounded to two decimals.
func ExtractNumeric(p types.Price) float64 {
	if !p.Present {
		return 0
	}
	if p.Numeric {
		return round2(p.Number)
	}
	var b strings.Builder
	for _, r := range p.Display {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	n, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return round2(n)
}

// DiscountPercent returns the rounded percent saved going from original to
// current. It is 0 unless original > 0 and current < original.
func DiscountPercent(current, original float64) int {
	if original <= 0 || current >= original {
		return 0
	}
	return int(math.Round((1 - current/original) * 100))
}

// BuildPriceView derives the price presentation for a product. When an
// original price is present and differs from the current one, the view
// carries the normalized current price, the percent off, and the raw
// original for strikeout. Otherwise the raw price string is trusted
// verbatim.
func BuildPriceView(p types.Product) PriceView {
	current := ExtractNumeric(p.Price)
	original := ExtractNumeric(p.OriginalPrice)
	if p.OriginalPrice.Present && original != current {
		return PriceView{
			Label:           fmt.Sprintf("$%.2f", current),
			DiscountPercent: DiscountPercent(current, original),
			Strikeout:       p.OriginalPrice.String(),
			Discounted:      true,
		}
	}
	return PriceView{Label: p.Price.String()}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
