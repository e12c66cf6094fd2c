package types

import (
	"encoding/json"
	"strconv"
)

type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// BotReply is the normalized assistant response. At most one of the Data
// members is expected to be populated; precedence is resolved in exchange.
type BotReply struct {
	Message string     `json:"message"`
	Data    *ReplyData `json:"data,omitempty"`
}

type ReplyData struct {
	Products []Product `json:"products,omitempty"`
	Product  *Product  `json:"product,omitempty"`
	Order    *Order    `json:"order,omitempty"`
}

type Product struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         Price   `json:"price"`
	OriginalPrice Price   `json:"original_price,omitempty"`
	InStock       string  `json:"in_stock"`
	ImageURL      string  `json:"image_url,omitempty"`
	Category      string  `json:"category,omitempty"`
	Model         string  `json:"model,omitempty"`
	Brand         string  `json:"brand,omitempty"`
	Rating        float64 `json:"rating,omitempty"`
	Warranty      string  `json:"warranty,omitempty"`
}

type Order struct {
	OrderID     string   `json:"order_id"`
	Status      string   `json:"status"`
	Products    []string `json:"products,omitempty"`
	TotalAmount float64  `json:"total_amount"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Price is a tagged variant over the two shapes the backend emits for
// price fields: a bare number or a display string like "$1,299.99".
type Price struct {
	Display string
	Number  float64
	Numeric bool
	Present bool
}

func NumericPrice(v float64) Price {
	return Price{Number: v, Numeric: true, Present: true}
}

func DisplayPrice(s string) Price {
	return Price{Display: s, Present: true}
}

func (p *Price) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = Price{}
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*p = NumericPrice(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*p = DisplayPrice(s)
	return nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Present {
		return []byte("null"), nil
	}
	if p.Numeric {
		return []byte(strconv.FormatFloat(p.Number, 'f', -1, 64)), nil
	}
	return json.Marshal(p.Display)
}

// String returns the verbatim display form, or the number formatted with
// two decimals for numeric prices.
func (p Price) String() string {
	if !p.Present {
		return ""
	}
	if p.Numeric {
		return strconv.FormatFloat(p.Number, 'f', 2, 64)
	}
	return p.Display
}
