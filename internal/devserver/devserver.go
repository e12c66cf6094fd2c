// Package devserver is a stand-in for the remote assistant backend. It
// implements the same two endpoints over a small canned catalog, for local
// development and for integration tests of the exchange client.
package devserver

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"shopchat-client/internal/types"
)

type Server struct {
	router  *chi.Mux
	catalog []types.Product
	orders  map[string]types.Order
}

func NewServer(allowedOrigin string) *Server {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{allowedOrigin},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		MaxAge:         300,
	}))

	s := &Server{
		router:  r,
		catalog: sampleCatalog(),
		orders: map[string]types.Order{
			"o1": {OrderID: "o1", Status: "shipped", TotalAmount: 149.97},
		},
	}
	r.Get("/api/health", s.handleHealth)
	r.Post("/api/chat", s.handleChat)
	r.Post("/api/chat-with-file", s.handleChatWithFile)
	return s
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	log.Printf("[devserver] chat session=%s message=%q", req.SessionID, req.Message)
	s.writeJSON(w, s.reply(req.Message))
}

func (s *Server) handleChatWithFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	message := r.FormValue("message")
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "image file is required (field 'file')")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		s.writeError(w, http.StatusBadRequest, "only image uploads are supported")
		return
	}
	log.Printf("[devserver] chat-with-file session=%s file=%s message=%q",
		r.FormValue("session_id"), header.Filename, message)

	// Canned stand-in for the real image analysis pipeline.
	products := s.search("headphones")
	s.writeJSON(w, types.BotReply{
		Message: "I analyzed your image and found some similar products in our catalog:",
		Data:    &types.ReplyData{Products: products},
	})
}

func (s *Server) reply(message string) types.BotReply {
	lower := strings.ToLower(message)

	if id, ok := orderID(lower); ok {
		order, found := s.orders[id]
		if !found {
			return types.BotReply{
				Message: fmt.Sprintf("I couldn't find order #%s. Please check the order number and try again.", id),
			}
		}
		return types.BotReply{
			Message: fmt.Sprintf("Your order #%s is currently %s. The total is $%.2f.",
				order.OrderID, order.Status, order.TotalAmount),
			Data: &types.ReplyData{Order: &order},
		}
	}

	for _, g := range []string{"hello", "hi ", "hey"} {
		if strings.HasPrefix(lower, g) || lower == strings.TrimSpace(g) {
			return types.BotReply{Message: "Hello! How can I help with your shopping today?"}
		}
	}

	if strings.HasPrefix(lower, "tell me about ") {
		query := strings.TrimPrefix(lower, "tell me about ")
		if matches := s.search(query); len(matches) > 0 {
			p := matches[0]
			return types.BotReply{
				Message: fmt.Sprintf("Here's information about %s:\n%s\nPrice: %s", p.Name, p.Description, p.Price.String()),
				Data:    &types.ReplyData{Product: &p},
			}
		}
	}

	if matches := s.search(lower); len(matches) > 0 {
		return types.BotReply{
			Message: fmt.Sprintf("I found the following products matching '%s':", strings.TrimSpace(message)),
			Data:    &types.ReplyData{Products: matches},
		}
	}

	return types.BotReply{
		Message: "I'm here to help with your shopping needs. Could you please provide more details about what you're looking for?",
	}
}

func (s *Server) search(query string) []types.Product {
	var out []types.Product
	for _, p := range s.catalog {
		haystack := strings.ToLower(p.Name + " " + p.Description + " " + p.Category)
		for _, word := range strings.Fields(strings.ToLower(query)) {
			if strings.Contains(haystack, strings.TrimSuffix(word, "s")) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

func orderID(lower string) (string, bool) {
	idx := strings.Index(lower, "order ")
	if idx < 0 {
		return "", false
	}
	rest := strings.TrimLeft(lower[idx+len("order "):], "#")
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", false
	}
	id := strings.TrimRight(fields[0], "?!.,")
	if id == "" {
		return "", false
	}
	return id, true
}

func (s *Server) writeJSON(w http.ResponseWriter, reply types.BotReply) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(reply)
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg})
}

func sampleCatalog() []types.Product {
	return []types.Product{
		{
			ID:            "p1",
			Name:          "Wireless Bluetooth Headphones",
			Description:   "Premium noise-cancelling headphones with 20-hour battery life and comfortable over-ear design.",
			Price:         types.DisplayPrice("$80.00"),
			OriginalPrice: types.DisplayPrice("$99.99"),
			InStock:       "In Stock",
			ImageURL:      "https://via.placeholder.com/150",
			Category:      "Electronics",
			Brand:         "AudioMax",
			Rating:        4.5,
			Warranty:      "1 year",
		},
		{
			ID:          "p2",
			Name:        "Stainless Steel Water Bottle",
			Description: "Vacuum insulated water bottle that keeps drinks cold for 24 hours or hot for 12 hours.",
			Price:       types.DisplayPrice("$24.99"),
			InStock:     "In Stock",
			ImageURL:    "https://via.placeholder.com/150",
			Category:    "Home & Kitchen",
			Rating:      4.0,
		},
		{
			ID:          "p3",
			Name:        "Organic Cotton T-Shirt",
			Description: "Soft, breathable cotton t-shirt made with 100% organic materials and sustainable practices.",
			Price:       types.DisplayPrice("$29.99"),
			InStock:     "In Stock",
			ImageURL:    "https://via.placeholder.com/150",
			Category:    "Clothing",
		},
		{
			ID:          "p4",
			Name:        "Smart LED Light Bulbs (4-pack)",
			Description: "WiFi-enabled LED bulbs with adjustable brightness and color, compatible with voice assistants.",
			Price:       types.NumericPrice(49.99),
			InStock:     "In Stock",
			ImageURL:    "https://via.placeholder.com/150",
			Category:    "Smart Home",
			Model:       "SLB-400",
		},
		{
			ID:          "p5",
			Name:        "Plant-Based Protein Powder",
			Description: "Vegan protein powder with 25g of protein per serving and no artificial ingredients.",
			Price:       types.DisplayPrice("$34.99"),
			InStock:     "Out of Stock",
			ImageURL:    "https://via.placeholder.com/150",
			Category:    "Health & Wellness",
		},
	}
}
