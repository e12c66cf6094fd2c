// Package exchange speaks the assistant wire protocol: plain JSON sends
// and multipart sends carrying one image attachment. One request may be
// in flight at a time, and the typing indicator is shown and hidden
// exactly once around each submit.
package exchange

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"shopchat-client/internal/attachment"
	"shopchat-client/internal/types"
)

// FallbackMessage is the fixed apology surfaced to the user on any
// network-error path.
const FallbackMessage = "I'm sorry, I encountered an error processing your request. Please try again."

// ErrBusy rejects a submit issued while a previous request is still in
// flight. Overlapping submits are refused rather than queued so that two
// typing-indicator lifecycles can never race.
var ErrBusy = errors.New("exchange: a request is already in flight")

// NetworkError covers transport failures, non-2xx statuses, and
// undecodable response bodies. Callers surface FallbackMessage for all of
// them.
type NetworkError struct {
	Op     string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: server returned %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TypingIndicator is the UI hook shown for the full in-flight duration of
// a request.
type TypingIndicator interface {
	Show()
	Hide()
}

type Client struct {
	baseURL    string
	session    string
	httpClient *http.Client
	indicator  TypingIndicator

	mu       sync.Mutex
	inFlight bool
}

// NewClient builds the exchange client. When apiToken is non-empty every
// request carries it as a bearer token. indicator may be nil.
func NewClient(baseURL, sessionToken, apiToken string, timeout time.Duration, indicator TypingIndicator) *Client {
	hc := &http.Client{Timeout: timeout}
	if apiToken != "" {
		hc = oauth2.NewClient(context.Background(),
			oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiToken}))
		hc.Timeout = timeout
	}
	return &Client{
		baseURL:    baseURL,
		session:    sessionToken,
		httpClient: hc,
		indicator:  indicator,
	}
}

// SendText posts a plain message to /api/chat.
func (c *Client) SendText(ctx context.Context, text string) (*types.BotReply, error) {
	release, err := c.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	payload, err := json.Marshal(types.ChatRequest{Message: text, SessionID: c.session})
	if err != nil {
		return nil, &NetworkError{Op: "chat", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, &NetworkError{Op: "chat", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do("chat", req)
}

// SendWithAttachment posts the message and the staged file to
// /api/chat-with-file as multipart fields message, session_id and file.
func (c *Client) SendWithAttachment(ctx context.Context, text string, att attachment.PendingAttachment) (*types.BotReply, error) {
	release, err := c.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("message", text); err != nil {
		return nil, &NetworkError{Op: "chat-with-file", Err: err}
	}
	if err := w.WriteField("session_id", c.session); err != nil {
		return nil, &NetworkError{Op: "chat-with-file", Err: err}
	}
	part, err := w.CreateFormFile("file", att.Name)
	if err != nil {
		return nil, &NetworkError{Op: "chat-with-file", Err: err}
	}
	if _, err := part.Write(att.Blob); err != nil {
		return nil, &NetworkError{Op: "chat-with-file", Err: err}
	}
	if err := w.Close(); err != nil {
		return nil, &NetworkError{Op: "chat-with-file", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/chat-with-file", &buf)
	if err != nil {
		return nil, &NetworkError{Op: "chat-with-file", Err: err}
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do("chat-with-file", req)
}

// acquire claims the single in-flight slot and shows the indicator. The
// returned release hides the indicator and frees the slot; it is safe to
// call once per acquire and runs exactly once.
func (c *Client) acquire() (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return nil, ErrBusy
	}
	c.inFlight = true
	if c.indicator != nil {
		c.indicator.Show()
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			c.inFlight = false
			c.mu.Unlock()
			if c.indicator != nil {
				c.indicator.Hide()
			}
		})
	}, nil
}

func (c *Client) do(op string, req *http.Request) (*types.BotReply, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &NetworkError{Op: op, Status: resp.StatusCode}
	}
	var reply types.BotReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		// Parse failures fail closed to the same fallback path.
		return nil, &NetworkError{Op: op, Err: err}
	}
	return &reply, nil
}

// ResolveProducts picks the renderable product list out of a reply. The
// list form wins over a wrapped single product; an order reference is
// logged only and renders nothing.
func ResolveProducts(reply *types.BotReply) []types.Product {
	if reply == nil || reply.Data == nil {
		return nil
	}
	if len(reply.Data.Products) > 0 {
		return reply.Data.Products
	}
	if reply.Data.Product != nil {
		return []types.Product{*reply.Data.Product}
	}
	if reply.Data.Order != nil {
		log.Printf("[exchange] order update: #%s %s", reply.Data.Order.OrderID, reply.Data.Order.Status)
	}
	return nil
}
