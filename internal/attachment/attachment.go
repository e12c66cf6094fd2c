package attachment

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
)

// ErrUnsupportedType is returned when the staged file is not an image.
var ErrUnsupportedType = errors.New("attachment: only image files are supported")

// PendingAttachment is the single staged file awaiting send.
type PendingAttachment struct {
	Name           string
	MIME           string
	Blob           []byte
	PreviewDataURL string
}

// Controller owns the at-most-one staged attachment slot. Staging a new
// file replaces the previous one; Clear drops it unconditionally. The
// preview data URL is produced asynchronously, and a generation counter
// guarantees that a Clear (or a replacing Stage) issued mid-encode never
// lets a stale preview land.
type Controller struct {
	mu        sync.Mutex
	gen       uint64
	current   *PendingAttachment
	onPreview func(dataURL string)

	// previewDelay, when set, runs before an encode result is committed.
	// Used by tests to stage the clear-vs-encode race deterministically.
	previewDelay func()
}

func NewController() *Controller {
	return &Controller{}
}

// OnPreview registers a callback invoked when a preview finishes encoding
// for the attachment that is still current.
func (c *Controller) OnPreview(fn func(dataURL string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onPreview = fn
}

// Stage validates and stores a file as the pending attachment. Non-image
// MIME types are rejected without touching the current slot. When mime is
// empty it is sniffed from the blob.
func (c *Controller) Stage(name, mime string, blob []byte) (PendingAttachment, error) {
	if mime == "" {
		mime = http.DetectContentType(blob)
	}
	if !strings.HasPrefix(mime, "image/") {
		return PendingAttachment{}, fmt.Errorf("%w (got %s)", ErrUnsupportedType, mime)
	}

	c.mu.Lock()
	c.gen++
	gen := c.gen
	att := &PendingAttachment{Name: name, MIME: mime, Blob: blob}
	c.current = att
	c.mu.Unlock()

	go c.encodePreview(gen, mime, blob)
	return *att, nil
}

// Clear drops the staged attachment and its preview. Idempotent; also
// invalidates any preview encode still in flight.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.current = nil
}

// Current returns a snapshot of the staged attachment, or false when none
// is staged.
func (c *Controller) Current() (PendingAttachment, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return PendingAttachment{}, false
	}
	return *c.current, true
}

func (c *Controller) encodePreview(gen uint64, mime string, blob []byte) {
	dataURL := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(blob)
	if c.previewDelay != nil {
		c.previewDelay()
	}

	c.mu.Lock()
	if c.gen != gen || c.current == nil {
		// Superseded by a Clear or a newer Stage.
		c.mu.Unlock()
		return
	}
	c.current.PreviewDataURL = dataURL
	fn := c.onPreview
	c.mu.Unlock()

	if fn != nil {
		fn(dataURL)
	}
}
