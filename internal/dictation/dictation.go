// Package dictation turns captured speech into draft text. The controller
// is a small state machine over two capabilities: an AudioSource that
// records one utterance and a Transcriber that converts it to text. Only
// the final transcript is ever surfaced; there are no interim results and
// no retries.
package dictation

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
)

type State int

const (
	Idle State = iota
	Listening
)

var (
	// ErrCapabilityUnavailable is returned by Start when no speech
	// capability is configured.
	ErrCapabilityUnavailable = errors.New("dictation: speech capability unavailable")
	// ErrListening is returned by Start while a capture is in progress.
	ErrListening = errors.New("dictation: already listening")
)

// AudioSource records a single utterance and returns its audio.
type AudioSource interface {
	Record(ctx context.Context) (audio io.ReadCloser, filename string, err error)
}

// Transcriber converts recorded audio into a final transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// Controller drives Idle -> Listening -> Idle. A successful capture
// delivers exactly one final transcript to the sink; errors and natural
// ends return to Idle without delivering anything.
type Controller struct {
	mu     sync.Mutex
	state  State
	source AudioSource
	trans  Transcriber
	sink   func(text string)
	notify func(msg string)

	noticeOnce sync.Once
}

// NewController wires the capability pair to a draft sink. notify is the
// user-visible notice channel; it may be nil. Either capability may be
// nil, in which case Start fails fast.
func NewController(source AudioSource, trans Transcriber, sink func(string), notify func(string)) *Controller {
	return &Controller{source: source, trans: trans, sink: sink, notify: notify}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start begins one capture. With no capability configured it surfaces a
// one-time notice and fails without changing state.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.source == nil || c.trans == nil {
		c.mu.Unlock()
		c.noticeOnce.Do(func() {
			if c.notify != nil {
				c.notify("Voice dictation is not available on this setup.")
			}
		})
		return ErrCapabilityUnavailable
	}
	if c.state == Listening {
		c.mu.Unlock()
		return ErrListening
	}
	c.state = Listening
	c.mu.Unlock()

	go c.listen(ctx)
	return nil
}

func (c *Controller) listen(ctx context.Context) {
	defer func() {
		c.mu.Lock()
		c.state = Idle
		c.mu.Unlock()
	}()

	audio, filename, err := c.source.Record(ctx)
	if err != nil {
		log.Printf("[dictation] record failed: %v", err)
		return
	}
	defer audio.Close()

	text, err := c.trans.Transcribe(ctx, audio, filename)
	if err != nil {
		log.Printf("[dictation] transcription failed: %v", err)
		return
	}
	if text == "" {
		return
	}
	if c.sink != nil {
		c.sink(text)
	}
}
