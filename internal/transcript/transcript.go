package transcript

import "sync"

const (
	RoleUser = "user"
	RoleBot  = "bot"
)

type Message struct {
	Role string
	Text string
	// AttachmentPreview is a data URL for an image the user attached,
	// empty otherwise.
	AttachmentPreview string
}

// Transcript is the ordered, append-only record of exchanged messages.
// The first appended entry is treated as the welcome message: Reset keeps
// it, and trimming never drops it.
type Transcript struct {
	mu          sync.RWMutex
	messages    []Message
	maxMessages int
}

// New returns a transcript capped at maxMessages entries (0 disables the
// cap). The welcome entry does not count against the cap.
func New(maxMessages int) *Transcript {
	return &Transcript{maxMessages: maxMessages}
}

func (t *Transcript) Append(msg Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, msg)
	t.trimLocked()
}

func (t *Transcript) Messages() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// Reset drops everything except the welcome entry. On an empty transcript
// it is a no-op.
func (t *Transcript) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.messages) == 0 {
		return
	}
	t.messages = t.messages[:1:1]
}

func (t *Transcript) trimLocked() {
	if t.maxMessages <= 0 {
		return
	}
	if len(t.messages) <= t.maxMessages+1 {
		return
	}
	// Keep the welcome entry plus the most recent maxMessages.
	kept := make([]Message, 0, t.maxMessages+1)
	kept = append(kept, t.messages[0])
	kept = append(kept, t.messages[len(t.messages)-t.maxMessages:]...)
	t.messages = kept
}
