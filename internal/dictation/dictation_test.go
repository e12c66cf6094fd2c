package dictation

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	audio string
	err   error
}

func (s stubSource) Record(context.Context) (io.ReadCloser, string, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	return io.NopCloser(strings.NewReader(s.audio)), "capture.wav", nil
}

type stubTranscriber struct {
	text string
	err  error
}

func (s stubTranscriber) Transcribe(context.Context, io.Reader, string) (string, error) {
	return s.text, s.err
}

func waitIdle(t *testing.T, c *Controller) {
	t.Helper()
	require.Eventually(t, func() bool { return c.State() == Idle },
		time.Second, 5*time.Millisecond)
}

func TestStartWithoutCapabilityFailsFast(t *testing.T) {
	var notices []string
	c := NewController(nil, nil, nil, func(msg string) { notices = append(notices, msg) })

	err := c.Start(context.Background())
	require.ErrorIs(t, err, ErrCapabilityUnavailable)
	assert.Equal(t, Idle, c.State())

	// The notice is surfaced once, not on every attempt.
	_ = c.Start(context.Background())
	_ = c.Start(context.Background())
	assert.Len(t, notices, 1)
}

func TestSuccessfulCaptureDeliversOneTranscript(t *testing.T) {
	got := make(chan string, 2)
	c := NewController(stubSource{audio: "pcm"}, stubTranscriber{text: "show me headphones"},
		func(text string) { got <- text }, nil)

	require.NoError(t, c.Start(context.Background()))
	select {
	case text := <-got:
		assert.Equal(t, "show me headphones", text)
	case <-time.After(time.Second):
		t.Fatal("transcript never delivered")
	}
	waitIdle(t, c)
	assert.Empty(t, got, "only the final transcript is delivered")
}

func TestRecordErrorReturnsToIdleWithoutTranscript(t *testing.T) {
	delivered := false
	c := NewController(stubSource{err: errors.New("mic busy")}, stubTranscriber{text: "x"},
		func(string) { delivered = true }, nil)

	require.NoError(t, c.Start(context.Background()))
	waitIdle(t, c)
	assert.False(t, delivered)
}

func TestTranscribeErrorReturnsToIdleWithoutTranscript(t *testing.T) {
	delivered := false
	c := NewController(stubSource{audio: "pcm"}, stubTranscriber{err: errors.New("api down")},
		func(string) { delivered = true }, nil)

	require.NoError(t, c.Start(context.Background()))
	waitIdle(t, c)
	assert.False(t, delivered)
}

func TestStartWhileListeningIsRejected(t *testing.T) {
	block := make(chan struct{})
	src := blockingSource{release: block}
	c := NewController(src, stubTranscriber{text: "late"}, nil, nil)

	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, Listening, c.State())
	assert.ErrorIs(t, c.Start(context.Background()), ErrListening)

	close(block)
	waitIdle(t, c)
}

type blockingSource struct {
	release chan struct{}
}

func (b blockingSource) Record(context.Context) (io.ReadCloser, string, error) {
	<-b.release
	return io.NopCloser(strings.NewReader("pcm")), "capture.wav", nil
}
