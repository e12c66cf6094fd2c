package transcript

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func welcome() Message {
	return Message{Role: RoleBot, Text: "Welcome! How can I help?"}
}

func TestAppendKeepsInsertionOrder(t *testing.T) {
	tr := New(0)
	tr.Append(welcome())
	tr.Append(Message{Role: RoleUser, Text: "show me headphones"})
	tr.Append(Message{Role: RoleBot, Text: "here you go"})

	msgs := tr.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, RoleBot, msgs[0].Role)
	assert.Equal(t, "show me headphones", msgs[1].Text)
	assert.Equal(t, "here you go", msgs[2].Text)
}

func TestMessagesReturnsCopy(t *testing.T) {
	tr := New(0)
	tr.Append(welcome())

	msgs := tr.Messages()
	msgs[0].Text = "mutated"
	assert.Equal(t, welcome().Text, tr.Messages()[0].Text)
}

func TestResetPreservesWelcomeOnly(t *testing.T) {
	tr := New(0)
	tr.Append(welcome())
	tr.Append(Message{Role: RoleUser, Text: "hi"})
	tr.Append(Message{Role: RoleBot, Text: "hello"})

	tr.Reset()
	msgs := tr.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, welcome(), msgs[0])

	// Appending after a reset must not clobber the retained welcome.
	tr.Append(Message{Role: RoleUser, Text: "again"})
	msgs = tr.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, welcome(), msgs[0])
	assert.Equal(t, "again", msgs[1].Text)
}

func TestResetOnEmptyIsNoop(t *testing.T) {
	tr := New(0)
	tr.Reset()
	assert.Zero(t, tr.Len())
}

func TestTrimKeepsWelcomeAndMostRecent(t *testing.T) {
	tr := New(4)
	tr.Append(welcome())
	for i := 1; i <= 10; i++ {
		tr.Append(Message{Role: RoleUser, Text: fmt.Sprintf("m%d", i)})
	}

	msgs := tr.Messages()
	require.Len(t, msgs, 5)
	assert.Equal(t, welcome(), msgs[0])
	assert.Equal(t, "m7", msgs[1].Text)
	assert.Equal(t, "m10", msgs[4].Text)
}
