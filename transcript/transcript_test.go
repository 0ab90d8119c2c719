package transcript

import (
	"bytes"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agenttriage/core"
	"github.com/hupe1980/agenttriage/internal/testutil"
)

func seqOf(msgs ...core.Message) iter.Seq2[core.Message, error] {
	return func(yield func(core.Message, error) bool) {
		for _, m := range msgs {
			if !yield(m, nil) {
				return
			}
		}
	}
}

func TestPrinter_Print(t *testing.T) {
	user := testutil.NewMessageBuilder("thread_1").ID("m1").Text("Printer in room 204 is jammed").Build()
	reply := testutil.NewMessageBuilder("thread_1").ID("m2").Assistant().Text("thinking").Text("Priority: Low").Build()

	var out bytes.Buffer
	printed, err := NewPrinter(&out).Print(seqOf(user, reply))
	require.NoError(t, err)

	assert.Equal(t, "user:\nPrinter in room 204 is jammed\n\nassistant:\nPriority: Low\n\n", out.String())
	assert.Equal(t, []string{"m1", "m2"}, ids(printed))
}

func TestPrinter_SkipsMessagesWithoutText(t *testing.T) {
	file := testutil.NewMessageBuilder("thread_1").ID("m1").Assistant().File("file_1").Build()
	user := testutil.NewMessageBuilder("thread_1").ID("m2").Text("hello").Build()

	var out bytes.Buffer
	printed, err := NewPrinter(&out).Print(seqOf(file, user))
	require.NoError(t, err)
	assert.Equal(t, "user:\nhello\n\n", out.String())
	assert.Equal(t, []string{"m2"}, ids(printed))
}

func TestPrinter_Empty(t *testing.T) {
	var out bytes.Buffer
	printed, err := NewPrinter(&out).Print(seqOf())
	require.NoError(t, err)
	assert.Empty(t, printed)
	assert.Empty(t, out.String())
}

func TestPrinter_StopsAtError(t *testing.T) {
	boom := errors.New("page 2 failed")
	seq := func(yield func(core.Message, error) bool) {
		if !yield(testutil.NewMessageBuilder("thread_1").ID("m1").Text("first").Build(), nil) {
			return
		}
		yield(core.Message{}, boom)
	}

	var out bytes.Buffer
	printed, err := NewPrinter(&out).Print(seq)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, printed, 1)
	assert.Equal(t, "user:\nfirst\n\n", out.String())
}

func TestPrinter_Color(t *testing.T) {
	msg := testutil.NewMessageBuilder("thread_1").ID("m1").Text("hi").Build()

	var out bytes.Buffer
	_, err := NewPrinter(&out, func(o *Options) { o.Color = true }).Print(seqOf(msg))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "\x1b[")
	assert.Contains(t, out.String(), "user")
	assert.Contains(t, out.String(), ":\nhi\n\n")
}

func ids(msgs []core.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.ID)
	}
	return out
}
