package notify

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogNotifier(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	n := NewSlogNotifier(logger)

	n.Notify(KindSuccess, "Substitution made")
	n.Notify(KindError, "Pitch state mismatch")

	out := buf.String()
	assert.Contains(t, out, "Substitution made")
	assert.Contains(t, out, "Pitch state mismatch")
	assert.Contains(t, out, "level=ERROR")
}

func TestQueueNotifier(t *testing.T) {
	n := NewQueueNotifier()
	assert.Equal(t, 0, n.Pending())

	n.Notify(KindInfo, "first")
	n.Notify(KindSuccess, "second")
	assert.Equal(t, 2, n.Pending())

	notes := n.Drain()
	require.Len(t, notes, 2)
	assert.Equal(t, KindInfo, notes[0].Kind)
	assert.Equal(t, "first", notes[0].Detail)
	assert.Equal(t, KindSuccess, notes[1].Kind)
	assert.Equal(t, 0, n.Pending())

	for _, note := range notes {
		assert.False(t, note.Timestamp.IsZero())
	}
}
