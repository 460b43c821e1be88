package journal

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPreservesOrder(t *testing.T) {
	m := &Memory{}
	m.Log("one", SeverityInfo)
	m.Log("two", SeverityError)
	m.Log("three", SeveritySuccess)

	require.Len(t, m.Entries, 3)
	assert.Equal(t, "one", m.Entries[0].Message)
	assert.Equal(t, "two", m.Entries[1].Message)
	assert.Equal(t, "three", m.Entries[2].Message)

	for _, e := range m.Entries {
		assert.NotEmpty(t, e.ID)
		assert.False(t, e.Time.IsZero())
	}
}

func TestMemoryBySeverity(t *testing.T) {
	m := &Memory{}
	m.Log("a", SeverityInfo)
	m.Log("b", SeverityError)
	m.Log("c", SeverityError)

	errs := m.BySeverity(SeverityError)
	require.Len(t, errs, 2)
	assert.Equal(t, "b", errs[0].Message)
	assert.Equal(t, "c", errs[1].Message)
	assert.Empty(t, m.BySeverity(SeveritySuccess))
}

func TestMultiFansOut(t *testing.T) {
	a := &Memory{}
	b := &Memory{}
	sink := Multi(a, b)

	sink.Log("hello", SeverityInfo)

	require.Len(t, a.Entries, 1)
	require.Len(t, b.Entries, 1)
	assert.Equal(t, "hello", a.Entries[0].Message)
}

func TestConsoleSeverityPrefixes(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Log("plain", SeverityInfo)
	c.Log("won", SeveritySuccess)
	c.Log("lost", SeverityError)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "plain")
	assert.Contains(t, lines[1], "✓ won")
	assert.Contains(t, lines[2], "✗ lost")
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")

	f, err := NewFile(path)
	require.NoError(t, err)

	f.Log("first", SeverityInfo)
	f.Log("second", SeverityError)
	require.NoError(t, f.Close())

	reopened, err := NewFile(path)
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.Read()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Message)
	assert.Equal(t, SeverityError, entries[1].Severity)
}
