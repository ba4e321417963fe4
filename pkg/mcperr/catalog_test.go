package mcperr

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"
)

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.True(t, res.IsError)
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestNewUsesCatalogMessage(t *testing.T) {
	text := resultText(t, New(InvalidSession, ""))
	require.Contains(t, text, "INVALID_SESSION: session not found or expired")
	require.Contains(t, text, "nextSteps: Call process_files")
}

func TestWrapfOverridesMessage(t *testing.T) {
	text := resultText(t, Wrapf(ReadFailed, "file %s unreadable", "a.csv"))
	require.Contains(t, text, "READ_FAILED: file a.csv unreadable")
}

func TestFromText(t *testing.T) {
	require.Contains(t, resultText(t, FromText("NO_DATA: nothing")), "NO_DATA: nothing | nextSteps")
	require.Equal(t, "CUSTOM: kept", resultText(t, FromText("CUSTOM: kept")))
	require.Contains(t, resultText(t, FromText("")), "VALIDATION: invalid inputs")
}

func TestLookup(t *testing.T) {
	e, ok := Lookup(FileTooLarge)
	require.True(t, ok)
	require.False(t, e.Retryable)
	_, ok = Lookup(Code("NOPE"))
	require.False(t, ok)
}

func TestEntryText(t *testing.T) {
	e := Entry{Code: "X", Message: "default", NextSteps: []string{"a", "b"}}
	require.Equal(t, "X: default | nextSteps: a; b", e.Text(""))
	require.Equal(t, "X: custom | nextSteps: a; b", e.Text("  custom "))
	require.Equal(t, "Y: plain", Entry{Code: "Y", Message: "plain"}.Text(""))
	require.Contains(t, resultText(t, FromText("no code here")), "VALIDATION: no code here")
}
