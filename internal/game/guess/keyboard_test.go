package guess

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeCallback(t *testing.T) {
	tests := []struct {
		name      string
		action    string
		sessionID string
	}{
		{"reveal", CallbackReveal, "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d"},
		{"guess", CallbackGuess, "session-1"},
		{"links", CallbackLinks, "abc"},
		{"give up", CallbackGiveUp, "xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := EncodeCallback(tt.action, tt.sessionID)
			action, sessionID := DecodeCallback(data)
			assert.Equal(t, tt.action, action)
			assert.Equal(t, tt.sessionID, sessionID)
		})
	}
}

func TestDecodeCallbackForeignData(t *testing.T) {
	action, sessionID := DecodeCallback("shop_buy_123")
	assert.Empty(t, action)
	assert.Empty(t, sessionID)
}

func TestBuildKeyboardRendersOnlyOfferedActions(t *testing.T) {
	markup := BuildKeyboard("s1", []Action{ActionGuess, ActionGiveUp})

	require.Len(t, markup.InlineKeyboard, 2)
	require.Len(t, markup.InlineKeyboard[0], 1)
	require.Len(t, markup.InlineKeyboard[1], 1)
	assert.Equal(t, EncodeCallback(CallbackGuess, "s1"), markup.InlineKeyboard[0][0].Data)
	assert.Equal(t, EncodeCallback(CallbackGiveUp, "s1"), markup.InlineKeyboard[1][0].Data)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short string untouched", "hello", 10, "hello"},
		{"exact length untouched", "hello", 5, "hello"},
		{"ascii cut", "hello world", 5, "hello..."},
		{"multi-byte rune at the cut point", strings.Repeat("€", 10), 4, "€..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.max)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestTruncateCardTextStaysValidUTF8(t *testing.T) {
	// The article card truncates excerpts at 400 bytes, which lands mid-rune
	// for a run of 3-byte characters.
	got := truncate(strings.Repeat("€", 200), 400)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestBuildKeyboardEmptyForTerminalView(t *testing.T) {
	markup := BuildKeyboard("s1", nil)
	assert.Empty(t, markup.InlineKeyboard)
}
