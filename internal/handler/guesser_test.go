package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategories(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    []string
	}{
		{"empty payload", "", nil},
		{"whitespace only", "   ", nil},
		{"single category", "Physics", []string{"Physics"}},
		{"multiple with spaces", "Physics, 19th-century composers ,Rivers", []string{"Physics", "19th-century composers", "Rivers"}},
		{"empty segments dropped", ",Physics,,Rivers,", []string{"Physics", "Rivers"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseCategories(tt.payload))
		})
	}
}

func TestProviderKey(t *testing.T) {
	tests := []struct {
		name       string
		chatID     int64
		categories []string
		want       string
	}{
		{"unconstrained", 42, nil, "42"},
		{"single category", 42, []string{"Physics"}, "42|physics"},
		{"multiple categories", 42, []string{"Physics", "Rivers"}, "42|physics,rivers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, providerKey(tt.chatID, tt.categories))
		})
	}
}

func TestProviderKeyCaseInsensitive(t *testing.T) {
	assert.Equal(t,
		providerKey(7, []string{"Physics"}),
		providerKey(7, []string{"physics"}),
	)
}

func TestProviderKeySeparatesChatsAndConstraints(t *testing.T) {
	base := providerKey(1, nil)
	assert.NotEqual(t, base, providerKey(2, nil))
	assert.NotEqual(t, base, providerKey(1, []string{"Physics"}))
	assert.NotEqual(t,
		providerKey(1, []string{"Physics"}),
		providerKey(1, []string{"Rivers"}),
	)
}
