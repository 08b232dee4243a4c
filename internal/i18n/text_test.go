package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextGet(t *testing.T) {
	text := Text{UK: "Заміна масла", EN: "Oil change"}

	assert.Equal(t, "Oil change", text.Get(EN))
	assert.Equal(t, "Заміна масла", text.Get(UK))
	assert.Equal(t, "Заміна масла", text.Get(Locale("de")))
}

func TestTextGetFallsBackWhenTranslationMissing(t *testing.T) {
	assert.Equal(t, "Діагностика", Text{UK: "Діагностика"}.Get(EN))
	assert.Equal(t, "Diagnostics", Text{EN: "Diagnostics", UK: "  "}.Get(UK))
	assert.Equal(t, "", Text{}.Get(EN))
	assert.Equal(t, "", Text(nil).Get(UK))
}

func TestTextEmpty(t *testing.T) {
	assert.True(t, Text{}.Empty())
	assert.True(t, Text{UK: " "}.Empty())
	assert.False(t, Text{EN: "Box 1"}.Empty())
}

func TestResolveLocale(t *testing.T) {
	cases := []struct {
		name   string
		query  string
		header string
		want   Locale
	}{
		{"query wins", "en", "uk-UA", EN},
		{"query is case insensitive", "EN", "", EN},
		{"unsupported query falls to header", "de", "en-US,en;q=0.9", EN},
		{"header with weights", "", "fr;q=1, uk;q=0.8", UK},
		{"nothing supported", "pl", "de-DE", UK},
		{"empty", "", "", UK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveLocale(tc.query, tc.header))
		})
	}
}
