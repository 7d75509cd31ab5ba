package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBothLocales(t *testing.T) {
	b, err := Load()
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"en", "vi"}, b.Locales())
	assert.Equal(t, "Phòng đã bị đặt trong khoảng thời gian này", b.T("vi", "booking.room_conflict"))
	assert.Equal(t, "This room is already booked for the selected time", b.T("en", "booking.room_conflict"))
}

func mustLoad(t *testing.T) *Bundle {
	t.Helper()
	b, err := Load()
	require.NoError(t, err)
	return b
}

func TestFormatting(t *testing.T) {
	b := mustLoad(t)

	assert.Equal(t, "Meetings must be between 08:00 and 18:00", b.T("en", "booking.outside_hours", 8, 18))
}

func TestFallbacks(t *testing.T) {
	b := mustLoad(t)

	assert.Equal(t, b.T("en", "common.saved"), b.T("fr", "common.saved"))
	assert.Equal(t, "no.such.key", b.T("vi", "no.such.key"))
}

func TestLocaleKeysMatch(t *testing.T) {
	b := mustLoad(t)

	for key := range b.messages["en"] {
		_, ok := b.messages["vi"][key]
		assert.True(t, ok, "vi is missing %s", key)
	}
}

func TestFromAcceptLanguage(t *testing.T) {
	b := mustLoad(t)

	assert.Equal(t, "vi", b.FromAcceptLanguage("vi-VN,vi;q=0.9,en;q=0.8", "en"))
	assert.Equal(t, "en", b.FromAcceptLanguage("fr-FR, en-US;q=0.7", "vi"))
	assert.Equal(t, "vi", b.FromAcceptLanguage("", "vi"))
	assert.Equal(t, "vi", b.FromAcceptLanguage("en;q=0.1, vi;q=0.9", "en"))
	assert.Equal(t, "vi", b.FromAcceptLanguage("en-US;q=0.2, vi-VN", "en"))
	assert.Equal(t, "en", b.FromAcceptLanguage("de-DE", "en"))
	assert.Equal(t, "vi", b.FromAcceptLanguage("ja", "vi"))
	assert.Equal(t, "vi", b.FromAcceptLanguage(";;garbage", "vi"))
	assert.Equal(t, "vi", Normalize("VI_vn"))
}
