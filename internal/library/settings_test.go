package library

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/reader/internal/entities"
)

func ptr[T any](v T) *T { return &v }

func TestUpdateSettings(t *testing.T) {
	s, _ := openEmpty(t)

	t.Run("merges and clamps", func(t *testing.T) {
		got, err := s.UpdateSettings(SettingsPatch{
			FontSize:   ptr(40),
			LineHeight: ptr(0.5),
			Margins:    ptr(5),
			TextAlign:  ptr(entities.TextAlignJustified),
		})
		require.NoError(t, err)

		assert.Equal(t, entities.MaxFontSize, got.FontSize)
		assert.Equal(t, entities.MinLineHeight, got.LineHeight)
		assert.Equal(t, entities.MinMargins, got.Margins)
		assert.Equal(t, entities.TextAlignJustified, got.TextAlign)
		assert.Equal(t, "Charter", got.FontFamily)
		assert.Equal(t, got, s.Settings())
	})

	t.Run("theme brings its colors", func(t *testing.T) {
		got, err := s.UpdateSettings(SettingsPatch{Theme: ptr(entities.ThemeSepia)})
		require.NoError(t, err)
		assert.Equal(t, "#f4ecd8", got.BackgroundColor)
		assert.Equal(t, "#5f4b32", got.TextColor)
	})

	t.Run("explicit colors win", func(t *testing.T) {
		got, err := s.UpdateSettings(SettingsPatch{Theme: ptr(entities.ThemeDark), TextColor: ptr("#ff0000")})
		require.NoError(t, err)
		assert.Equal(t, entities.ThemeDark, got.Theme)
		assert.Equal(t, "#ff0000", got.TextColor)
	})

	t.Run("rejects unknown enums", func(t *testing.T) {
		before := s.Settings()
		for _, p := range []SettingsPatch{
			{FontFamily: ptr("Comic Sans")},
			{ReadingMode: ptr("flip")},
			{TextAlign: ptr("right")},
			{Theme: ptr("neon")},
		} {
			_, err := s.UpdateSettings(p)
			assert.True(t, errors.Is(err, ErrInvalidSettings))
		}
		assert.Equal(t, before, s.Settings())
	})
}

func TestSetTheme(t *testing.T) {
	s, _ := openEmpty(t)

	got, err := s.SetTheme(entities.ThemeNight)
	require.NoError(t, err)
	assert.Equal(t, entities.ThemeNight, got.Theme)
	assert.Equal(t, entities.Themes[entities.ThemeNight].Background, got.BackgroundColor)
	assert.Equal(t, entities.Themes[entities.ThemeNight].Text, got.TextColor)

	_, err = s.SetTheme("neon")
	assert.True(t, errors.Is(err, ErrUnknownTheme))
}

func TestNormalizeSettings_RepairsStoredValues(t *testing.T) {
	in := entities.ReaderSettings{FontSize: 100, FontFamily: "??", Theme: "??"}
	out := normalizeSettings(in)

	def := entities.DefaultReaderSettings()
	assert.Equal(t, entities.MaxFontSize, out.FontSize)
	assert.Equal(t, def.FontFamily, out.FontFamily)
	assert.Equal(t, def.Theme, out.Theme)
	assert.Equal(t, def.BackgroundColor, out.BackgroundColor)
	assert.Equal(t, def.ReadingMode, out.ReadingMode)
	assert.Equal(t, entities.MinLineHeight, out.LineHeight)
}
