package library

import (
	"math"

	"github.com/pkg/errors"

	"github.com/mrlokans/reader/internal/entities"
)

// SettingsPatch is a partial settings update. Nil fields are left untouched.
// Numeric values are clamped to their allowed range; unknown enum values
// are rejected.
type SettingsPatch struct {
	FontSize         *int     `json:"fontSize"`
	FontFamily       *string  `json:"fontFamily"`
	LineHeight       *float64 `json:"lineHeight"`
	TextWidth        *int     `json:"textWidth"`
	Theme            *string  `json:"theme"`
	ReadingMode      *string  `json:"readingMode"`
	BackgroundColor  *string  `json:"backgroundColor"`
	TextColor        *string  `json:"textColor"`
	Margins          *int     `json:"margins"`
	ParagraphSpacing *int     `json:"paragraphSpacing"`
	TextAlign        *string  `json:"textAlign"`
}

func (s *Store) Settings() entities.ReaderSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.settings
}

func (s *Store) UpdateSettings(patch SettingsPatch) (entities.ReaderSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated entities.ReaderSettings
	err := s.update(func(st *libraryState) error {
		next, err := applySettingsPatch(st.settings, patch)
		if err != nil {
			return err
		}
		st.settings = next
		updated = next
		return nil
	})
	return updated, err
}

// SetTheme switches to a named theme and its color pair.
func (s *Store) SetTheme(name string) (entities.ReaderSettings, error) {
	colors, ok := entities.Themes[name]
	if !ok {
		return entities.ReaderSettings{}, errors.Wrapf(ErrUnknownTheme, "%q", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var updated entities.ReaderSettings
	err := s.update(func(st *libraryState) error {
		st.settings.Theme = name
		st.settings.BackgroundColor = colors.Background
		st.settings.TextColor = colors.Text
		updated = st.settings
		return nil
	})
	return updated, err
}

func applySettingsPatch(cur entities.ReaderSettings, p SettingsPatch) (entities.ReaderSettings, error) {
	next := cur

	if p.FontFamily != nil {
		if !entities.IsFontFamily(*p.FontFamily) {
			return cur, errors.Wrapf(ErrInvalidSettings, "font family %q", *p.FontFamily)
		}
		next.FontFamily = *p.FontFamily
	}
	if p.ReadingMode != nil {
		if !entities.IsReadingMode(*p.ReadingMode) {
			return cur, errors.Wrapf(ErrInvalidSettings, "reading mode %q", *p.ReadingMode)
		}
		next.ReadingMode = *p.ReadingMode
	}
	if p.TextAlign != nil {
		if !entities.IsTextAlign(*p.TextAlign) {
			return cur, errors.Wrapf(ErrInvalidSettings, "text align %q", *p.TextAlign)
		}
		next.TextAlign = *p.TextAlign
	}
	if p.Theme != nil {
		colors, ok := entities.Themes[*p.Theme]
		if !ok {
			return cur, errors.Wrapf(ErrInvalidSettings, "theme %q", *p.Theme)
		}
		next.Theme = *p.Theme
		if p.BackgroundColor == nil && p.TextColor == nil {
			next.BackgroundColor = colors.Background
			next.TextColor = colors.Text
		}
	}
	if p.BackgroundColor != nil {
		next.BackgroundColor = *p.BackgroundColor
	}
	if p.TextColor != nil {
		next.TextColor = *p.TextColor
	}
	if p.FontSize != nil {
		next.FontSize = *p.FontSize
	}
	if p.LineHeight != nil {
		next.LineHeight = *p.LineHeight
	}
	if p.TextWidth != nil {
		next.TextWidth = *p.TextWidth
	}
	if p.Margins != nil {
		next.Margins = *p.Margins
	}
	if p.ParagraphSpacing != nil {
		next.ParagraphSpacing = *p.ParagraphSpacing
	}

	return normalizeSettings(next), nil
}

// normalizeSettings clamps numeric values and restores defaults for enum
// values that are not recognised.
func normalizeSettings(in entities.ReaderSettings) entities.ReaderSettings {
	def := entities.DefaultReaderSettings()
	out := in

	out.FontSize = clampInt(out.FontSize, entities.MinFontSize, entities.MaxFontSize)
	out.Margins = clampInt(out.Margins, entities.MinMargins, entities.MaxMargins)
	out.TextWidth = clampInt(out.TextWidth, entities.MinTextWidth, entities.MaxTextWidth)
	if out.ParagraphSpacing < 0 {
		out.ParagraphSpacing = 0
	}
	if math.IsNaN(out.LineHeight) {
		out.LineHeight = def.LineHeight
	}
	out.LineHeight = math.Min(math.Max(out.LineHeight, entities.MinLineHeight), entities.MaxLineHeight)

	if !entities.IsFontFamily(out.FontFamily) {
		out.FontFamily = def.FontFamily
	}
	if !entities.IsReadingMode(out.ReadingMode) {
		out.ReadingMode = def.ReadingMode
	}
	if !entities.IsTextAlign(out.TextAlign) {
		out.TextAlign = def.TextAlign
	}
	if _, ok := entities.Themes[out.Theme]; !ok {
		out.Theme = def.Theme
	}
	if out.BackgroundColor == "" || out.TextColor == "" {
		colors := entities.Themes[out.Theme]
		out.BackgroundColor = colors.Background
		out.TextColor = colors.Text
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
