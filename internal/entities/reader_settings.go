package entities

// Reading modes.
const (
	ReadingModePaged  = "paged"
	ReadingModeScroll = "scroll"
)

// Text alignments.
const (
	TextAlignLeft      = "left"
	TextAlignCenter    = "center"
	TextAlignJustified = "justified"
)

// Themes.
const (
	ThemeLight = "light"
	ThemeSepia = "sepia"
	ThemeDark  = "dark"
	ThemeNight = "night"
)

// ThemeColors is the fixed background/text pair of a theme.
type ThemeColors struct {
	Background string `json:"backgroundColor"`
	Text       string `json:"textColor"`
}

// Themes maps theme names to their colors.
var Themes = map[string]ThemeColors{
	ThemeLight: {Background: "#ffffff", Text: "#1a1a1a"},
	ThemeSepia: {Background: "#f4ecd8", Text: "#5f4b32"},
	ThemeDark:  {Background: "#1a1a1a", Text: "#e0e0e0"},
	ThemeNight: {Background: "#0a0a0a", Text: "#c0c0c0"},
}

// FontFamilies lists the named font stacks a reader can choose.
var FontFamilies = []string{"Charter", "Georgia", "Inter", "Helvetica", "Dyslexic", "Monospace"}

// Settings ranges.
const (
	MinFontSize   = 12
	MaxFontSize   = 28
	MinLineHeight = 1.0
	MaxLineHeight = 2.0
	MinMargins    = 10
	MaxMargins    = 80
	MinTextWidth  = 20
	MaxTextWidth  = 120
)

// ReaderSettings is the process-wide reading configuration.
type ReaderSettings struct {
	FontSize         int     `json:"fontSize"`
	FontFamily       string  `json:"fontFamily"`
	LineHeight       float64 `json:"lineHeight"`
	TextWidth        int     `json:"textWidth"`
	Theme            string  `json:"theme"`
	ReadingMode      string  `json:"readingMode"`
	BackgroundColor  string  `json:"backgroundColor"`
	TextColor        string  `json:"textColor"`
	Margins          int     `json:"margins"`
	ParagraphSpacing int     `json:"paragraphSpacing"`
	TextAlign        string  `json:"textAlign"`
}

// DefaultReaderSettings returns the settings used before any change is made.
func DefaultReaderSettings() ReaderSettings {
	return ReaderSettings{
		FontSize:         18,
		FontFamily:       "Charter",
		LineHeight:       1.6,
		TextWidth:        65,
		Theme:            ThemeLight,
		ReadingMode:      ReadingModePaged,
		BackgroundColor:  Themes[ThemeLight].Background,
		TextColor:        Themes[ThemeLight].Text,
		Margins:          40,
		ParagraphSpacing: 16,
		TextAlign:        TextAlignLeft,
	}
}

func IsFontFamily(name string) bool {
	for _, f := range FontFamilies {
		if f == name {
			return true
		}
	}
	return false
}

func IsReadingMode(mode string) bool {
	return mode == ReadingModePaged || mode == ReadingModeScroll
}

func IsTextAlign(align string) bool {
	return align == TextAlignLeft || align == TextAlignCenter || align == TextAlignJustified
}
