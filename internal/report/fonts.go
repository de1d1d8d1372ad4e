package report

import (
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"go.uber.org/zap"
)

// Fonts names the font files used by the PDF and chart renderers.
type Fonts struct {
	// Regular is a path to a TrueType font with the glyphs needed for the
	// catalog text. Empty uses the built-in fallbacks.
	Regular string
}

// loadedFont is the parsed form of Fonts. A nil ttf means the PDF falls
// back to core Helvetica and the chart to Go Regular.
type loadedFont struct {
	ttf    []byte
	parsed *truetype.Font
}

func loadFonts(f Fonts, log *zap.Logger) loadedFont {
	if f.Regular == "" {
		log.Info("no font configured, PDF text limited to Latin-1",
			zap.String("fallback", "Helvetica"))
		return loadedFont{}
	}
	lf, err := readFont(f.Regular)
	if err != nil {
		log.Warn("font unavailable, using built-in fallback",
			zap.String("path", f.Regular), zap.Error(err))
		return loadedFont{}
	}
	return lf
}

func readFont(path string) (loadedFont, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return loadedFont{}, fmt.Errorf("read font: %w", err)
	}
	parsed, err := truetype.Parse(data)
	if err != nil {
		return loadedFont{}, fmt.Errorf("parse TTF: %w", err)
	}
	return loadedFont{ttf: data, parsed: parsed}, nil
}
