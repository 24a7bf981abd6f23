package ocr

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// enhance writes a grayscale, contrast-boosted and sharpened copy of a page
// image next to the original and returns its path.
func enhance(imagePath string) (string, error) {
	src, err := imaging.Open(imagePath)
	if err != nil {
		return "", fmt.Errorf("opening page image: %w", err)
	}

	img := imaging.Grayscale(src)
	img = imaging.AdjustContrast(img, 30)
	img = imaging.Sharpen(img, 1.5)

	out := strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + "-enhanced.png"
	if err := imaging.Save(img, out); err != nil {
		return "", fmt.Errorf("saving enhanced image: %w", err)
	}
	return out, nil
}
