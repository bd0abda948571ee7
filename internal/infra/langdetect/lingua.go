package langdetect

import (
	"fmt"
	"strings"

	"github.com/pemistahl/lingua-go"
)

// Detector wraps lingua's statistical language detector and reports
// ISO 639-1 codes matching the synthesis backend's expectations.
type Detector struct {
	detector lingua.LanguageDetector
}

func New() *Detector {
	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			Build(),
	}
}

// Detect returns the lowercase ISO 639-1 code of the most likely
// language, or an error when the input is too ambiguous to classify.
func (d *Detector) Detect(text string) (string, error) {
	language, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", fmt.Errorf("no reliable language match")
	}
	return strings.ToLower(language.IsoCode639_1().String()), nil
}
