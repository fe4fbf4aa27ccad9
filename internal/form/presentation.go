// internal/form/presentation.go
package form

import (
	"fmt"
	"strconv"

	"career-advisor/internal/models"
)

const TopLabel = "Top Recommendation"

// RankedPrediction is a prediction prepared for display.
type RankedPrediction struct {
	Rank            int     `json:"rank"`
	Label           string  `json:"label"`
	Career          string  `json:"career"`
	Probability     float64 `json:"probability"`
	ProbabilityText string  `json:"probability_text"`
	Top             bool    `json:"top"`
}

// Rank labels predictions in the order the service returned them.
func Rank(predictions []models.Prediction) []RankedPrediction {
	out := make([]RankedPrediction, 0, len(predictions))
	for i, p := range predictions {
		rank := i + 1
		label := TopLabel
		if i > 0 {
			label = fmt.Sprintf("Alternative Option %d", rank)
		}
		out = append(out, RankedPrediction{
			Rank:            rank,
			Label:           label,
			Career:          p.Career,
			Probability:     p.Probability,
			ProbabilityText: FormatProbability(p.Probability),
			Top:             i == 0,
		})
	}
	return out
}

// FormatProbability renders a percentage in its shortest decimal form.
func FormatProbability(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64) + "%"
}
