package prediction

import (
	"fmt"
	"strings"

	"github.com/prestontjones/GravitySim/parameter"
)

// Quality selects the prediction horizon in steps
type Quality int32

const (
	QualityHigh Quality = iota
	QualityMedium
	QualityLow
)

func (q Quality) String() string {
	switch q {
	case QualityHigh:
		return "high"
	case QualityMedium:
		return "medium"
	case QualityLow:
		return "low"
	default:
		return fmt.Sprintf("quality(%d)", int32(q))
	}
}

// Steps returns the number of forward steps simulated per cycle
func (q Quality) Steps() int {
	switch q {
	case QualityMedium:
		return parameter.PredictionStepsMedium
	case QualityLow:
		return parameter.PredictionStepsLow
	default:
		return parameter.PredictionStepsHigh
	}
}

// Next cycles high -> medium -> low -> high
func (q Quality) Next() Quality {
	return (q + 1) % 3
}

// ParseQuality accepts high, medium or low, case-insensitive
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return QualityHigh, nil
	case "medium":
		return QualityMedium, nil
	case "low":
		return QualityLow, nil
	default:
		return 0, fmt.Errorf("unknown prediction quality %q", s)
	}
}
