package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Modality is the measurement style of an exercise. It decides which set
// field is the mandatory primary metric.
type Modality int

const (
	ModalityWeightReps Modality = 1
	ModalityTime       Modality = 2
	ModalityDistance   Modality = 3
	ModalityBodyweight Modality = 4
	ModalityAssisted   Modality = 5
)

// Valid reports whether m is one of the known modalities.
func (m Modality) Valid() bool {
	return m >= ModalityWeightReps && m <= ModalityAssisted
}

// OrDefault returns WeightReps for an unset modality.
func (m Modality) OrDefault() Modality {
	if m == 0 {
		return ModalityWeightReps
	}
	return m
}

// RepBased reports whether reps are the primary metric.
func (m Modality) RepBased() bool {
	switch m.OrDefault() {
	case ModalityWeightReps, ModalityBodyweight, ModalityAssisted:
		return true
	}
	return false
}

// UsesAdditionalWeight reports whether additionalWeight is meaningful.
func (m Modality) UsesAdditionalWeight() bool {
	m = m.OrDefault()
	return m == ModalityBodyweight || m == ModalityAssisted
}

func (m Modality) String() string {
	switch m.OrDefault() {
	case ModalityWeightReps:
		return "Weight × Reps"
	case ModalityTime:
		return "Time-based"
	case ModalityDistance:
		return "Distance-based"
	case ModalityBodyweight:
		return "Bodyweight"
	case ModalityAssisted:
		return "Assisted"
	}
	return fmt.Sprintf("Modality(%d)", int(m))
}

// ParseModality accepts a short name ("weight", "time", "distance",
// "bodyweight", "assisted") or the numeric wire value.
func ParseModality(s string) (Modality, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "weight", "weightreps", "reps", "weight-reps":
		return ModalityWeightReps, nil
	case "time", "timed":
		return ModalityTime, nil
	case "distance":
		return ModalityDistance, nil
	case "bodyweight", "bw":
		return ModalityBodyweight, nil
	case "assisted":
		return ModalityAssisted, nil
	}
	if n, err := strconv.Atoi(s); err == nil && Modality(n).Valid() {
		return Modality(n), nil
	}
	return 0, fmt.Errorf("unknown modality %q", s)
}
