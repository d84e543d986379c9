package models

import (
	"strconv"
	"strings"
)

const missing = "—"

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// DescribeSet renders a one-line summary of a set for modality m, e.g.
// "8 reps @ 60 kg (RPE 8)", "1:30 (2.5km)" or "5km in 25:00".
func DescribeSet(m Modality, s Set) string {
	var b strings.Builder
	switch m.OrDefault() {
	case ModalityTime:
		if s.DurationMs != nil && *s.DurationMs > 0 {
			b.WriteString(FormatDuration(*s.DurationMs))
		} else {
			b.WriteString(missing)
		}
		if s.DistanceM != nil && *s.DistanceM > 0 {
			b.WriteString(" (" + formatFloat(*s.DistanceM) + "km)")
		}
	case ModalityDistance:
		if s.DistanceM != nil && *s.DistanceM > 0 {
			b.WriteString(formatFloat(*s.DistanceM) + "km")
		} else {
			b.WriteString(missing)
		}
		if s.DurationMs != nil && *s.DurationMs > 0 {
			b.WriteString(" in " + FormatDuration(*s.DurationMs))
		}
	default:
		b.WriteString(strconv.Itoa(s.Reps) + " reps")
		if s.Weight != nil && *s.Weight > 0 {
			b.WriteString(" @ " + formatFloat(*s.Weight) + " kg")
		}
		if s.AdditionalWeight != nil && *s.AdditionalWeight > 0 {
			sign := "+"
			if m == ModalityAssisted {
				sign = "-"
			}
			b.WriteString(" (" + sign + formatFloat(*s.AdditionalWeight) + " kg)")
		}
	}
	if s.RPE != nil {
		b.WriteString(" (RPE " + strconv.Itoa(*s.RPE) + ")")
	}
	if s.IsWarmup {
		b.WriteString(" [Warm-up]")
	}
	if s.IsDropset {
		b.WriteString(" [Drop set]")
	}
	if s.IsFailure {
		b.WriteString(" [Failure]")
	}
	return b.String()
}

// DescribeExercise renders "Name — set, set, ...".
func DescribeExercise(e Exercise) string {
	parts := make([]string, len(e.Sets))
	for i, s := range e.Sets {
		parts[i] = DescribeSet(e.Modality, s)
	}
	return e.Name + " — " + strings.Join(parts, ", ")
}
