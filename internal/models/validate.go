package models

import (
	"fmt"
	"strings"
)

// ValidationError describes one rejected field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ValidationErrors aggregates every field problem found in one value.
type ValidationErrors []*ValidationError

func (es ValidationErrors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (es *ValidationErrors) add(field, format string, args ...any) {
	*es = append(*es, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// errOrNil keeps a nil ValidationErrors from becoming a non-nil error.
func (es ValidationErrors) errOrNil() error {
	if len(es) == 0 {
		return nil
	}
	return es
}

// CheckPrimaryMetric returns the field modality m requires and whether s
// carries a usable value for it.
func CheckPrimaryMetric(m Modality, s Set) (field string, ok bool) {
	switch m.OrDefault() {
	case ModalityWeightReps, ModalityBodyweight, ModalityAssisted:
		return "reps", s.Reps > 0
	case ModalityTime:
		return "durationMs", s.DurationMs != nil && *s.DurationMs > 0
	case ModalityDistance:
		return "distanceM", s.DistanceM != nil && *s.DistanceM > 0
	}
	return "modality", false
}

func (s Set) validate(m Modality, prefix string, errs *ValidationErrors) {
	if field, ok := CheckPrimaryMetric(m, s); !ok {
		if field == "modality" {
			errs.add(prefix+field, "unknown modality %d", int(m))
		} else {
			errs.add(prefix+field, "required for %s", m)
		}
	}
	if s.Reps < 0 {
		errs.add(prefix+"reps", "must not be negative")
	}
	if s.Weight != nil && *s.Weight < 0 {
		errs.add(prefix+"weight", "must not be negative")
	}
	if s.RPE != nil && (*s.RPE < 1 || *s.RPE > 10) {
		errs.add(prefix+"rpe", "must be between 1 and 10")
	}
	if s.DurationMs != nil && *s.DurationMs < 0 {
		errs.add(prefix+"durationMs", "must not be negative")
	}
	if s.DistanceM != nil && *s.DistanceM < 0 {
		errs.add(prefix+"distanceM", "must not be negative")
	}
	if s.AdditionalWeight != nil && *s.AdditionalWeight < 0 {
		errs.add(prefix+"additionalWeight", "must not be negative")
	}
	if s.RestSeconds != nil && *s.RestSeconds < 0 {
		errs.add(prefix+"restSeconds", "must not be negative")
	}
}

// Validate checks a set against the rules of modality m.
func (s Set) Validate(m Modality) error {
	var errs ValidationErrors
	s.validate(m, "", &errs)
	return errs.errOrNil()
}

func (e Exercise) validate(prefix string, errs *ValidationErrors) {
	if strings.TrimSpace(e.Name) == "" {
		errs.add(prefix+"name", "must not be empty")
	}
	if e.Modality != 0 && !e.Modality.Valid() {
		errs.add(prefix+"modality", "unknown modality %d", int(e.Modality))
		return
	}
	if len(e.Sets) == 0 {
		errs.add(prefix+"sets", "at least one set is required")
	}
	for i, s := range e.Sets {
		s.validate(e.Modality, fmt.Sprintf("%ssets[%d].", prefix, i), errs)
	}
}

// Validate checks the exercise name, modality and every set.
func (e Exercise) Validate() error {
	var errs ValidationErrors
	e.validate("", &errs)
	return errs.errOrNil()
}

// Validate checks a workout as submitted for creation: at least one
// exercise, each of which must be valid.
func (w Workout) Validate() error {
	var errs ValidationErrors
	if len(w.Exercises) == 0 {
		errs.add("exercises", "at least one exercise is required")
	}
	for i, ex := range w.Exercises {
		ex.validate(fmt.Sprintf("exercises[%d].", i), &errs)
	}
	return errs.errOrNil()
}
