package alpha

import (
	"math"

	"github.com/claude/yeabuddy/internal/models"
)

// rirToRPE maps reps-in-reserve onto the 1-10 RPE scale.
func rirToRPE(rir float64) int {
	rpe := int(math.Round(10 - rir))
	return min(max(rpe, 1), 10)
}

// ToWorkouts converts parsed sessions into workouts ready for creation.
// Sets without reps are dropped, as are exercises and sessions left empty.
// The second return value counts dropped sets.
func ToWorkouts(sessions []Session) ([]models.Workout, int) {
	var out []models.Workout
	skipped := 0
	for _, s := range sessions {
		w := models.Workout{Name: s.Name, Date: s.Date}
		for _, ex := range s.Exercises {
			e, dropped := toExercise(ex)
			skipped += dropped
			if len(e.Sets) > 0 {
				w.Exercises = append(w.Exercises, e)
			}
		}
		if len(w.Exercises) > 0 {
			out = append(out, w)
		}
	}
	return out, skipped
}

func toExercise(ex Exercise) (models.Exercise, int) {
	e := models.Exercise{Name: ex.Name, Modality: models.ModalityWeightReps}
	for _, set := range ex.Sets {
		if set.BodyweightPlus {
			e.Modality = models.ModalityBodyweight
			break
		}
	}

	dropped := 0
	for _, set := range ex.Sets {
		if set.Reps <= 0 {
			dropped++
			continue
		}
		ms := models.Set{Reps: set.Reps, IsWarmup: set.Warmup}
		switch {
		case set.BodyweightPlus:
			ms.IsBodyweight = true
			if set.WeightKg > 0 {
				ms.AdditionalWeight = models.Ptr(set.WeightKg)
			}
		case set.WeightKg > 0:
			ms.Weight = models.Ptr(set.WeightKg)
		}
		if !set.Warmup {
			ms.RPE = models.Ptr(rirToRPE(set.RIR))
			ms.IsFailure = set.RIR == 0
		}
		e.Sets = append(e.Sets, ms)
	}
	return e, dropped
}
