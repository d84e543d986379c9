package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/claude/yeabuddy/internal/models"
	"github.com/claude/yeabuddy/internal/session"
)

var (
	boldGreen = color.New(color.FgGreen, color.Bold).SprintFunc()
	cyan      = color.New(color.FgCyan).SprintFunc()
	yellow    = color.New(color.FgYellow).SprintFunc()
	red       = color.New(color.FgRed).SprintFunc()
	faint     = color.New(color.Faint).SprintFunc()
)

const dateLayout = "Mon 2006-01-02 15:04"

func setCount(w models.Workout) int {
	n := 0
	for _, ex := range w.Exercises {
		n += len(ex.Sets)
	}
	return n
}

func displayName(w models.Workout) string {
	if w.Name == "" {
		return "Workout"
	}
	return w.Name
}

// printWorkoutList writes one line per workout.
func printWorkoutList(out io.Writer, workouts []models.Workout) {
	if len(workouts) == 0 {
		fmt.Fprintln(out, faint("No workouts logged yet."))
		return
	}
	for _, w := range workouts {
		fmt.Fprintf(out, "%s  %s  %s %s\n",
			faint(w.ID),
			cyan(w.Date.Local().Format(dateLayout)),
			boldGreen(displayName(w)),
			faint(fmt.Sprintf("(%d exercises, %d sets)", len(w.Exercises), setCount(w))),
		)
	}
}

// printWorkout writes a workout with every set.
func printWorkout(out io.Writer, w models.Workout) {
	fmt.Fprintf(out, "%s\n", boldGreen(displayName(w)))
	fmt.Fprintf(out, "%s %s\n", cyan("Date:"), w.Date.Local().Format(dateLayout))
	fmt.Fprintf(out, "%s %s\n\n", cyan("ID:"), w.ID)
	for i, ex := range w.Exercises {
		printExercise(out, i+1, ex, nil)
	}
}

// printExercise writes a numbered exercise. done, when set, marks finished sets.
func printExercise(out io.Writer, number int, ex models.Exercise, done func(int) bool) {
	fmt.Fprintf(out, "%d. %s %s\n", number, cyan(ex.Name), faint("["+ex.Modality.OrDefault().String()+"]"))
	for i, s := range ex.Sets {
		mark := " "
		if done != nil && done(i) {
			mark = boldGreen("✓")
		}
		line := fmt.Sprintf("   %s %d. %s", mark, i+1, models.DescribeSet(ex.Modality, s))
		if s.Notes != "" {
			line += " " + faint("— "+s.Notes)
		}
		fmt.Fprintln(out, line)
	}
}

// printSession writes the workout in progress: committed exercises, the
// exercise being entered and the staged set.
func printSession(out io.Writer, s *session.Session) {
	if s.State() == session.NotStarted {
		fmt.Fprintln(out, faint("No workout in progress. Type 'start' to begin."))
		return
	}
	name := s.Name()
	if name == "" {
		name = "Workout"
	}
	fmt.Fprintf(out, "%s %s\n", boldGreen(name), faint("("+s.State().String()+")"))

	exercises := s.Exercises()
	for i, ex := range exercises {
		printExercise(out, i+1, ex, nil)
	}

	b := s.Builder()
	current := models.Exercise{Name: b.Name, Modality: b.Modality, Sets: b.Sets()}
	if current.Name == "" {
		current.Name = "(unnamed)"
	}
	fmt.Fprintln(out, yellow("Current exercise:"))
	printExercise(out, len(exercises)+1, current, b.IsDone)
	fmt.Fprintf(out, "   %s %s\n", faint("next:"), describeStaged(b))

	if left, ok := s.RestRemaining(); ok {
		fmt.Fprintf(out, "%s %s\n", red("Rest:"), models.FormatRest(left))
	}
}

// describeStaged renders the staged entry fields, showing what is missing.
func describeStaged(b *session.Builder) string {
	set, err := b.StagedSet()
	if err != nil {
		return red(strings.TrimPrefix(err.Error(), "validation failed: "))
	}
	return models.DescribeSet(b.Modality, set)
}
