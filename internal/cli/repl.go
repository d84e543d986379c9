package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/claude/yeabuddy/internal/models"
	"github.com/claude/yeabuddy/internal/session"
)

const replHelp = `Workout:
  start [name]        begin a workout (discards one in progress)
  name <text>         set the workout name
  status              show the workout in progress
  finish              save the workout to the server
  cancel              discard the workout
  history             reload and list saved workouts
Exercise:
  exercise <name>     name the exercise being entered
  modality <kind>     weight, time, distance, bodyweight or assisted
  next                commit the exercise and start a new one
  drop <n>            remove committed exercise n
Set entry:
  reps <n>  weight <kg>  time <m:ss>  distance <km>  rpe <1-10>
  extra <kg>          additional (bodyweight) or assistance (assisted) load
  notes <text>
  warmup | dropset | failure    toggle a flag
  + | -               change the staged weight by the weight step
  set                 record the staged set
  copy                stage a copy of the last set
Recorded sets:
  rm <n>  done <n>  move <n> <pos>  fix <n> <reps>
Rest timer:
  rest [seconds|off]  show, start or stop the rest timer
  help | quit`

// syncWriter serialises writes from the prompt loop and the rest timer.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// REPL drives a session from text commands.
type REPL struct {
	sess *session.Session
	out  io.Writer
	step float64
}

// NewREPL returns a REPL over sess writing to out.
func NewREPL(sess *session.Session, out io.Writer, weightStep float64) *REPL {
	return &REPL{sess: sess, out: out, step: weightStep}
}

// Run reads commands from in until EOF or quit.
func (r *REPL) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(r.out, faint("Type 'help' for commands."))
	for {
		fmt.Fprint(r.out, "> ")
		if !scanner.Scan() {
			break
		}
		quit, err := r.Execute(ctx, scanner.Text())
		if err != nil {
			fmt.Fprintln(r.out, red("error:"), err)
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

func argInt(args []string, i int, what string) (int, error) {
	if len(args) <= i {
		return 0, fmt.Errorf("%s is required", what)
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number", what)
	}
	return n, nil
}

func argFloat(args []string, what string) (float64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s is required", what)
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(args[0], ",", "."), 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("%s must be a non-negative number", what)
	}
	return f, nil
}

// Execute runs one command line. It reports true when the user quits.
func (r *REPL) Execute(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))
	b := r.sess.Builder()

	switch cmd {
	case "help", "?":
		fmt.Fprintln(r.out, replHelp)

	case "quit", "exit":
		if r.sess.State() == session.InProgress {
			fmt.Fprintln(r.out, yellow("Workout in progress discarded."))
		}
		return true, r.sess.Cancel()

	case "start":
		if err := r.sess.Start(); err != nil {
			return false, err
		}
		r.sess.SetName(rest)
		fmt.Fprintln(r.out, boldGreen("Workout started."))

	case "name":
		r.sess.SetName(rest)

	case "status", "ls":
		printSession(r.out, r.sess)

	case "finish":
		w, err := r.sess.Finish(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(r.out, "%s %s (%s)\n", boldGreen("Saved"), displayName(*w), w.ID)

	case "cancel":
		if err := r.sess.Cancel(); err != nil {
			return false, err
		}
		fmt.Fprintln(r.out, yellow("Workout discarded."))

	case "history":
		if err := r.sess.Refresh(ctx); err != nil {
			return false, err
		}
		printWorkoutList(r.out, r.sess.Workouts())

	case "exercise", "ex":
		if rest == "" {
			return false, errors.New("exercise name is required")
		}
		b.Name = rest

	case "modality", "mode":
		m, err := models.ParseModality(rest)
		if err != nil {
			return false, err
		}
		if b.Len() > 0 && m != b.Modality.OrDefault() {
			return false, errors.New("modality cannot change once sets are recorded")
		}
		b.Modality = m

	case "next":
		ex, err := r.sess.CommitExercise()
		if err != nil {
			return false, err
		}
		fmt.Fprintln(r.out, models.DescribeExercise(ex))

	case "drop":
		n, err := argInt(args, 0, "exercise number")
		if err != nil {
			return false, err
		}
		return false, r.sess.RemoveExercise(n - 1)

	case "reps":
		n, err := argInt(args, 0, "reps")
		if err != nil {
			return false, err
		}
		b.Staged.Reps = n

	case "weight", "kg":
		f, err := argFloat(args, "weight")
		if err != nil {
			return false, err
		}
		b.Staged.Weight = f

	case "time":
		if len(args) == 0 {
			return false, errors.New("time is required (m:ss)")
		}
		if _, ok := models.ParseDuration(args[0]); !ok {
			return false, fmt.Errorf("time %q is not m:ss", args[0])
		}
		b.Staged.Duration = args[0]

	case "distance", "km":
		f, err := argFloat(args, "distance")
		if err != nil {
			return false, err
		}
		b.Staged.Distance = f

	case "rpe":
		n, err := argInt(args, 0, "rpe")
		if err != nil {
			return false, err
		}
		if n < 1 || n > 10 {
			return false, errors.New("rpe must be between 1 and 10")
		}
		b.Staged.RPE = n

	case "extra":
		f, err := argFloat(args, "additional weight")
		if err != nil {
			return false, err
		}
		b.Staged.AdditionalWeight = f

	case "notes":
		b.Staged.Notes = rest

	case "warmup":
		b.Staged.Warmup = !b.Staged.Warmup
	case "dropset":
		b.Staged.Dropset = !b.Staged.Dropset
	case "failure":
		b.Staged.Failure = !b.Staged.Failure

	case "+":
		b.IncrementWeight(r.step)
	case "-":
		b.IncrementWeight(-r.step)

	case "set", "add":
		ok, err := r.sess.RecordSet()
		if err != nil {
			return false, err
		}
		if !ok {
			_, verr := b.StagedSet()
			return false, verr
		}
		sets := b.Sets()
		fmt.Fprintf(r.out, "Set %d: %s\n", len(sets), models.DescribeSet(b.Modality, sets[len(sets)-1]))

	case "copy":
		if !b.CopyPreviousSet() {
			return false, errors.New("no previous set to copy")
		}
		fmt.Fprintf(r.out, "%s %s\n", faint("staged:"), describeStaged(b))

	case "rm":
		n, err := argInt(args, 0, "set number")
		if err != nil {
			return false, err
		}
		return false, b.RemoveSet(n - 1)

	case "done":
		n, err := argInt(args, 0, "set number")
		if err != nil {
			return false, err
		}
		return false, b.ToggleSetDone(n - 1)

	case "move":
		n, err := argInt(args, 0, "set number")
		if err != nil {
			return false, err
		}
		pos, err := argInt(args, 1, "new position")
		if err != nil {
			return false, err
		}
		return false, b.UpdateSetNumber(n-1, pos)

	case "fix":
		n, err := argInt(args, 0, "set number")
		if err != nil {
			return false, err
		}
		reps, err := argInt(args, 1, "reps")
		if err != nil {
			return false, err
		}
		return false, b.UpdateSetReps(n-1, reps)

	case "rest":
		return false, r.rest(args)

	default:
		return false, fmt.Errorf("unknown command %q, type 'help'", cmd)
	}
	return false, nil
}

func (r *REPL) rest(args []string) error {
	t := r.sess.Timer()
	if len(args) == 0 {
		if left, ok := t.Remaining(); ok {
			fmt.Fprintf(r.out, "Rest: %s left\n", models.FormatRest(left))
		} else {
			fmt.Fprintln(r.out, faint("Rest timer idle."))
		}
		return nil
	}
	if args[0] == "off" || args[0] == "stop" {
		t.Pause()
		return nil
	}
	secs, err := argInt(args, 0, "seconds")
	if err != nil {
		return err
	}
	t.Start(secs)
	return nil
}
