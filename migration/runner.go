package migration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"bitbucket.org/mmdatafocus/portal_backend/config"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("portal-migrate")

// dependsOn is the foreign-reference graph between families.
var dependsOn = map[string]string{
	FamilyDailyReports: FamilyUsers,
	FamilyAssessments:  FamilyUsers,
	FamilyActivities:   FamilyPrograms,
	FamilyAccounts:     FamilyActivities,
	FamilyBudgets:      FamilyAccounts,
	FamilyRealizations: FamilyBudgets,
}

// Locker serialises runs. config.RedisRunLock implements it.
type Locker interface {
	Acquire(ctx context.Context) (release func(context.Context) error, err error)
}

// Runner migrates families one after another. It must be the only writer to the new store
// while it runs.
type Runner struct {
	Steps     []Step
	Logger    *logrus.Logger
	Out       io.Writer
	Lock      Locker
	Only      []string
	Validator *validator.Validate
	RunID     string
	// Tracer gets one span per family; the global provider's tracer when nil.
	Tracer trace.Tracer
}

type FamilyReport struct {
	Result
	Err     error
	Kind    ErrorKind
	Elapsed time.Duration
	NotRun  bool
}

type Report struct {
	RunID    string
	Families []FamilyReport
	// Aborted is set when the whole run stopped early: lock held, connection lost, cancelled.
	Aborted error
}

func (r Report) Failed() bool {
	if r.Aborted != nil {
		return true
	}
	for _, f := range r.Families {
		if f.Err != nil {
			return true
		}
	}
	return false
}

func (r Report) Totals() Result {
	var t Result
	for _, f := range r.Families {
		t.Read += f.Read
		t.Inserted += f.Inserted
		t.SkippedExisting += f.SkippedExisting
		t.SkippedMissingParent += f.SkippedMissingParent
		t.Rejected += f.Rejected
	}
	return t
}

func (r *Runner) out() io.Writer {
	if r.Out == nil {
		return io.Discard
	}
	return r.Out
}

func (r *Runner) selected() ([]Step, error) {
	if len(r.Only) == 0 {
		return r.Steps, nil
	}
	want := make(map[string]bool, len(r.Only))
	for _, name := range r.Only {
		want[strings.ToLower(strings.TrimSpace(name))] = true
	}
	var steps []Step
	for _, s := range r.Steps {
		if want[s.Name()] {
			steps = append(steps, s)
			delete(want, s.Name())
		}
	}
	if len(want) > 0 {
		var unknown []string
		for name := range want {
			unknown = append(unknown, name)
		}
		return nil, fmt.Errorf("unknown families: %s (known: %s)", strings.Join(unknown, ", "), strings.Join(Order, ", "))
	}
	return steps, nil
}

// Run never returns an error: failures are logged, printed and recorded in the report.
func (r *Runner) Run(ctx context.Context) Report {
	if r.RunID == "" {
		r.RunID = uuid.NewString()
	}
	if r.Logger == nil {
		r.Logger = logrus.New()
		r.Logger.SetOutput(io.Discard)
	}
	if r.Tracer == nil {
		r.Tracer = tracer
	}
	logger := r.Logger.WithField("run_id", r.RunID)
	out := r.out()
	report := Report{RunID: r.RunID}

	steps, err := r.selected()
	if err != nil {
		report.Aborted = err
		logger.WithError(err).Error("invalid family selection")
		fmt.Fprintf(out, "migration not started: %v\n", err)
		return report
	}

	if r.Lock != nil {
		release, err := r.Lock.Acquire(ctx)
		if err != nil {
			report.Aborted = err
			logger.WithError(err).Error("could not obtain migration lock")
			if errors.Is(err, config.ErrLockHeld) {
				fmt.Fprintln(out, "migration not started: another run is in progress; wait for it to finish")
			} else {
				fmt.Fprintf(out, "migration not started: %v\n", err)
			}
			return report
		}
		defer func() {
			if err := release(context.Background()); err != nil {
				logger.WithError(err).Warn("failed to release migration lock")
			}
		}()
	}

	ran := make(map[string]bool, len(steps))
	for i, step := range steps {
		name := step.Name()
		if parent, ok := dependsOn[name]; ok && !ran[parent] && len(r.Only) > 0 {
			fmt.Fprintf(out, "warning: %s depends on %s, which is not part of this run; rows whose parent was never migrated will be skipped\n", name, parent)
		}
		ran[name] = true

		fmt.Fprintf(out, "== %s ==\n", name)
		start := time.Now()
		spanCtx, span := r.Tracer.Start(ctx, "migrate "+name, trace.WithAttributes(
			attribute.String("migration.run_id", r.RunID),
			attribute.String("migration.family", name),
		))
		res, err := step.Run(spanCtx, Options{Validator: r.Validator, Progress: r.progress})
		span.SetAttributes(
			attribute.Int("migration.read", res.Read),
			attribute.Int("migration.inserted", res.Inserted),
			attribute.Int("migration.skipped", res.Skipped()),
			attribute.Int("migration.rejected", res.Rejected),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, string(KindOf(err)))
		}
		span.End()
		fr := FamilyReport{Result: res, Err: err, Elapsed: time.Since(start)}
		fr.Family = name

		if err != nil {
			fr.Kind = KindOf(err)
			config.LogError(r.Logger, "migration", "Run", "family aborted", map[string]any{
				"run_id":   r.RunID,
				"family":   name,
				"kind":     fr.Kind,
				"inserted": res.Inserted,
				"skipped":  res.Skipped(),
			}, err)
			fmt.Fprintf(out, "%s aborted after %d inserted, %d skipped: %v\n", name, res.Inserted, res.Skipped(), err)
			if fr.Kind != "" {
				fmt.Fprintf(out, "hint: %s\n", fr.Kind.Hint())
			}
		} else {
			logger.WithFields(logrus.Fields{
				"family":                 name,
				"read":                   res.Read,
				"inserted":               res.Inserted,
				"skipped_existing":       res.SkippedExisting,
				"skipped_missing_parent": res.SkippedMissingParent,
				"rejected":               res.Rejected,
				"elapsed_ms":             fr.Elapsed.Milliseconds(),
			}).Info("family migrated")
			fmt.Fprintf(out, "%s: %d inserted, %d skipped, %d rejected\n", name, res.Inserted, res.Skipped(), res.Rejected)
		}
		report.Families = append(report.Families, fr)

		// A lost connection or cancellation makes every later family fail the same way.
		if err != nil && (fr.Kind == ConnectionFailure || fr.Kind == "") {
			report.Aborted = err
			for _, rest := range steps[i+1:] {
				report.Families = append(report.Families, FamilyReport{Result: Result{Family: rest.Name()}, NotRun: true})
			}
			break
		}
	}

	PrintSummary(out, report)
	return report
}

func (r *Runner) progress(e Event) {
	line := fmt.Sprintf("  [%s] %s: %s", e.Family, e.Record, e.Outcome)
	if e.ID > 0 {
		line += fmt.Sprintf(" (id=%d)", e.ID)
	}
	if e.Detail != "" {
		line += " " + e.Detail
	}
	fmt.Fprintln(r.out(), line)
	if e.Outcome == OutcomeRejected {
		r.Logger.WithFields(logrus.Fields{
			"run_id": r.RunID,
			"family": e.Family,
			"record": e.Record,
			"errors": e.Detail,
		}).Warn("legacy row rejected")
	}
}

// PrintSummary writes the per-family table.
func PrintSummary(w io.Writer, report Report) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FAMILY\tREAD\tINSERTED\tEXISTING\tNO PARENT\tREJECTED\tSTATUS")
	for _, f := range report.Families {
		status := "ok"
		switch {
		case f.NotRun:
			status = "not run"
		case f.Err != nil:
			status = "aborted (" + string(f.Kind) + ")"
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
			f.Family, f.Read, f.Inserted, f.SkippedExisting, f.SkippedMissingParent, f.Rejected, status)
	}
	t := report.Totals()
	fmt.Fprintf(tw, "TOTAL\t%d\t%d\t%d\t%d\t%d\t\n", t.Read, t.Inserted, t.SkippedExisting, t.SkippedMissingParent, t.Rejected)
	_ = tw.Flush()
	fmt.Fprintf(w, "run %s finished", report.RunID)
	if report.Failed() {
		fmt.Fprint(w, " with errors")
	}
	fmt.Fprintln(w)
}
