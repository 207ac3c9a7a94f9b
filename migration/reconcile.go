package migration

import (
	"context"
	"fmt"

	"bitbucket.org/mmdatafocus/portal_backend/utils"
	"github.com/go-playground/validator/v10"
)

// Family describes how one entity family moves from the legacy store to the new store.
//
// S is the legacy record, P the parent's natural key and K the record's own natural key.
// K may embed the parent's new-store id (budgets are keyed by (account_id, fiscal_year)), which
// is why Key receives the resolved parent id.
type Family[S any, P comparable, K comparable] struct {
	Name string

	// Load reads every source record of the family from the legacy store.
	Load func(ctx context.Context) ([]S, error)

	// Describe names a record in progress output.
	Describe func(rec S) string

	// ParentKey and ResolveParents are nil for families without a foreign reference.
	// ParentKey reports false when the legacy row references nothing.
	ParentKey      func(rec S) (P, bool)
	ResolveParents func(ctx context.Context, keys []P) (map[P]int, error)

	Key            func(rec S, parentID int) K
	LookupExisting func(ctx context.Context, keys []K) (map[K]int, error)

	// Insert writes one record, combining the resolved parent id with the record's own fields,
	// and returns the new-store id.
	Insert func(ctx context.Context, rec S, parentID int) (int, error)
}

func (f Family[S, P, K]) hasParent() bool {
	return f.ParentKey != nil && f.ResolveParents != nil
}

type Outcome string

const (
	OutcomeInserted             Outcome = "inserted"
	OutcomeSkippedExisting      Outcome = "skipped (already migrated)"
	OutcomeSkippedMissingParent Outcome = "skipped (parent not migrated)"
	OutcomeRejected             Outcome = "rejected"
)

// Event is one record's outcome.
type Event struct {
	Family  string
	Record  string
	Outcome Outcome
	ID      int
	Detail  string
}

type Options struct {
	// Validator checks each record's `validate` tags before anything touches the new store.
	Validator *validator.Validate
	// Progress receives one event per source record, in source order.
	Progress func(Event)
}

// Result holds the counts of one family run. It is returned with partial counts on failure.
type Result struct {
	Family               string `json:"family"`
	Read                 int    `json:"read"`
	Inserted             int    `json:"inserted"`
	SkippedExisting      int    `json:"skipped_existing"`
	SkippedMissingParent int    `json:"skipped_missing_parent"`
	Rejected             int    `json:"rejected"`
}

// Skipped is every record that was deliberately not inserted.
func (r Result) Skipped() int {
	return r.SkippedExisting + r.SkippedMissingParent
}

// Migrate reconciles records into the new store: a record is inserted only when its parent
// resolves and its natural key is not already present. Running it again over the same source
// inserts nothing.
//
// Parent and own keys are resolved with one bulk lookup each before the insert loop. Keys
// inserted during the run are remembered, so duplicate keys inside one source set are skipped
// too. Any store error stops the family; rows inserted so far stay committed and the counts
// so far are returned with the error.
func Migrate[S any, P comparable, K comparable](ctx context.Context, f Family[S, P, K], records []S, opts Options) (Result, error) {
	res := Result{Family: f.Name, Read: len(records)}
	emit := func(rec S, outcome Outcome, id int, detail string) {
		if opts.Progress == nil {
			return
		}
		name := ""
		if f.Describe != nil {
			name = f.Describe(rec)
		}
		opts.Progress(Event{Family: f.Name, Record: name, Outcome: outcome, ID: id, Detail: detail})
	}

	valid := make([]S, 0, len(records))
	for _, rec := range records {
		if opts.Validator != nil {
			if err := opts.Validator.Struct(rec); err != nil {
				res.Rejected++
				emit(rec, OutcomeRejected, 0, fmt.Sprint(utils.ProcessValidationErrors(err)))
				continue
			}
		}
		valid = append(valid, rec)
	}

	parentIDs := make([]int, len(valid))
	resolved := make([]bool, len(valid))
	if f.hasParent() {
		parentKeys := make([]P, len(valid))
		referenced := make([]bool, len(valid))
		var lookup []P
		for i, rec := range valid {
			if pk, ok := f.ParentKey(rec); ok {
				parentKeys[i] = pk
				referenced[i] = true
				lookup = append(lookup, pk)
			}
		}
		ids := map[P]int{}
		if len(lookup) > 0 {
			var err error
			ids, err = f.ResolveParents(ctx, utils.UniqueSlice(lookup))
			if err != nil {
				return res, newFamilyError(f.Name, TargetStore, "parent lookup", err)
			}
		}
		for i := range valid {
			if !referenced[i] {
				continue
			}
			if id, ok := ids[parentKeys[i]]; ok {
				parentIDs[i] = id
				resolved[i] = true
			}
		}
	} else {
		for i := range resolved {
			resolved[i] = true
		}
	}

	keys := make([]K, len(valid))
	var lookup []K
	for i, rec := range valid {
		if !resolved[i] {
			continue
		}
		keys[i] = f.Key(rec, parentIDs[i])
		lookup = append(lookup, keys[i])
	}
	existing := map[K]int{}
	if len(lookup) > 0 {
		var err error
		existing, err = f.LookupExisting(ctx, utils.UniqueSlice(lookup))
		if err != nil {
			return res, newFamilyError(f.Name, TargetStore, "existence lookup", err)
		}
		if existing == nil {
			existing = map[K]int{}
		}
	}

	for i, rec := range valid {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("%s: %w", f.Name, err)
		}
		if !resolved[i] {
			res.SkippedMissingParent++
			emit(rec, OutcomeSkippedMissingParent, 0, "")
			continue
		}
		if id, ok := existing[keys[i]]; ok {
			res.SkippedExisting++
			emit(rec, OutcomeSkippedExisting, id, "")
			continue
		}
		id, err := f.Insert(ctx, rec, parentIDs[i])
		if err != nil {
			return res, newFamilyError(f.Name, TargetStore, "insert", err)
		}
		existing[keys[i]] = id
		res.Inserted++
		emit(rec, OutcomeInserted, id, "")
	}
	return res, nil
}
