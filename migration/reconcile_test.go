package migration

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"bitbucket.org/mmdatafocus/portal_backend/legacy"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type childRecord struct {
	Parent string
	Code   string `validate:"required"`
}

// fakeTarget is an in-memory new store: parents by code, children by (parent id, code).
type fakeTarget struct {
	parents map[string]int
	rows    map[childKey]int
	nextID  int

	resolveCalls int
	lookupCalls  int
	insertCalls  int

	failInsertAt int
	resolveErr   error
}

type childKey struct {
	ParentID int
	Code     string
}

func newFakeTarget(parents ...string) *fakeTarget {
	ft := &fakeTarget{parents: map[string]int{}, rows: map[childKey]int{}, nextID: 100}
	for i, p := range parents {
		ft.parents[p] = i + 1
	}
	return ft
}

func (ft *fakeTarget) family() Family[childRecord, string, childKey] {
	return Family[childRecord, string, childKey]{
		Name:      "children",
		Describe:  func(r childRecord) string { return r.Parent + "/" + r.Code },
		ParentKey: func(r childRecord) (string, bool) { return r.Parent, r.Parent != "" },
		ResolveParents: func(_ context.Context, keys []string) (map[string]int, error) {
			ft.resolveCalls++
			if ft.resolveErr != nil {
				return nil, ft.resolveErr
			}
			out := map[string]int{}
			for _, k := range keys {
				if id, ok := ft.parents[k]; ok {
					out[k] = id
				}
			}
			return out, nil
		},
		Key: func(r childRecord, parentID int) childKey { return childKey{ParentID: parentID, Code: r.Code} },
		LookupExisting: func(_ context.Context, keys []childKey) (map[childKey]int, error) {
			ft.lookupCalls++
			out := map[childKey]int{}
			for _, k := range keys {
				if id, ok := ft.rows[k]; ok {
					out[k] = id
				}
			}
			return out, nil
		},
		Insert: func(_ context.Context, r childRecord, parentID int) (int, error) {
			ft.insertCalls++
			if ft.failInsertAt > 0 && ft.insertCalls == ft.failInsertAt {
				return 0, errors.New("constraint violation")
			}
			ft.nextID++
			ft.rows[childKey{ParentID: parentID, Code: r.Code}] = ft.nextID
			return ft.nextID, nil
		},
	}
}

func TestMigrate_SecondRunInsertsNothing(t *testing.T) {
	ft := newFakeTarget("P1", "P2")
	records := []childRecord{{"P1", "a"}, {"P1", "b"}, {"P2", "a"}}

	first, err := Migrate(context.Background(), ft.family(), records, Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, first.Inserted)
	assert.Equal(t, 0, first.Skipped())
	state := fmt.Sprint(ft.rows)

	second, err := Migrate(context.Background(), ft.family(), records, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Inserted)
	assert.Equal(t, 3, second.SkippedExisting)
	assert.Equal(t, state, fmt.Sprint(ft.rows))
}

func TestMigrate_SkipsRecordsWhoseParentIsMissing(t *testing.T) {
	ft := newFakeTarget("P1")
	records := []childRecord{{"P1", "a"}, {"GONE", "b"}, {"", "c"}}

	res, err := Migrate(context.Background(), ft.family(), records, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 2, res.SkippedMissingParent)
	assert.Len(t, ft.rows, 1)
}

func TestMigrate_DuplicateKeysInOneSourceAreInsertedOnce(t *testing.T) {
	ft := newFakeTarget("P1")
	records := []childRecord{{"P1", "a"}, {"P1", "a"}, {"P1", "a"}}

	res, err := Migrate(context.Background(), ft.family(), records, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 2, res.SkippedExisting)
	assert.Len(t, ft.rows, 1)
}

func TestMigrate_UsesOneBulkLookupPerStage(t *testing.T) {
	ft := newFakeTarget("P1", "P2", "P3")
	var records []childRecord
	for i := 0; i < 50; i++ {
		records = append(records, childRecord{Parent: fmt.Sprintf("P%d", i%3+1), Code: fmt.Sprint(i)})
	}

	_, err := Migrate(context.Background(), ft.family(), records, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, ft.resolveCalls)
	assert.Equal(t, 1, ft.lookupCalls)
	assert.Equal(t, 50, ft.insertCalls)
}

func TestMigrate_RejectsInvalidRecords(t *testing.T) {
	ft := newFakeTarget("P1")
	records := []childRecord{{"P1", ""}, {"P1", "ok"}}
	var events []Event

	res, err := Migrate(context.Background(), ft.family(), records, Options{
		Validator: legacy.NewValidator(),
		Progress:  func(e Event) { events = append(events, e) },
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Rejected)
	assert.Equal(t, 1, res.Inserted)
	require.Len(t, events, 2)
	assert.Equal(t, OutcomeRejected, events[0].Outcome)
	assert.Contains(t, events[0].Detail, "Code")
	assert.Equal(t, OutcomeInserted, events[1].Outcome)
}

func TestMigrate_InsertFailureKeepsCommittedRowsAndCounts(t *testing.T) {
	ft := newFakeTarget("P1")
	ft.failInsertAt = 3
	records := []childRecord{{"P1", "a"}, {"P1", "b"}, {"P1", "c"}, {"P1", "d"}}

	res, err := Migrate(context.Background(), ft.family(), records, Options{})
	require.Error(t, err)
	var fe *FamilyError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, QueryFailure, fe.Kind)
	assert.Equal(t, TargetStore, fe.Store)
	assert.Equal(t, 2, res.Inserted)
	assert.Len(t, ft.rows, 2)

	// Re-running picks up where the failed run stopped.
	ft.failInsertAt = 0
	res, err = Migrate(context.Background(), ft.family(), records, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)
	assert.Equal(t, 2, res.SkippedExisting)
	assert.Len(t, ft.rows, 4)
}

func TestMigrate_ParentLookupFailureAbortsBeforeInsert(t *testing.T) {
	ft := newFakeTarget("P1")
	ft.resolveErr = &mysql.MySQLError{Number: 1045, Message: "Access denied"}

	res, err := Migrate(context.Background(), ft.family(), []childRecord{{"P1", "a"}}, Options{})
	require.Error(t, err)
	assert.Equal(t, ConnectionFailure, KindOf(err))
	assert.Equal(t, 0, res.Inserted)
	assert.Equal(t, 0, ft.insertCalls)
}

func TestMigrate_FamilyWithoutParent(t *testing.T) {
	rows := map[string]int{"x": 1}
	f := Family[string, noParent, string]{
		Name: "codes",
		Key:  func(s string, _ int) string { return s },
		LookupExisting: func(_ context.Context, keys []string) (map[string]int, error) {
			out := map[string]int{}
			for _, k := range keys {
				if id, ok := rows[k]; ok {
					out[k] = id
				}
			}
			return out, nil
		},
		Insert: func(_ context.Context, s string, parentID int) (int, error) {
			assert.Equal(t, 0, parentID)
			rows[s] = len(rows) + 1
			return rows[s], nil
		},
	}

	res, err := Migrate(context.Background(), f, []string{"x", "y", "z"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)
	assert.Equal(t, 1, res.SkippedExisting)
}

func TestMigrate_StopsWhenContextIsCancelled(t *testing.T) {
	ft := newFakeTarget("P1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Migrate(ctx, ft.family(), []childRecord{{"P1", "a"}}, Options{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, ErrorKind(""), KindOf(err))
	assert.Empty(t, ft.rows)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"access denied", &mysql.MySQLError{Number: 1045}, ConnectionFailure},
		{"unknown database", fmt.Errorf("wrapped: %w", &mysql.MySQLError{Number: 1049}), ConnectionFailure},
		{"missing table", &mysql.MySQLError{Number: 1146}, SchemaMismatch},
		{"unknown column", &mysql.MySQLError{Number: 1054}, SchemaMismatch},
		{"duplicate entry", &mysql.MySQLError{Number: 1062}, QueryFailure},
		{"invalid conn", mysql.ErrInvalidConn, ConnectionFailure},
		{"plain", errors.New("boom"), QueryFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestAssessmentTotal_SumsSevenSubScores(t *testing.T) {
	a := legacy.Assessment{Service: 3, Integrity: 3, Commitment: 3, Discipline: 3, Teamwork: 3, Leadership: 3, Initiative: 3}
	assert.Equal(t, 21, AssessmentTotal(a))
}
