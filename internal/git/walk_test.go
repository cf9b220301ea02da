package git

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/wahlandcase/glreplay/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var issueKeys = regexp.MustCompile(`^([A-Z]+-[0-9]+):`)

// fakeGraph is an in-memory CommitSource
type fakeGraph struct {
	commits map[string]*models.Commit
	lookups map[string]int
}

func newFakeGraph() *fakeGraph {
	return &fakeGraph{commits: map[string]*models.Commit{}, lookups: map[string]int{}}
}

func (g *fakeGraph) add(hash, summary string, parents ...string) *models.Commit {
	c := models.NewCommit(hash, parents, summary+"\n", models.Signature{Name: "Dana", Email: "dana@example.com"}, time.Unix(1700000000, 0).UTC())
	g.commits[hash] = c
	return c
}

func (g *fakeGraph) Commit(hash string) (*models.Commit, error) {
	g.lookups[hash]++
	c, ok := g.commits[hash]
	if !ok {
		return nil, &RevisionNotFoundError{Revision: hash}
	}
	return c, nil
}

// fakeOracle records every query; commits in known are reported as recorded
type fakeOracle struct {
	known map[string]bool
	calls []string
	err   error
}

func (o *fakeOracle) IsKnown(_ context.Context, issueKey, commitHash, repoPath string) (bool, error) {
	o.calls = append(o.calls, commitHash)
	if o.err != nil {
		return false, o.err
	}
	return o.known[commitHash], nil
}

func hashes(commits []*models.Commit) []string {
	out := make([]string, 0, len(commits))
	for _, c := range commits {
		out = append(out, c.Hash)
	}
	return out
}

func quietLogger() logrus.FieldLogger {
	logger, _ := test.NewNullLogger()
	return logger
}

func TestWalk_Linear(t *testing.T) {
	g := newFakeGraph()
	a := g.add("A", "initial import")
	g.add("B", "PROJ-1: fix", "A")
	c := g.add("C", "tidy up", "B")
	oracle := &fakeOracle{}

	w := NewWalker(g, oracle, issueKeys, "team/app", quietLogger())
	eligible, err := w.Walk(context.Background(), c, a)
	require.NoError(t, err)

	assert.Equal(t, []string{"B"}, hashes(eligible))
	assert.Equal(t, []string{"B"}, oracle.calls)
}

func TestWalk_StartCommitIsEvaluated(t *testing.T) {
	g := newFakeGraph()
	g.add("root", "PROJ-9: before range")
	a := g.add("A", "PROJ-2: start", "root")
	c := g.add("C", "PROJ-3: end", "A")

	w := NewWalker(g, &fakeOracle{}, issueKeys, "team/app", quietLogger())
	eligible, err := w.Walk(context.Background(), c, a)
	require.NoError(t, err)

	assert.Equal(t, []string{"C", "A"}, hashes(eligible))
	assert.Zero(t, g.lookups["root"])
}

func TestWalk_MergeDiamondVisitsSharedAncestorOnce(t *testing.T) {
	g := newFakeGraph()
	s := g.add("S", "PROJ-1: start")
	g.add("X", "PROJ-2: shared", "S")
	g.add("P1", "PROJ-3: left", "X")
	g.add("P2", "PROJ-4: right", "X")
	m := g.add("M", "PROJ-5: merge", "P1", "P2")
	oracle := &fakeOracle{}

	w := NewWalker(g, oracle, issueKeys, "team/app", quietLogger())
	eligible, err := w.Walk(context.Background(), m, s)
	require.NoError(t, err)

	assert.Equal(t, []string{"M", "P1", "X", "S", "P2"}, hashes(eligible))
	assert.Equal(t, []string{"M", "P1", "X", "S", "P2"}, oracle.calls)
	assert.Equal(t, 1, g.lookups["X"])
}

func TestWalk_KnownCommitExcluded(t *testing.T) {
	g := newFakeGraph()
	a := g.add("A", "initial import")
	g.add("B", "PROJ-7: x", "A")
	c := g.add("C", "PROJ-8: y", "B")
	oracle := &fakeOracle{known: map[string]bool{"B": true}}

	w := NewWalker(g, oracle, issueKeys, "team/app", quietLogger())
	eligible, err := w.Walk(context.Background(), c, a)
	require.NoError(t, err)

	assert.Equal(t, []string{"C"}, hashes(eligible))
	assert.Equal(t, []string{"C", "B"}, oracle.calls)
}

func TestWalk_UnmatchedSummariesNeverQueried(t *testing.T) {
	g := newFakeGraph()
	a := g.add("A", "PROJ-1 missing colon")
	g.add("B", "fix PROJ-2: not at start", "A")
	g.add("C", "proj-3: lower case", "B")
	d := g.add("D", "", "C")
	oracle := &fakeOracle{}

	w := NewWalker(g, oracle, issueKeys, "team/app", quietLogger())
	eligible, err := w.Walk(context.Background(), d, a)
	require.NoError(t, err)

	assert.Empty(t, eligible)
	assert.Empty(t, oracle.calls)
}

func TestWalk_OtherPathsContinuePastStart(t *testing.T) {
	g := newFakeGraph()
	g.add("old", "PROJ-1: older than start")
	s := g.add("S", "start", "old")
	g.add("P1", "left", "S")
	g.add("P2", "right", "old")
	m := g.add("M", "merge", "P1", "P2")

	w := NewWalker(g, &fakeOracle{}, issueKeys, "team/app", quietLogger())
	eligible, err := w.Walk(context.Background(), m, s)
	require.NoError(t, err)

	assert.Equal(t, []string{"old"}, hashes(eligible))
}

func TestWalk_OracleErrorAbortsWalk(t *testing.T) {
	g := newFakeGraph()
	a := g.add("A", "initial import")
	g.add("B", "PROJ-1: fix", "A")
	c := g.add("C", "PROJ-2: fix", "B")
	boom := errors.New("connection refused")
	oracle := &fakeOracle{err: boom}

	w := NewWalker(g, oracle, issueKeys, "team/app", quietLogger())
	eligible, err := w.Walk(context.Background(), c, a)

	require.ErrorIs(t, err, boom)
	assert.Nil(t, eligible)
	assert.Equal(t, []string{"C"}, oracle.calls)
}

func TestWalk_MissingParentFails(t *testing.T) {
	g := newFakeGraph()
	a := g.add("A", "initial import")
	c := g.add("C", "PROJ-1: fix", "gone")

	w := NewWalker(g, &fakeOracle{}, issueKeys, "team/app", quietLogger())
	_, err := w.Walk(context.Background(), c, a)

	var notFound *RevisionNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "gone", notFound.Revision)
}

func TestWalk_Deterministic(t *testing.T) {
	g := newFakeGraph()
	s := g.add("S", "PROJ-1: start")
	g.add("L1", "PROJ-2: l1", "S")
	g.add("L2", "PROJ-3: l2", "L1")
	g.add("R1", "PROJ-4: r1", "S")
	g.add("M1", "PROJ-5: m1", "L2", "R1")
	g.add("R2", "PROJ-6: r2", "L1")
	end := g.add("M2", "PROJ-7: m2", "M1", "R2")

	w := NewWalker(g, &fakeOracle{}, issueKeys, "team/app", quietLogger())
	first, err := w.Walk(context.Background(), end, s)
	require.NoError(t, err)
	second, err := w.Walk(context.Background(), end, s)
	require.NoError(t, err)

	assert.Equal(t, []string{"M2", "M1", "L2", "L1", "S", "R1", "R2"}, hashes(first))
	assert.Equal(t, hashes(first), hashes(second))
}

func TestWalk_DeepHistory(t *testing.T) {
	const depth = 100000
	g := newFakeGraph()
	start := g.add("c0", "root")
	prev := "c0"
	for i := 1; i < depth; i++ {
		hash := fmt.Sprintf("c%d", i)
		summary := "chore"
		if i%1000 == 0 {
			summary = fmt.Sprintf("PROJ-%d: batch", i)
		}
		g.add(hash, summary, prev)
		prev = hash
	}

	w := NewWalker(g, &fakeOracle{}, issueKeys, "team/app", quietLogger())
	eligible, err := w.Walk(context.Background(), g.commits[prev], start)
	require.NoError(t, err)

	assert.Len(t, eligible, depth/1000-1)
	assert.Equal(t, "c99000", eligible[0].Hash)
}

func TestWalk_Cancelled(t *testing.T) {
	g := newFakeGraph()
	a := g.add("A", "PROJ-1: fix")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewWalker(g, &fakeOracle{}, issueKeys, "team/app", quietLogger())
	_, err := w.Walk(ctx, a, a)
	require.ErrorIs(t, err, context.Canceled)
}

func TestExtractIssueKey(t *testing.T) {
	key, ok := ExtractIssueKey("ABC-123: add feature", issueKeys)
	assert.True(t, ok)
	assert.Equal(t, "ABC-123", key)

	_, ok = ExtractIssueKey("ABC-123 add feature", issueKeys)
	assert.False(t, ok)

	_, ok = ExtractIssueKey("ABC-123: add feature", nil)
	assert.False(t, ok)
}
