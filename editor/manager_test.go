// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package editor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/propose/auth"
	"github.com/danielhkuo/propose/draftsync"
	"github.com/danielhkuo/propose/models"
	"github.com/danielhkuo/propose/store"
	"github.com/danielhkuo/propose/testutil"
	"github.com/danielhkuo/propose/wizard"
)

type fixture struct {
	manager    *Manager
	clock      *testutil.ManualClock
	owner      auth.Identity
	proposalID string
	load       func() string

	nowMu sync.Mutex
	now   time.Time
}

func (f *fixture) advanceWall(d time.Duration) {
	f.nowMu.Lock()
	defer f.nowMu.Unlock()
	f.now = f.now.Add(d)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := testutil.SetupTestDB(t)

	clientID := testutil.CreateTestClient(t, conn, "owner", "Acme")
	proposalID := testutil.CreateTestProposal(t, conn, "owner", clientID, "Website refresh", "")

	f := &fixture{
		clock:      &testutil.ManualClock{},
		owner:      auth.Identity{UserID: "owner"},
		proposalID: proposalID,
		now:        time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.load = func() string { return testutil.LoadTestAnswers(t, conn, proposalID) }
	f.manager = NewManager(Config{
		Proposals: store.NewRecords(conn),
		Answers:   store.NewAnswers(conn),
		Delay:     draftsync.DefaultDelay,
		Scheduler: f.clock,
		Now: func() time.Time {
			f.nowMu.Lock()
			defer f.nowMu.Unlock()
			return f.now
		},
	})
	return f
}

func TestOpen_StartsAtFirstStep(t *testing.T) {
	f := newFixture(t)

	sess, err := f.manager.Open(context.Background(), f.owner, f.proposalID)
	require.NoError(t, err)

	st := sess.State()
	assert.Equal(t, f.proposalID, st.ProposalID)
	assert.Equal(t, "Website refresh", st.ProposalName)
	assert.Equal(t, 0, st.StepIndex)
	assert.Equal(t, 5, st.StepCount)
	assert.Equal(t, "businessName", st.Step.Key)
	assert.Equal(t, 20, st.Progress)
	assert.Empty(t, st.Answers)
	assert.Equal(t, draftsync.StateIdle, st.Save.State)
	assert.False(t, st.Unsaved)
	assert.Equal(t, 1, f.manager.Len())
}

func TestOpen_LoadsSavedAnswers(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	clientID := testutil.CreateTestClient(t, conn, "owner", "Acme")
	proposalID := testutil.CreateTestProposal(t, conn, "owner", clientID, "Website", "")
	testutil.SaveTestAnswers(t, conn, proposalID, `{"businessName":"Acme","services":["SEO"]}`)

	m := NewManager(Config{
		Proposals: store.NewRecords(conn),
		Answers:   store.NewAnswers(conn),
		Scheduler: &testutil.ManualClock{},
	})

	sess, err := m.Open(context.Background(), auth.Identity{UserID: "owner"}, proposalID)
	require.NoError(t, err)

	answers := sess.State().Answers
	assert.Equal(t, models.Text("Acme"), answers["businessName"])
	assert.Equal(t, models.Selection{"SEO"}, answers["services"])
}

func TestOpen_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.Open(context.Background(), auth.Identity{}, f.proposalID)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = f.manager.Open(context.Background(), auth.Identity{UserID: "intruder"}, f.proposalID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = f.manager.Open(context.Background(), f.owner, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	assert.Zero(t, f.manager.Len())
}

func TestSetSteps_AppliesToNewSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before, err := f.manager.Open(ctx, f.owner, f.proposalID)
	require.NoError(t, err)

	err = f.manager.SetSteps([]wizard.Step{{Key: "title", Label: "Title", Kind: wizard.KindText}})
	require.NoError(t, err)

	assert.Equal(t, 5, before.State().StepCount, "open sessions keep their catalog")

	after, err := f.manager.Open(ctx, auth.Identity{UserID: "owner"}, f.proposalID)
	require.NoError(t, err)
	assert.Equal(t, 1, after.State().StepCount)
	assert.Equal(t, "title", after.State().Step.Key)

	err = f.manager.SetSteps(nil)
	assert.ErrorIs(t, err, wizard.ErrInvalidSteps)
}

func TestSession_EditsAreSavedAfterDelay(t *testing.T) {
	f := newFixture(t)
	sess, err := f.manager.Open(context.Background(), f.owner, f.proposalID)
	require.NoError(t, err)

	_, err = sess.SetAnswer("businessName", models.Text("Acme"))
	require.NoError(t, err)
	_, err = sess.Toggle("services", "SEO")
	require.NoError(t, err)
	st, err := sess.Toggle("services", "Design")
	require.NoError(t, err)

	assert.True(t, st.Unsaved)
	assert.Empty(t, f.load(), "nothing written before the quiet period ends")

	f.clock.Advance(draftsync.DefaultDelay)

	assert.JSONEq(t, `{"businessName":"Acme","services":["SEO","Design"]}`, f.load())
	st = sess.State()
	assert.Equal(t, draftsync.StateSaved, st.Save.State)
	assert.False(t, st.Unsaved)
}

func TestSession_InvalidEditLeavesDocument(t *testing.T) {
	f := newFixture(t)
	sess, err := f.manager.Open(context.Background(), f.owner, f.proposalID)
	require.NoError(t, err)

	_, err = sess.Toggle("businessName", "SEO")
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = sess.SetAnswer("nope", models.Text("x"))
	assert.ErrorIs(t, err, models.ErrValidation)

	assert.Empty(t, sess.State().Answers)
	assert.Zero(t, f.clock.Pending())
}

func TestSession_NavigationDoesNotSave(t *testing.T) {
	f := newFixture(t)
	sess, err := f.manager.Open(context.Background(), f.owner, f.proposalID)
	require.NoError(t, err)

	assert.Equal(t, 0, sess.Retreat().StepIndex)
	for i := 0; i < 10; i++ {
		sess.Advance()
	}
	st := sess.State()
	assert.Equal(t, 4, st.StepIndex)
	assert.Equal(t, 100, st.Progress)
	assert.Zero(t, f.clock.Pending())
}

func TestSession_Retry(t *testing.T) {
	f := newFixture(t)
	sess, err := f.manager.Open(context.Background(), f.owner, f.proposalID)
	require.NoError(t, err)

	_, err = sess.SetAnswer("projectGoal", models.Text("More leads"))
	require.NoError(t, err)

	st, err := sess.Retry(context.Background())
	require.NoError(t, err)
	assert.Equal(t, draftsync.StateSaved, st.Save.State)
	assert.JSONEq(t, `{"projectGoal":"More leads"}`, f.load())
}

func TestOpen_ReplacesEarlierSession(t *testing.T) {
	f := newFixture(t)
	first, err := f.manager.Open(context.Background(), f.owner, f.proposalID)
	require.NoError(t, err)

	_, err = first.SetAnswer("businessName", models.Text("stale"))
	require.NoError(t, err)

	second, err := f.manager.Open(context.Background(), f.owner, f.proposalID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), second.ID())

	_, err = f.manager.Get(f.owner, first.ID())
	assert.ErrorIs(t, err, models.ErrNotFound)

	f.clock.Advance(time.Second)
	assert.Empty(t, f.load(), "pending save of the replaced session is dropped")
	assert.Equal(t, 1, f.manager.Len())
}

func TestGet_OtherUser(t *testing.T) {
	f := newFixture(t)
	sess, err := f.manager.Open(context.Background(), f.owner, f.proposalID)
	require.NoError(t, err)

	got, err := f.manager.Get(f.owner, sess.ID())
	require.NoError(t, err)
	assert.Same(t, sess, got)

	_, err = f.manager.Get(auth.Identity{UserID: "intruder"}, sess.ID())
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = f.manager.Close(auth.Identity{UserID: "intruder"}, sess.ID())
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Equal(t, 1, f.manager.Len())
}

func TestClose_DropsPendingSave(t *testing.T) {
	f := newFixture(t)
	sess, err := f.manager.Open(context.Background(), f.owner, f.proposalID)
	require.NoError(t, err)

	_, err = sess.SetAnswer("businessName", models.Text("Acme"))
	require.NoError(t, err)

	require.NoError(t, f.manager.Close(f.owner, sess.ID()))
	f.clock.Advance(time.Second)

	assert.Empty(t, f.load())
	assert.Zero(t, f.manager.Len())
	assert.ErrorIs(t, f.manager.Close(f.owner, sess.ID()), models.ErrNotFound)
}

func TestSweep(t *testing.T) {
	f := newFixture(t)
	idle, err := f.manager.Open(context.Background(), f.owner, f.proposalID)
	require.NoError(t, err)

	f.advanceWall(20 * time.Minute)
	assert.Zero(t, f.manager.Sweep(30*time.Minute))

	f.advanceWall(15 * time.Minute)
	assert.Equal(t, 1, f.manager.Sweep(30*time.Minute))

	_, err = f.manager.Get(f.owner, idle.ID())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSweep_KeepsActiveSessions(t *testing.T) {
	f := newFixture(t)
	sess, err := f.manager.Open(context.Background(), f.owner, f.proposalID)
	require.NoError(t, err)

	f.advanceWall(25 * time.Minute)
	sess.Advance()
	f.advanceWall(25 * time.Minute)

	assert.Zero(t, f.manager.Sweep(30*time.Minute))
	assert.Equal(t, 1, f.manager.Len())
}

func TestSweep_ReadingStateKeepsSessionAlive(t *testing.T) {
	f := newFixture(t)
	sess, err := f.manager.Open(context.Background(), f.owner, f.proposalID)
	require.NoError(t, err)

	f.advanceWall(25 * time.Minute)
	sess.State()
	f.advanceWall(25 * time.Minute)

	assert.Zero(t, f.manager.Sweep(30*time.Minute))
	assert.Equal(t, 1, f.manager.Len())
}

func TestCloseAll(t *testing.T) {
	f := newFixture(t)
	sess, err := f.manager.Open(context.Background(), f.owner, f.proposalID)
	require.NoError(t, err)
	_, err = sess.SetAnswer("businessName", models.Text("Acme"))
	require.NoError(t, err)

	assert.Equal(t, 1, f.manager.CloseAll())
	assert.Zero(t, f.manager.Len())

	f.clock.Advance(time.Second)
	assert.Empty(t, f.load())
}
