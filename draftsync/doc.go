// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package draftsync turns a stream of answer edits into debounced writes.

# Debounce

Every edit calls ScheduleSave with the full document. The call replaces the
pending candidate and restarts a single timer; only when Delay (600ms by
default) passes with no further edits is the latest candidate written:

	s, _ := draftsync.New(draftsync.Config{
		ProposalID: id,
		Identity:   identity,
		Store:      answers,   // store.Answers
		Authorizer: records,   // store.Records
	})
	s.ScheduleSave(id, doc)   // restarts the quiet period
	s.Close()                 // drops a pending save

Close drops any pending save. Passing a different proposal ID to
ScheduleSave drops the pending save for the previous proposal. A write that
has already started is never aborted.

# Ordering

Writes for one synchronizer run one at a time. Each timer carries a
generation number and does nothing if a newer edit, Retry, or Close has
happened since it was armed.

# Authorization

Before each write the synchronizer checks that its identity still owns the
target proposal. A missing identity or a failed check marks the save as
failed with models.ErrUnauthorized and nothing is written.

# Status

Status moves Idle -> Saving -> Saved or Failed. A failure leaves the
in-memory document untouched and is not retried automatically. The next edit
schedules a fresh save, and Retry writes the current candidate immediately.
Subscribe delivers every status change.

Tests inject a Scheduler to control time. WallClock uses time.AfterFunc.
*/
package draftsync
