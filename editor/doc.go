// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package editor keeps the open edit sessions of the proposal builder.

A Session binds one authenticated user and one proposal to a wizard and a
draft synchronizer. Every successful answer edit schedules a debounced save;
navigation never does.

	sess, err := manager.Open(ctx, identity, proposalID)
	st, err := sess.SetAnswer("businessName", models.Text("Acme"))
	st, err = sess.Toggle("services", "SEO")
	st = sess.Advance()

Sessions are kept in memory by ID. Opening a proposal again from the same
user replaces the earlier session, and Close, Sweep, and CloseAll tear
sessions down. Teardown drops any save that has not started yet.
*/
package editor
