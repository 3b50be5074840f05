// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package wizard drives the step-by-step proposal questionnaire.

A Wizard holds an ordered list of steps, the current step index, and the
answer document being edited:

	w, err := wizard.New(wizard.DefaultSteps(), loaded, func(doc models.Document) {
		sync.ScheduleSave(proposalID, doc)
	})
	w.SetText("businessName", "Acme")
	w.Toggle("services", "SEO")
	w.Advance()
	w.Progress() // round(100 * (index+1) / N)

Advance and Retreat clamp at the ends and never report a change. Every
successful edit hands a copy of the document to the change callback.

Steps come from an embedded YAML catalog (steps.yaml) or from a file passed
to LoadStepsFile. The engine works for any number of steps. WatchStepsFile
reloads a catalog file when it changes on disk.
*/
package wizard
