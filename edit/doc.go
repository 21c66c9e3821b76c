// Package edit implements every mutation of a menu document.
//
// Operations are synchronous and total: each one works on a copy of the
// document and either returns the fully updated copy or an error with the
// input left untouched. After every successful call all order fields are
// the dense sequence 0..n-1.
//
// Basic usage:
//
//	ed := edit.New()
//	doc := model.NewDocument("", "Dinner")
//	doc, heading, err := ed.AddSection(doc, model.KindHeading)
//	doc, err = ed.UpdateSection(doc, heading.Header().ID, edit.HeadingPatch{Title: edit.String("Starters")})
//	doc, err = edit.MoveSection(doc, 0, 2)
//
// Operations are also available as [Command] values for callers that queue
// or gate edits:
//
//	res, err := ed.Execute(doc, edit.Confirmed(dialog, edit.DeleteSectionCmd{ID: id}))
//
// The package never prompts the user. Confirmation is a capability the
// caller passes in through [Confirmed].
package edit
