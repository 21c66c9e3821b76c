package edit

import (
	"fmt"

	"github.com/tsawler/menudoc/model"
)

// Command is one queued or gated edit
type Command interface {
	// Describe returns a short human readable summary, used as the
	// confirmation prompt.
	Describe() string
	apply(e *Editor, doc *model.Document) (Result, error)
}

// Result is the outcome of a command. CreatedID is the id of the section,
// item or child entry the command created, if any.
type Result struct {
	Document  *model.Document
	CreatedID string
}

// Execute runs cmd against doc. On error the returned result holds the
// unchanged input document.
func (e *Editor) Execute(doc *model.Document, cmd Command) (Result, error) {
	if cmd == nil {
		return Result{Document: doc}, fmt.Errorf("nil command")
	}
	res, err := cmd.apply(e, doc)
	if err != nil {
		return Result{Document: doc}, err
	}
	return res, nil
}

// ExecuteAll runs commands in order and stops at the first failure. The
// returned document reflects every command that succeeded.
func (e *Editor) ExecuteAll(doc *model.Document, cmds ...Command) (*model.Document, error) {
	for i, cmd := range cmds {
		res, err := e.Execute(doc, cmd)
		if err != nil {
			return doc, fmt.Errorf("command %d (%s): %w", i, describe(cmd), err)
		}
		doc = res.Document
	}
	return doc, nil
}

func describe(cmd Command) string {
	if cmd == nil {
		return "nil"
	}
	return cmd.Describe()
}

// Confirmer decides whether a destructive command may run
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

type confirmed struct {
	gate Confirmer
	cmd  Command
}

// Confirmed wraps cmd so it only runs when gate agrees. A declined command
// returns ErrCancelled.
func Confirmed(gate Confirmer, cmd Command) Command {
	return confirmed{gate: gate, cmd: cmd}
}

func (c confirmed) Describe() string { return describe(c.cmd) }

func (c confirmed) apply(e *Editor, doc *model.Document) (Result, error) {
	if c.cmd == nil {
		return Result{}, fmt.Errorf("nil command")
	}
	if c.gate == nil || !c.gate.Confirm(c.cmd.Describe()) {
		return Result{}, ErrCancelled
	}
	return c.cmd.apply(e, doc)
}

// AddSectionCmd appends a new section of Kind
type AddSectionCmd struct{ Kind model.Kind }

func (c AddSectionCmd) Describe() string { return "add " + c.Kind.String() + " section" }

func (c AddSectionCmd) apply(e *Editor, doc *model.Document) (Result, error) {
	out, s, err := e.AddSection(doc, c.Kind)
	if err != nil {
		return Result{}, err
	}
	return Result{Document: out, CreatedID: s.Header().ID}, nil
}

// UpdateSectionCmd applies Patch to section ID
type UpdateSectionCmd struct {
	ID    string
	Patch Patch
}

func (c UpdateSectionCmd) Describe() string { return "update section " + c.ID }

func (c UpdateSectionCmd) apply(_ *Editor, doc *model.Document) (Result, error) {
	out, err := UpdateSection(doc, c.ID, c.Patch)
	return Result{Document: out}, err
}

// DeleteSectionCmd removes section ID
type DeleteSectionCmd struct{ ID string }

func (c DeleteSectionCmd) Describe() string { return "delete section " + c.ID }

func (c DeleteSectionCmd) apply(_ *Editor, doc *model.Document) (Result, error) {
	out, err := DeleteSection(doc, c.ID)
	return Result{Document: out}, err
}

// MoveSectionCmd moves the section at From to To
type MoveSectionCmd struct{ From, To int }

func (c MoveSectionCmd) Describe() string { return fmt.Sprintf("move section %d to %d", c.From, c.To) }

func (c MoveSectionCmd) apply(_ *Editor, doc *model.Document) (Result, error) {
	out, err := MoveSection(doc, c.From, c.To)
	return Result{Document: out}, err
}

// AddItemCmd appends an item to item group SectionID
type AddItemCmd struct {
	SectionID string
	Item      ItemInput
}

func (c AddItemCmd) Describe() string { return "add item " + c.Item.Name }

func (c AddItemCmd) apply(e *Editor, doc *model.Document) (Result, error) {
	out, it, err := e.AddItem(doc, c.SectionID, c.Item)
	if err != nil {
		return Result{}, err
	}
	return Result{Document: out, CreatedID: it.ID}, nil
}

// UpdateItemCmd applies Patch to item ItemID
type UpdateItemCmd struct {
	SectionID string
	ItemID    string
	Patch     ItemPatch
}

func (c UpdateItemCmd) Describe() string { return "update item " + c.ItemID }

func (c UpdateItemCmd) apply(_ *Editor, doc *model.Document) (Result, error) {
	out, err := UpdateItem(doc, c.SectionID, c.ItemID, c.Patch)
	return Result{Document: out}, err
}

// DeleteItemCmd removes item ItemID
type DeleteItemCmd struct {
	SectionID string
	ItemID    string
}

func (c DeleteItemCmd) Describe() string { return "delete item " + c.ItemID }

func (c DeleteItemCmd) apply(_ *Editor, doc *model.Document) (Result, error) {
	out, err := DeleteItem(doc, c.SectionID, c.ItemID)
	return Result{Document: out}, err
}

// MoveItemCmd reorders items within SectionID
type MoveItemCmd struct {
	SectionID string
	From, To  int
}

func (c MoveItemCmd) Describe() string {
	return fmt.Sprintf("move item %d to %d in %s", c.From, c.To, c.SectionID)
}

func (c MoveItemCmd) apply(_ *Editor, doc *model.Document) (Result, error) {
	out, err := MoveItem(doc, c.SectionID, c.From, c.To)
	return Result{Document: out}, err
}

// UpdateDocumentCmd applies Patch to the document metadata
type UpdateDocumentCmd struct{ Patch DocumentPatch }

func (c UpdateDocumentCmd) Describe() string { return "update document" }

func (c UpdateDocumentCmd) apply(_ *Editor, doc *model.Document) (Result, error) {
	out, err := UpdateDocument(doc, c.Patch)
	return Result{Document: out}, err
}
