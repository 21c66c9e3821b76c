package edit

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/tsawler/menudoc/model"
)

func seqIDs() IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestEditor() *Editor {
	return New(WithIDs(seqIDs()))
}

func sectionIDs(doc *model.Document) []string {
	ids := make([]string, len(doc.Sections))
	for i, s := range doc.Sections {
		ids[i] = s.Header().ID
	}
	return ids
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// buildDoc returns a document with one section of each kind in kinds
func buildDoc(t *testing.T, ed *Editor, kinds ...model.Kind) *model.Document {
	t.Helper()
	doc := model.NewDocument("doc-1", "Dinner")
	for _, k := range kinds {
		var err error
		doc, _, err = ed.AddSection(doc, k)
		if err != nil {
			t.Fatalf("AddSection(%s) error = %v", k, err)
		}
	}
	return doc
}

// ============================================================================
// Move
// ============================================================================

func TestMove(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"forward", 0, 2, []string{"b", "c", "a", "d"}},
		{"backward", 3, 1, []string{"a", "d", "b", "c"}},
		{"same index", 1, 1, []string{"a", "b", "c", "d"}},
		{"to end", 0, 3, []string{"b", "c", "d", "a"}},
		{"to start", 3, 0, []string{"d", "a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := []string{"a", "b", "c", "d"}
			got, err := Move(in, tt.from, tt.to)
			if err != nil {
				t.Fatalf("Move() error = %v", err)
			}
			if !equalStrings(got, tt.want) {
				t.Errorf("Move() = %v, want %v", got, tt.want)
			}
			if !equalStrings(in, []string{"a", "b", "c", "d"}) {
				t.Errorf("Move() modified its input: %v", in)
			}
		})
	}
}

func TestMoveOutOfRange(t *testing.T) {
	in := []int{1, 2, 3}
	for _, idx := range [][2]int{{-1, 0}, {0, 3}, {3, 0}, {0, -1}} {
		if _, err := Move(in, idx[0], idx[1]); !errors.Is(err, ErrIndexRange) {
			t.Errorf("Move(%d, %d) error = %v, want ErrIndexRange", idx[0], idx[1], err)
		}
	}
	if _, err := Move([]int{}, 0, 0); !errors.Is(err, ErrIndexRange) {
		t.Errorf("Move on empty list error = %v, want ErrIndexRange", err)
	}
}

func TestMoveSectionRenumbers(t *testing.T) {
	ed := newTestEditor()
	doc := buildDoc(t, ed, model.KindHeading, model.KindRichText, model.KindDivider)
	before := sectionIDs(doc)

	out, err := MoveSection(doc, 0, 2)
	if err != nil {
		t.Fatalf("MoveSection() error = %v", err)
	}
	want := []string{before[1], before[2], before[0]}
	if got := sectionIDs(out); !equalStrings(got, want) {
		t.Errorf("sections = %v, want %v", got, want)
	}
	if err := out.CheckOrder(); err != nil {
		t.Errorf("CheckOrder() = %v", err)
	}
	if got := sectionIDs(doc); !equalStrings(got, before) {
		t.Errorf("input document changed: %v", got)
	}
}

func TestMoveSectionInvalidLeavesDocument(t *testing.T) {
	ed := newTestEditor()
	doc := buildDoc(t, ed, model.KindHeading)
	out, err := MoveSection(doc, 0, 5)
	if !errors.Is(err, ErrIndexRange) {
		t.Fatalf("MoveSection() error = %v, want ErrIndexRange", err)
	}
	if out != doc {
		t.Error("MoveSection() on error should return the input document")
	}
}

func TestDragEvent(t *testing.T) {
	dest := 2
	from, to, ok := DragEvent{Source: 1, Destination: &dest}.Indices()
	if !ok || from != 1 || to != 2 {
		t.Errorf("Indices() = %d, %d, %v", from, to, ok)
	}
	if _, _, ok := (DragEvent{Source: 1}).Indices(); ok {
		t.Error("Indices() with no destination should not apply")
	}
}

// ============================================================================
// Sections
// ============================================================================

func TestAddSectionDefaults(t *testing.T) {
	ed := newTestEditor()
	doc := model.NewDocument("d", "Menu")

	for i, kind := range model.Kinds() {
		var s model.Section
		var err error
		doc, s, err = ed.AddSection(doc, kind)
		if err != nil {
			t.Fatalf("AddSection(%s) error = %v", kind, err)
		}
		if s.Kind() != kind {
			t.Errorf("AddSection(%s).Kind() = %s", kind, s.Kind())
		}
		if s.Header().Order != i {
			t.Errorf("AddSection(%s) order = %d, want %d", kind, s.Header().Order, i)
		}
		if s.Header().ID == "" {
			t.Errorf("AddSection(%s) has no id", kind)
		}
	}

	if got := doc.Sections[0].(*model.Heading).Title; got != DefaultHeadingTitle {
		t.Errorf("heading title = %q, want %q", got, DefaultHeadingTitle)
	}
	if got := doc.Sections[4].(*model.List).Items; !equalStrings(got, DefaultListItems) {
		t.Errorf("list items = %v, want %v", got, DefaultListItems)
	}
	if got := doc.Sections[6].(*model.Spacer).Height; got != DefaultSpacerHeight {
		t.Errorf("spacer height = %v, want %v", got, DefaultSpacerHeight)
	}
}

func TestAddSectionUnknownKind(t *testing.T) {
	ed := newTestEditor()
	doc := model.NewDocument("d", "Menu")
	if _, _, err := ed.AddSection(doc, model.KindUnknown); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("AddSection(unknown) error = %v, want ErrUnknownKind", err)
	}
}

func TestInsertSection(t *testing.T) {
	ed := newTestEditor()
	doc := buildDoc(t, ed, model.KindHeading, model.KindDivider)
	out, s, err := ed.InsertSection(doc, model.KindList, 1)
	if err != nil {
		t.Fatalf("InsertSection() error = %v", err)
	}
	if out.Sections[1].Header().ID != s.Header().ID {
		t.Errorf("inserted section at %v", sectionIDs(out))
	}
	if s.Header().Order != 1 {
		t.Errorf("inserted order = %d, want 1", s.Header().Order)
	}
	if _, _, err := ed.InsertSection(doc, model.KindList, 3); !errors.Is(err, ErrIndexRange) {
		t.Errorf("InsertSection(3) error = %v, want ErrIndexRange", err)
	}
}

func TestUpdateSection(t *testing.T) {
	ed := newTestEditor()
	doc := buildDoc(t, ed, model.KindHeading, model.KindSpacer)
	headingID := doc.Sections[0].Header().ID
	spacerID := doc.Sections[1].Header().ID

	out, err := ed.UpdateSection(doc, headingID, HeadingPatch{Title: String("Starters")})
	if err != nil {
		t.Fatalf("UpdateSection() error = %v", err)
	}
	if got := out.Sections[0].Header().Title; got != "Starters" {
		t.Errorf("title = %q, want Starters", got)
	}
	if got := doc.Sections[0].Header().Title; got != DefaultHeadingTitle {
		t.Errorf("input title changed to %q", got)
	}

	out, err = UpdateSection(out, spacerID, SpacerPatch{Height: Float(48)})
	if err != nil {
		t.Fatalf("UpdateSection(spacer) error = %v", err)
	}
	if got := out.Sections[1].(*model.Spacer).Height; got != 48 {
		t.Errorf("height = %v, want 48", got)
	}
}

func TestUpdateSectionKindMismatch(t *testing.T) {
	ed := newTestEditor()
	doc := buildDoc(t, ed, model.KindHeading)
	id := doc.Sections[0].Header().ID

	out, err := UpdateSection(doc, id, SpacerPatch{Height: Float(10)})
	if !errors.Is(err, model.ErrKindMismatch) {
		t.Fatalf("UpdateSection() error = %v, want ErrKindMismatch", err)
	}
	if out != doc {
		t.Error("rejected patch should return the input document")
	}
}

func TestUpdateSectionValidation(t *testing.T) {
	ed := newTestEditor()
	doc := buildDoc(t, ed, model.KindHeading, model.KindSpacer, model.KindList)

	tests := []struct {
		name  string
		id    string
		patch Patch
		field string
	}{
		{"blank heading", doc.Sections[0].Header().ID, HeadingPatch{Title: String("  ")}, "title"},
		{"negative spacer", doc.Sections[1].Header().ID, SpacerPatch{Height: Float(-1)}, "height"},
		{"huge spacer", doc.Sections[1].Header().ID, SpacerPatch{Height: Float(MaxSpacerHeight + 1)}, "height"},
		{"empty list", doc.Sections[2].Header().ID, ListPatch{Items: Strings(" ", "")}, "items"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UpdateSection(doc, tt.id, tt.patch)
			ve, ok := model.AsValidation(err)
			if !ok {
				t.Fatalf("error = %v, want ValidationError", err)
			}
			if !ve.Has(tt.field) {
				t.Errorf("ValidationError fields = %v, want %s", ve.Fields, tt.field)
			}
		})
	}
}

func TestUpdateSectionNotFound(t *testing.T) {
	doc := model.NewDocument("d", "Menu")
	if _, err := UpdateSection(doc, "missing", HeadingPatch{}); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if _, err := UpdateSection(doc, "missing", nil); err == nil {
		t.Error("nil patch should fail")
	}
}

func TestDeleteSectionRenumbers(t *testing.T) {
	ed := newTestEditor()
	doc := buildDoc(t, ed, model.KindHeading, model.KindRichText, model.KindDivider, model.KindList)
	ids := sectionIDs(doc)

	out, err := DeleteSection(doc, ids[1])
	if err != nil {
		t.Fatalf("DeleteSection() error = %v", err)
	}
	want := []string{ids[0], ids[2], ids[3]}
	if got := sectionIDs(out); !equalStrings(got, want) {
		t.Errorf("sections = %v, want %v", got, want)
	}
	if err := out.CheckOrder(); err != nil {
		t.Errorf("CheckOrder() = %v", err)
	}
	if _, err := DeleteSection(out, ids[1]); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestDuplicateSection(t *testing.T) {
	ed := newTestEditor()
	doc := buildDoc(t, ed, model.KindItemGroup, model.KindDivider)
	groupID := doc.Sections[0].Header().ID
	doc, item, err := ed.AddItem(doc, groupID, ItemInput{Name: "Soup", Price: 1500})
	if err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	out, dup, err := ed.DuplicateSection(doc, groupID)
	if err != nil {
		t.Fatalf("DuplicateSection() error = %v", err)
	}
	if len(out.Sections) != 3 || out.Sections[1] != dup {
		t.Fatalf("duplicate not inserted after source: %v", sectionIDs(out))
	}
	if dup.Header().ID == groupID {
		t.Error("duplicate kept the source id")
	}
	g := dup.(*model.ItemGroup)
	if len(g.Items) != 1 || g.Items[0].ID == item.ID || g.Items[0].Name != "Soup" {
		t.Errorf("duplicate items = %+v", g.Items)
	}
	if err := out.CheckOrder(); err != nil {
		t.Errorf("CheckOrder() = %v", err)
	}
}

// ============================================================================
// Items
// ============================================================================

func TestAddItem(t *testing.T) {
	ed := newTestEditor()
	doc := buildDoc(t, ed, model.KindItemGroup)
	groupID := doc.Sections[0].Header().ID

	out, it, err := ed.AddItem(doc, groupID, ItemInput{
		Name:  "  Bruschetta ",
		Price: 2800,
		Tags:  []string{" vegan", "", "house "},
	})
	if err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if it.Name != "Bruschetta" || !it.Available || it.Order != 0 {
		t.Errorf("item = %+v", it)
	}
	if !equalStrings(it.Tags, []string{"vegan", "house"}) {
		t.Errorf("tags = %v", it.Tags)
	}
	g, _ := out.ItemGroupByID(groupID)
	if len(g.Items) != 1 {
		t.Errorf("item count = %d, want 1", len(g.Items))
	}
	if orig, _ := doc.ItemGroupByID(groupID); len(orig.Items) != 0 {
		t.Error("input document changed")
	}
}

func TestAddItemValidation(t *testing.T) {
	ed := newTestEditor()
	doc := buildDoc(t, ed, model.KindItemGroup, model.KindHeading)
	groupID := doc.Sections[0].Header().ID

	_, _, err := ed.AddItem(doc, groupID, ItemInput{Name: "", Price: -1})
	ve, ok := model.AsValidation(err)
	if !ok {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if !ve.Has("name") || !ve.Has("price") {
		t.Errorf("fields = %v, want name and price", ve.Fields)
	}

	_, _, err = ed.AddItem(doc, doc.Sections[1].Header().ID, ItemInput{Name: "Soup"})
	if !errors.Is(err, model.ErrKindMismatch) {
		t.Errorf("AddItem on heading error = %v, want ErrKindMismatch", err)
	}
}

func TestUpdateAndDeleteItem(t *testing.T) {
	ed := newTestEditor()
	doc := buildDoc(t, ed, model.KindItemGroup)
	groupID := doc.Sections[0].Header().ID

	var ids []string
	for _, name := range []string{"A", "B", "C"} {
		var it model.Item
		var err error
		doc, it, err = ed.AddItem(doc, groupID, ItemInput{Name: name, Price: 100})
		if err != nil {
			t.Fatalf("AddItem() error = %v", err)
		}
		ids = append(ids, it.ID)
	}

	price := model.Price(250)
	out, err := UpdateItem(doc, groupID, ids[1], ItemPatch{Price: &price, Available: Bool(false)})
	if err != nil {
		t.Fatalf("UpdateItem() error = %v", err)
	}
	g, _ := out.ItemGroupByID(groupID)
	if g.Items[1].Price != 250 || g.Items[1].Available {
		t.Errorf("updated item = %+v", g.Items[1])
	}

	if _, err := UpdateItem(doc, groupID, ids[1], ItemPatch{Name: String("")}); err == nil {
		t.Error("UpdateItem() with blank name should fail")
	}
	if _, err := UpdateItem(doc, groupID, "missing", ItemPatch{}); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("UpdateItem(missing) error = %v, want ErrNotFound", err)
	}

	out, err = DeleteItem(out, groupID, ids[0])
	if err != nil {
		t.Fatalf("DeleteItem() error = %v", err)
	}
	g, _ = out.ItemGroupByID(groupID)
	if len(g.Items) != 2 || g.Items[0].ID != ids[1] || g.Items[0].Order != 0 || g.Items[1].Order != 1 {
		t.Errorf("items after delete = %+v", g.Items)
	}
}

func TestItemForm(t *testing.T) {
	in, err := ItemForm{
		Name:      "Soup",
		Price:     "15,50",
		Tags:      "hot, vegan,,",
		Allergens: "celery",
		Available: Bool(false),
	}.Input()
	if err != nil {
		t.Fatalf("Input() error = %v", err)
	}
	if in.Price != 1550 {
		t.Errorf("price = %d, want 1550", in.Price)
	}
	if !equalStrings(in.Tags, []string{"hot", "vegan"}) {
		t.Errorf("tags = %v", in.Tags)
	}
	if in.Available == nil || *in.Available {
		t.Errorf("available = %v, want false", in.Available)
	}

	ed := newTestEditor()
	doc := buildDoc(t, ed, model.KindItemGroup)
	tea, err := ItemForm{Name: "Tea", Price: "3"}.Input()
	if err != nil {
		t.Fatalf("Input() error = %v", err)
	}
	_, it, err := ed.AddItem(doc, doc.Sections[0].Header().ID, tea)
	if err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if !it.Available {
		t.Error("an item from a form without availability should be available")
	}

	p, err := ItemForm{Name: "Tea", Price: "3"}.Patch()
	if err != nil {
		t.Fatalf("Patch() error = %v", err)
	}
	if p.Available == nil || !*p.Available {
		t.Errorf("patch available = %v, want true", p.Available)
	}

	_, err = ItemForm{Name: "Tea", Price: "1e30"}.Input()
	ve, ok := model.AsValidation(err)
	if !ok || len(ve.Fields) != 1 || ve.Fields[0].Message != model.ErrPriceNotNumeric.Error() {
		t.Errorf("Input() error = %v, want %v", err, model.ErrPriceNotNumeric)
	}

	_, err = ItemForm{Name: " ", Price: "abc"}.Input()
	ve, ok = model.AsValidation(err)
	if !ok || !ve.Has("name") || !ve.Has("price") {
		t.Errorf("Input() error = %v, want name and price problems", err)
	}
}

func TestAddItemGroup(t *testing.T) {
	ed := newTestEditor()
	doc := model.NewDocument("d", "Menu")
	out, g, err := ed.AddItemGroup(doc, "Starters", ItemInput{Name: "Bruschetta", Price: 2800})
	if err != nil {
		t.Fatalf("AddItemGroup() error = %v", err)
	}
	if g.Title != "Starters" || len(g.Items) != 1 {
		t.Errorf("group = %+v", g)
	}
	if out.SectionCount() != 1 {
		t.Errorf("SectionCount() = %d, want 1", out.SectionCount())
	}
}

// ============================================================================
// Gallery and FAQ children
// ============================================================================

func TestGalleryImages(t *testing.T) {
	ed := newTestEditor()
	doc := buildDoc(t, ed, model.KindGallery)
	id := doc.Sections[0].Header().ID

	var imgIDs []string
	for _, ref := range []string{"a.png", "b.png", "c.png"} {
		var img model.GalleryImage
		var err error
		doc, img, err = ed.AddGalleryImage(doc, id, ref, "")
		if err != nil {
			t.Fatalf("AddGalleryImage() error = %v", err)
		}
		imgIDs = append(imgIDs, img.ID)
	}

	doc, err := MoveGalleryImage(doc, id, 2, 0)
	if err != nil {
		t.Fatalf("MoveGalleryImage() error = %v", err)
	}
	doc, err = UpdateGalleryImage(doc, id, imgIDs[0], GalleryImagePatch{Caption: String("front")})
	if err != nil {
		t.Fatalf("UpdateGalleryImage() error = %v", err)
	}
	doc, err = DeleteGalleryImage(doc, id, imgIDs[1])
	if err != nil {
		t.Fatalf("DeleteGalleryImage() error = %v", err)
	}

	g := doc.Sections[0].(*model.Gallery)
	if len(g.Images) != 2 || g.Images[0].ImageRef != "c.png" || g.Images[1].Caption != "front" {
		t.Errorf("images = %+v", g.Images)
	}
	if err := doc.CheckOrder(); err != nil {
		t.Errorf("CheckOrder() = %v", err)
	}
	if _, _, err := ed.AddGalleryImage(doc, id, " ", ""); err == nil {
		t.Error("AddGalleryImage() with blank ref should fail")
	}
}

func TestFaqEntries(t *testing.T) {
	ed := newTestEditor()
	doc := buildDoc(t, ed, model.KindFAQ)
	id := doc.Sections[0].Header().ID

	doc, first, err := ed.AddFaqEntry(doc, id, "Do you deliver?", "Yes")
	if err != nil {
		t.Fatalf("AddFaqEntry() error = %v", err)
	}
	doc, _, err = ed.AddFaqEntry(doc, id, "Vegan options?", "Many")
	if err != nil {
		t.Fatalf("AddFaqEntry() error = %v", err)
	}
	doc, err = MoveFaqEntry(doc, id, 0, 1)
	if err != nil {
		t.Fatalf("MoveFaqEntry() error = %v", err)
	}
	doc, err = UpdateFaqEntry(doc, id, first.ID, FaqEntryPatch{Answer: String("Until 22h")})
	if err != nil {
		t.Fatalf("UpdateFaqEntry() error = %v", err)
	}
	f := doc.Sections[0].(*model.FAQ)
	if f.Entries[1].ID != first.ID || f.Entries[1].Answer != "Until 22h" {
		t.Errorf("entries = %+v", f.Entries)
	}

	doc, err = DeleteFaqEntry(doc, id, f.Entries[0].ID)
	if err != nil {
		t.Fatalf("DeleteFaqEntry() error = %v", err)
	}
	if err := doc.CheckOrder(); err != nil {
		t.Errorf("CheckOrder() = %v", err)
	}
	if _, err := MoveFaqEntry(doc, "missing", 0, 0); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("MoveFaqEntry(missing) error = %v, want ErrNotFound", err)
	}
}

// ============================================================================
// Document metadata
// ============================================================================

func TestUpdateDocument(t *testing.T) {
	doc := model.NewDocument("d", "Menu")
	out, err := UpdateDocument(doc, DocumentPatch{Currency: String("usd"), FooterNote: String("Service not included")})
	if err != nil {
		t.Fatalf("UpdateDocument() error = %v", err)
	}
	if out.Currency != "USD" || out.FooterNote != "Service not included" {
		t.Errorf("document = %+v", out)
	}

	_, err = UpdateDocument(doc, DocumentPatch{Name: String(""), Currency: String("XXZ")})
	ve, ok := model.AsValidation(err)
	if !ok || !ve.Has("name") || !ve.Has("currency") {
		t.Errorf("UpdateDocument() error = %v, want name and currency problems", err)
	}
}

func TestPublish(t *testing.T) {
	doc := model.NewDocument("d", "Menu")
	out, err := Publish(doc)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if out.Status != model.StatusPublished || doc.Status != model.StatusDraft {
		t.Errorf("status = %s, input %s", out.Status, doc.Status)
	}
	if _, err := Publish(model.NewDocument("d", "")); err == nil {
		t.Error("Publish() without a name should fail")
	}
	if _, err := SetStatus(doc, "archived"); err == nil {
		t.Error("SetStatus(archived) should fail")
	}
}

// ============================================================================
// Commands
// ============================================================================

func TestExecuteConfirmed(t *testing.T) {
	ed := newTestEditor()
	doc := buildDoc(t, ed, model.KindHeading, model.KindDivider)
	id := doc.Sections[0].Header().ID

	var prompts []string
	deny := ConfirmFunc(func(p string) bool { prompts = append(prompts, p); return false })
	res, err := ed.Execute(doc, Confirmed(deny, DeleteSectionCmd{ID: id}))
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("Execute() error = %v, want ErrCancelled", err)
	}
	if res.Document != doc {
		t.Error("cancelled command should return the input document")
	}
	if len(prompts) != 1 || prompts[0] != "delete section "+id {
		t.Errorf("prompts = %v", prompts)
	}

	allow := ConfirmFunc(func(string) bool { return true })
	res, err = ed.Execute(doc, Confirmed(allow, DeleteSectionCmd{ID: id}))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Document.SectionCount() != 1 {
		t.Errorf("SectionCount() = %d, want 1", res.Document.SectionCount())
	}
}

func TestExecuteAll(t *testing.T) {
	ed := newTestEditor()
	doc := model.NewDocument("d", "Menu")

	res, err := ed.Execute(doc, AddSectionCmd{Kind: model.KindItemGroup})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	groupID := res.CreatedID

	out, err := ed.ExecuteAll(res.Document,
		AddItemCmd{SectionID: groupID, Item: ItemInput{Name: "Soup", Price: 1500}},
		AddItemCmd{SectionID: groupID, Item: ItemInput{Name: "Bread", Price: 500}},
		MoveItemCmd{SectionID: groupID, From: 1, To: 0},
		AddSectionCmd{Kind: model.KindHeading},
		MoveSectionCmd{From: 1, To: 0},
	)
	if err != nil {
		t.Fatalf("ExecuteAll() error = %v", err)
	}
	g, _ := out.ItemGroupByID(groupID)
	if g.Items[0].Name != "Bread" || out.Sections[1].Header().ID != groupID {
		t.Errorf("unexpected result %+v", g.Items)
	}

	_, err = ed.ExecuteAll(out, DeleteSectionCmd{ID: "missing"})
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("ExecuteAll() error = %v, want ErrNotFound", err)
	}
}

// ============================================================================
// Ordering property
// ============================================================================

// TestOrderStaysDense applies random edit sequences and checks that every
// order field is the dense sequence 0..n-1 after each step.
func TestOrderStaysDense(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ed := newTestEditor()
	kinds := model.Kinds()

	for run := 0; run < 20; run++ {
		doc := model.NewDocument("d", "Menu")
		for step := 0; step < 60; step++ {
			n := len(doc.Sections)
			var err error
			switch op := rng.Intn(6); {
			case op == 0 || n == 0:
				doc, _, err = ed.AddSection(doc, kinds[rng.Intn(len(kinds))])
			case op == 1:
				doc, err = DeleteSection(doc, doc.Sections[rng.Intn(n)].Header().ID)
			case op == 2:
				doc, err = MoveSection(doc, rng.Intn(n), rng.Intn(n))
			case op == 3:
				doc, _, err = ed.InsertSection(doc, kinds[rng.Intn(len(kinds))], rng.Intn(n+1))
			default:
				doc, err = mutateChildren(ed, rng, doc)
			}
			if err != nil {
				t.Fatalf("run %d step %d: %v", run, step, err)
			}
			if err := doc.CheckOrder(); err != nil {
				t.Fatalf("run %d step %d: CheckOrder() = %v", run, step, err)
			}
		}
	}
}

func mutateChildren(ed *Editor, rng *rand.Rand, doc *model.Document) (*model.Document, error) {
	s := doc.Sections[rng.Intn(len(doc.Sections))]
	id := s.Header().ID
	var err error
	switch v := s.(type) {
	case *model.ItemGroup:
		n := len(v.Items)
		switch {
		case n == 0 || rng.Intn(3) == 0:
			doc, _, err = ed.AddItem(doc, id, ItemInput{Name: "Item", Price: model.Price(rng.Intn(5000))})
		case rng.Intn(2) == 0:
			doc, err = DeleteItem(doc, id, v.Items[rng.Intn(n)].ID)
		default:
			doc, err = MoveItem(doc, id, rng.Intn(n), rng.Intn(n))
		}
	case *model.Gallery:
		n := len(v.Images)
		switch {
		case n == 0 || rng.Intn(3) == 0:
			doc, _, err = ed.AddGalleryImage(doc, id, "img.png", "")
		case rng.Intn(2) == 0:
			doc, err = DeleteGalleryImage(doc, id, v.Images[rng.Intn(n)].ID)
		default:
			doc, err = MoveGalleryImage(doc, id, rng.Intn(n), rng.Intn(n))
		}
	case *model.FAQ:
		n := len(v.Entries)
		switch {
		case n == 0 || rng.Intn(3) == 0:
			doc, _, err = ed.AddFaqEntry(doc, id, "Question?", "Answer")
		case rng.Intn(2) == 0:
			doc, err = DeleteFaqEntry(doc, id, v.Entries[rng.Intn(n)].ID)
		default:
			doc, err = MoveFaqEntry(doc, id, rng.Intn(n), rng.Intn(n))
		}
	}
	return doc, err
}
