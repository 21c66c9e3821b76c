package edit

import (
	"fmt"
	"strings"

	"github.com/tsawler/menudoc/model"
)

// ItemInput describes a new item. Available defaults to true when nil.
type ItemInput struct {
	Name        string
	Description string
	Price       model.Price
	ImageRef    string
	Tags        []string
	Allergens   []string
	Available   *bool
}

// ItemPatch replaces selected fields of an item
type ItemPatch struct {
	Name        *string
	Description *string
	Price       *model.Price
	ImageRef    *string
	Tags        *[]string
	Allergens   *[]string
	Available   *bool
}

func (in ItemInput) validate(v *model.ValidationError) {
	if strings.TrimSpace(in.Name) == "" {
		v.Add("name", "name is required")
	}
	if in.Price < 0 {
		v.Add("price", "%v", model.ErrPriceNegative)
	}
}

func (p ItemPatch) validate(v *model.ValidationError) {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		v.Add("name", "name is required")
	}
	if p.Price != nil && *p.Price < 0 {
		v.Add("price", "%v", model.ErrPriceNegative)
	}
}

func (p ItemPatch) apply(it *model.Item) {
	if p.Name != nil {
		it.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.Price != nil {
		it.Price = *p.Price
	}
	if p.ImageRef != nil {
		it.ImageRef = *p.ImageRef
	}
	if p.Tags != nil {
		it.Tags = cleanTags(*p.Tags)
	}
	if p.Allergens != nil {
		it.Allergens = cleanTags(*p.Allergens)
	}
	if p.Available != nil {
		it.Available = *p.Available
	}
}

// AddItem appends a new item to the item group with sectionID
func (e *Editor) AddItem(doc *model.Document, sectionID string, in ItemInput) (*model.Document, model.Item, error) {
	var v model.ValidationError
	in.validate(&v)
	if err := v.Err(); err != nil {
		return doc, model.Item{}, err
	}

	out := doc.Clone()
	g, err := itemGroup(out, sectionID)
	if err != nil {
		return doc, model.Item{}, err
	}

	it := model.NewItem(e.newID(), strings.TrimSpace(in.Name), in.Price)
	it.Description = in.Description
	it.ImageRef = in.ImageRef
	it.Tags = cleanTags(in.Tags)
	it.Allergens = cleanTags(in.Allergens)
	if in.Available != nil {
		it.Available = *in.Available
	}
	it.Order = len(g.Items)
	g.Items = append(g.Items, it)
	return out, it.Clone(), nil
}

// AddItemGroup creates a new item group holding one item, the way editors
// start a group from the "new item" dialog.
func (e *Editor) AddItemGroup(doc *model.Document, title string, first ItemInput) (*model.Document, *model.ItemGroup, error) {
	var v model.ValidationError
	first.validate(&v)
	if err := v.Err(); err != nil {
		return doc, nil, err
	}

	out, s, err := e.AddSection(doc, model.KindItemGroup)
	if err != nil {
		return doc, nil, err
	}
	if title != "" {
		s.Header().Title = title
	}
	out, _, err = e.AddItem(out, s.Header().ID, first)
	if err != nil {
		return doc, nil, err
	}
	g, _ := out.ItemGroupByID(s.Header().ID)
	return out, g, nil
}

// UpdateItem applies patch to one item of an item group
func UpdateItem(doc *model.Document, sectionID, itemID string, patch ItemPatch) (*model.Document, error) {
	var v model.ValidationError
	patch.validate(&v)
	if err := v.Err(); err != nil {
		return doc, err
	}

	out := doc.Clone()
	g, err := itemGroup(out, sectionID)
	if err != nil {
		return doc, err
	}
	idx := indexOfItem(g, itemID)
	if idx < 0 {
		return doc, fmt.Errorf("item %q: %w", itemID, model.ErrNotFound)
	}
	patch.apply(&g.Items[idx])
	return out, nil
}

// DeleteItem removes one item and renumbers its siblings
func DeleteItem(doc *model.Document, sectionID, itemID string) (*model.Document, error) {
	out := doc.Clone()
	g, err := itemGroup(out, sectionID)
	if err != nil {
		return doc, err
	}
	idx := indexOfItem(g, itemID)
	if idx < 0 {
		return doc, fmt.Errorf("item %q: %w", itemID, model.ErrNotFound)
	}
	g.Items = append(g.Items[:idx], g.Items[idx+1:]...)
	renumberItems(g)
	return out, nil
}

func indexOfItem(g *model.ItemGroup, id string) int {
	for i, it := range g.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// cleanTags trims tags, drops blanks and keeps order
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// SplitTags splits comma separated editor input into tags
func SplitTags(s string) []string {
	return cleanTags(strings.Split(s, ","))
}

// ItemForm holds raw editor input for an item, before parsing
type ItemForm struct {
	Name        string
	Description string
	Price       string
	ImageRef    string
	Tags        string // comma separated
	Allergens   string // comma separated
	Available   *bool  // nil means available
}

// Input parses the form into an ItemInput, reporting every bad field
func (f ItemForm) Input() (ItemInput, error) {
	var v model.ValidationError
	if strings.TrimSpace(f.Name) == "" {
		v.Add("name", "name is required")
	}
	price, err := model.ParsePrice(f.Price)
	if err != nil {
		v.Add("price", "%v", err)
	}
	if err := v.Err(); err != nil {
		return ItemInput{}, err
	}

	return ItemInput{
		Name:        f.Name,
		Description: f.Description,
		Price:       price,
		ImageRef:    f.ImageRef,
		Tags:        SplitTags(f.Tags),
		Allergens:   SplitTags(f.Allergens),
		Available:   f.Available,
	}, nil
}

// Patch parses the form into an ItemPatch replacing every field
func (f ItemForm) Patch() (ItemPatch, error) {
	in, err := f.Input()
	if err != nil {
		return ItemPatch{}, err
	}
	tags, allergens := in.Tags, in.Allergens
	if in.Available == nil {
		in.Available = Bool(true)
	}
	return ItemPatch{
		Name:        &in.Name,
		Description: &in.Description,
		Price:       &in.Price,
		ImageRef:    &in.ImageRef,
		Tags:        &tags,
		Allergens:   &allergens,
		Available:   in.Available,
	}, nil
}
