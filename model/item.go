package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Item is a single priced entry inside an ItemGroup
type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       Price    `json:"price"`
	ImageRef    string   `json:"imageRef,omitempty"`
	Tags        []string `json:"tags"`
	Allergens   []string `json:"allergens"`
	Available   bool     `json:"available"`
	Order       int      `json:"order"`
}

// NewItem returns an available item with empty tag lists
func NewItem(id, name string, price Price) Item {
	return Item{
		ID:        id,
		Name:      name,
		Price:     price,
		Tags:      make([]string, 0),
		Allergens: make([]string, 0),
		Available: true,
	}
}

// UnmarshalJSON decodes an item strictly. An item without an "available"
// field is available.
func (it *Item) UnmarshalJSON(data []byte) error {
	type plain Item
	out := plain{Available: true}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return err
	}
	*it = Item(out)
	return nil
}

// Clone returns a deep copy of the item
func (it Item) Clone() Item {
	c := it
	c.Tags = append(make([]string, 0, len(it.Tags)), it.Tags...)
	c.Allergens = append(make([]string, 0, len(it.Allergens)), it.Allergens...)
	return c
}

// Details returns the tag/allergen summary printed under an item, or ""
// when the item has neither.
func (it Item) Details() string {
	var parts []string
	if len(it.Tags) > 0 {
		parts = append(parts, "Tags: "+strings.Join(it.Tags, ", "))
	}
	if len(it.Allergens) > 0 {
		parts = append(parts, "Allergens: "+strings.Join(it.Allergens, ", "))
	}
	return strings.Join(parts, " | ")
}

// AvailableItems returns the items that should be printed, in order
func (g *ItemGroup) AvailableItems() []Item {
	items := make([]Item, 0, len(g.Items))
	for _, it := range g.Items {
		if it.Available {
			items = append(items, it)
		}
	}
	return items
}

// GalleryImage is one image of a Gallery
type GalleryImage struct {
	ID       string `json:"id"`
	ImageRef string `json:"imageRef"`
	Caption  string `json:"caption,omitempty"`
	Order    int    `json:"order"`
}

// FaqEntry is one question/answer pair of a FAQ block
type FaqEntry struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Order    int    `json:"order"`
}
