package model

import (
	"fmt"
	"math"
	"strings"
)

// MaxSpacerHeight bounds spacer heights, in points
const MaxSpacerHeight = 2000.0

// Validate checks a whole document against the rules the editor enforces on
// each change. Problems are reported as a *ValidationError with field paths
// such as "sections[2].items[0].name".
func (d *Document) Validate() error {
	v := &ValidationError{}
	if d.Status != "" && !d.Status.Valid() {
		v.Add("status", "unknown status %q", d.Status)
	}
	if d.Currency != "" {
		if err := ValidateCurrency(d.Currency); err != nil {
			v.Add("currency", "%v", err)
		}
	}
	sections := make(map[string]bool, len(d.Sections))
	items := make(map[string]bool)
	for i, s := range d.Sections {
		if s == nil {
			v.Add("sections", "section %d is missing", i)
			continue
		}
		path := fmt.Sprintf("sections[%d]", i)
		h := s.Header()
		switch {
		case h.ID == "":
			v.Add(path+".id", "id is required")
		case sections[h.ID]:
			v.Add(path+".id", "duplicate section id %q", h.ID)
		}
		sections[h.ID] = true

		switch sec := s.(type) {
		case *Heading:
			if blank(sec.Title) {
				v.Add(path+".title", "heading title must not be empty")
			}
		case *List:
			if !hasText(sec.Items) {
				v.Add(path+".items", "list needs at least one non-blank item")
			}
		case *Spacer:
			switch ht := sec.Height; {
			case math.IsNaN(ht) || math.IsInf(ht, 0):
				v.Add(path+".height", "height must be a number")
			case ht < 0:
				v.Add(path+".height", "height must not be negative")
			case ht > MaxSpacerHeight:
				v.Add(path+".height", "height must be at most %g", MaxSpacerHeight)
			}
		case *ItemGroup:
			for j, it := range sec.Items {
				ip := fmt.Sprintf("%s.items[%d]", path, j)
				switch {
				case it.ID == "":
					v.Add(ip+".id", "id is required")
				case items[it.ID]:
					v.Add(ip+".id", "duplicate item id %q", it.ID)
				}
				items[it.ID] = true
				if blank(it.Name) {
					v.Add(ip+".name", "name is required")
				}
				if it.Price < 0 {
					v.Add(ip+".price", "%v", ErrPriceNegative)
				}
			}
		case *Gallery:
			for j, img := range sec.Images {
				if blank(img.ImageRef) {
					v.Add(fmt.Sprintf("%s.images[%d].imageRef", path, j), "imageRef is required")
				}
			}
		case *FAQ:
			for j, e := range sec.Entries {
				if blank(e.Question) {
					v.Add(fmt.Sprintf("%s.entries[%d].question", path, j), "question is required")
				}
			}
		}
	}
	if !v.Has("sections") {
		if err := d.CheckOrder(); err != nil {
			v.Add("sections", "%v", err)
		}
	}
	return v.Err()
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func hasText(items []string) bool {
	for _, s := range items {
		if !blank(s) {
			return true
		}
	}
	return false
}
