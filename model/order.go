package model

import "fmt"

// CheckOrder verifies that sections and all nested children carry the dense
// order sequence 0..n-1 matching their slice positions.
func (d *Document) CheckOrder() error {
	for i, s := range d.Sections {
		h := s.Header()
		if h.Order != i {
			return fmt.Errorf("%w: section %q at index %d has order %d", ErrOrder, h.ID, i, h.Order)
		}
		switch v := s.(type) {
		case *ItemGroup:
			for j, it := range v.Items {
				if it.Order != j {
					return fmt.Errorf("%w: item %q at index %d has order %d", ErrOrder, it.ID, j, it.Order)
				}
			}
		case *Gallery:
			for j, img := range v.Images {
				if img.Order != j {
					return fmt.Errorf("%w: gallery image %q at index %d has order %d", ErrOrder, img.ID, j, img.Order)
				}
			}
		case *FAQ:
			for j, e := range v.Entries {
				if e.Order != j {
					return fmt.Errorf("%w: faq entry %q at index %d has order %d", ErrOrder, e.ID, j, e.Order)
				}
			}
		}
	}
	return nil
}
