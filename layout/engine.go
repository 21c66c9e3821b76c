package layout

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tsawler/menudoc/font"
	"github.com/tsawler/menudoc/imaging"
	"github.com/tsawler/menudoc/model"
)

// Warning reports content that was laid out in a degraded form
type Warning struct {
	SectionID string // empty for the document logo
	Ref       string
	Message   string
}

func (w Warning) String() string {
	if w.SectionID == "" {
		return fmt.Sprintf("image %q: %s", w.Ref, w.Message)
	}
	return fmt.Sprintf("section %s: image %q: %s", w.SectionID, w.Ref, w.Message)
}

// Result is the output of Layout
type Result struct {
	Pages    []Page
	Warnings []Warning
}

// Text returns the text of every page, pages separated by a form feed
func (r Result) Text() string {
	parts := make([]string, len(r.Pages))
	for i := range r.Pages {
		parts[i] = r.Pages[i].Text()
	}
	return strings.Join(parts, "\f")
}

// Layout places the document on pages. images holds the resolution outcome
// of every reference in doc.ImageRefs(); a reference missing from the map
// is treated as failed. The result depends only on the arguments, and at
// least one page is always produced.
func Layout(doc *model.Document, g Geometry, images map[string]imaging.Resolved) (Result, error) {
	if err := g.Validate(); err != nil {
		return Result{}, err
	}
	if doc == nil {
		doc = model.NewDocument("", "")
	}

	p := &planner{g: g, images: images, symbol: doc.CurrencySymbol()}
	pg := newPaginator(g)

	pg.place(p.header(doc))

	sections := append([]model.Section(nil), doc.Sections...)
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Header().Order < sections[j].Header().Order
	})
	for _, s := range sections {
		pg.place(p.section(s))
	}

	if note := strings.TrimSpace(doc.FooterNote); note != "" {
		pg.footer(p.lines(note, p.left(), g.ContentWidth(),
			textStyle{g.FontSizes.Caption, font.Regular, MidGray, AlignCenter}))
	}

	return Result{Pages: pg.finish(), Warnings: p.warnings}, nil
}

// paginator tracks the write position and breaks pages
type paginator struct {
	g     Geometry
	pages []Page
	y     float64
	used  bool // the current page holds content
}

func newPaginator(g Geometry) *paginator {
	pg := &paginator{g: g}
	pg.newPage()
	return pg
}

func (pg *paginator) cur() *Page { return &pg.pages[len(pg.pages)-1] }

func (pg *paginator) newPage() {
	pg.pages = append(pg.pages, Page{
		Number: len(pg.pages) + 1,
		Width:  pg.g.PageWidth,
		Height: pg.g.PageHeight,
	})
	pg.y = pg.g.Margin
	pg.used = false
}

func (pg *paginator) fits(h float64) bool {
	return pg.y+h <= pg.g.Bottom()
}

// place lays out one section. A section that fits on a fresh page but not
// in the remaining space starts a new page as a whole; a longer one breaks
// between blocks. A block taller than a page is placed anyway.
func (pg *paginator) place(pl plan) {
	if pl.empty() {
		return
	}
	if pg.used {
		gap, h := pg.g.SectionSpacing, pl.height()
		if !pg.fits(gap+h) && h <= pg.g.ContentHeight() {
			pg.newPage()
		} else {
			pg.y += gap
		}
	}

	for _, b := range pl.blocks {
		if b.gap {
			if pg.used && pg.fits(b.height) {
				pg.y += b.height
			}
			continue
		}
		if pg.used && !pg.fits(b.height) {
			pg.newPage()
		}
		pg.put(b, pg.y)
		pg.y += b.height
	}
}

func (pg *paginator) put(b block, y float64) {
	page := pg.cur()
	for _, prim := range b.prims {
		page.Primitives = append(page.Primitives, prim.shift(y))
	}
	pg.used = true
}

// footer anchors lines to the bottom margin of the last page when they fit
// below its content, otherwise they start a new page
func (pg *paginator) footer(lines []block) {
	if len(lines) == 0 {
		return
	}
	h := 0.0
	for _, b := range lines {
		h += b.height
	}

	gap := 0.0
	if pg.used {
		gap = pg.g.SectionSpacing
	}
	if !pg.fits(gap + h) {
		pg.newPage()
		pg.place(plan{blocks: lines})
		return
	}

	y := pg.g.Bottom() - h
	for _, b := range lines {
		pg.put(b, y)
		y += b.height
	}
	pg.y = pg.g.Bottom()
}

func (pg *paginator) finish() []Page {
	return pg.pages
}
