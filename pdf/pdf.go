package pdf

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/tsawler/menudoc/contentstream"
	"github.com/tsawler/menudoc/core"
	"github.com/tsawler/menudoc/font"
	"github.com/tsawler/menudoc/imaging"
	"github.com/tsawler/menudoc/internal/filters"
	"github.com/tsawler/menudoc/layout"
	"github.com/tsawler/menudoc/model"
)

// Producer is written to the Info dictionary
const Producer = "menudoc"

// Options controls serialization
type Options struct {
	// Title is written to the Info dictionary when set
	Title string

	// Images holds the resolved images referenced by ImagePlacement
	// primitives. A placement whose image is missing or cannot be embedded
	// is drawn as a placeholder.
	Images map[string]imaging.Resolved

	// NoticeSize is the font size of placeholder notices; 0 means 8
	NoticeSize float64

	// Uncompressed leaves page content streams unfiltered
	Uncompressed bool
}

// Render returns the PDF for pages as bytes
func Render(pages []layout.Page, opts Options) ([]byte, []layout.Warning, error) {
	var buf bytes.Buffer
	warnings, err := Write(&buf, pages, opts)
	if err != nil {
		return nil, warnings, err
	}
	return buf.Bytes(), warnings, nil
}

// Write serializes pages as a PDF 1.4 file. Output depends only on the
// arguments. The returned warnings list images that were replaced by
// placeholders while writing.
func Write(w io.Writer, pages []layout.Page, opts Options) ([]layout.Warning, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("pdf: no pages to write")
	}
	if opts.NoticeSize <= 0 {
		opts.NoticeSize = 8
	}

	e := &encoder{
		w:      core.NewWriter(),
		opts:   opts,
		images: make(map[string]*xobject),
	}
	root, err := e.document(pages)
	if err != nil {
		return e.warnings, err
	}

	info := core.Dict{"Producer": core.String(Producer)}
	if opts.Title != "" {
		info["Title"] = core.String(font.EncodeWinAnsi(opts.Title))
	}
	infoRef := e.w.Add(info)

	if _, err := e.w.WriteTo(w, root, infoRef); err != nil {
		return e.warnings, fmt.Errorf("pdf: writing: %w", err)
	}
	return e.warnings, nil
}

// xobject is an embedded image shared by every page that draws it
type xobject struct {
	name string
	ref  core.IndirectRef
	err  error
}

type encoder struct {
	w        *core.Writer
	opts     Options
	fonts    core.Dict
	images   map[string]*xobject
	warnings []layout.Warning
}

func (e *encoder) document(pages []layout.Page) (core.IndirectRef, error) {
	pagesRef := e.w.Reserve()

	e.fonts = core.Dict{}
	for _, f := range font.All() {
		e.fonts[f.Name] = e.w.Add(core.Dict{
			"Type":     core.Name("Font"),
			"Subtype":  core.Name("Type1"),
			"BaseFont": core.Name(f.BaseFont),
			"Encoding": core.Name("WinAnsiEncoding"),
		})
	}

	kids := make(core.Array, 0, len(pages))
	for i := range pages {
		ref, err := e.page(&pages[i], pagesRef)
		if err != nil {
			return core.IndirectRef{}, fmt.Errorf("pdf: page %d: %w", pages[i].Number, err)
		}
		kids = append(kids, ref)
	}

	if err := e.w.Set(pagesRef, core.Dict{
		"Type":  core.Name("Pages"),
		"Kids":  kids,
		"Count": core.Int(len(kids)),
	}); err != nil {
		return core.IndirectRef{}, err
	}
	return e.w.Add(core.Dict{"Type": core.Name("Catalog"), "Pages": pagesRef}), nil
}

func (e *encoder) page(p *layout.Page, parent core.IndirectRef) (core.IndirectRef, error) {
	space := newPageSpace(p.Height)
	b := contentstream.NewBuilder()
	used := core.Dict{}

	for _, prim := range p.Primitives {
		switch v := prim.(type) {
		case layout.TextRun:
			drawText(b, space, v)
		case layout.Rule:
			drawRule(b, space, v)
		case layout.ImagePlacement:
			if x, ok := e.image(v.Ref); ok {
				used[x.name] = x.ref
				drawImage(b, space, v.Box, x.name)
			} else {
				e.drawPlaceholder(b, space, v.Box, layout.FailedImageNotice)
			}
		case layout.Placeholder:
			e.drawPlaceholder(b, space, v.Box, v.Notice)
		case layout.Space:
		}
	}

	var content *core.Stream
	if e.opts.Uncompressed {
		content = core.NewStream(nil, b.Bytes())
	} else {
		var err error
		if content, err = core.NewFlateStream(nil, b.Bytes(), filters.Params{}); err != nil {
			return core.IndirectRef{}, err
		}
	}
	contentRef := e.w.Add(content)

	resources := core.Dict{"Font": e.fonts}
	if len(used) > 0 {
		resources["XObject"] = used
	}
	return e.w.Add(core.Dict{
		"Type":      core.Name("Page"),
		"Parent":    parent,
		"MediaBox":  core.Reals(0, 0, p.Width, p.Height),
		"Resources": resources,
		"Contents":  contentRef,
	}), nil
}

// image embeds ref on first use. Failures are remembered so each image is
// reported once.
func (e *encoder) image(ref string) (*xobject, bool) {
	if x, ok := e.images[ref]; ok {
		return x, x.err == nil
	}

	x := &xobject{name: "Im" + strconv.Itoa(e.embedded()+1)}
	res, ok := e.opts.Images[ref]
	switch {
	case !ok:
		x.err = fmt.Errorf("image %q was not resolved", ref)
	case !res.OK():
		x.err = res.Err
		if x.err == nil {
			x.err = fmt.Errorf("image %q has no data", ref)
		}
	default:
		var s *core.Stream
		if s, x.err = imageXObject(res.Image); x.err == nil {
			x.ref = e.w.Add(s)
		}
	}
	e.images[ref] = x

	if x.err != nil {
		e.warnings = append(e.warnings, layout.Warning{Ref: ref, Message: x.err.Error()})
		return x, false
	}
	return x, true
}

func (e *encoder) embedded() int {
	n := 0
	for _, x := range e.images {
		if x.err == nil {
			n++
		}
	}
	return n
}

func drawText(b *contentstream.Builder, s pageSpace, t layout.TextRun) {
	f := font.Standard(t.Face)
	x, y := s.baseline(t)
	b.BeginText().
		Font(f.Name, t.Size).
		FillRGB(t.Color.R, t.Color.G, t.Color.B).
		TextAt(x, y).
		ShowText(font.EncodeWinAnsi(t.Text)).
		EndText()
}

func drawRule(b *contentstream.Builder, s pageSpace, r layout.Rule) {
	x1, y1 := s.point(r.X1, r.Y1)
	x2, y2 := s.point(r.X2, r.Y2)
	b.StrokeRGB(r.Color.R, r.Color.G, r.Color.B).
		LineWidth(r.Width).
		MoveTo(x1, y1).
		LineTo(x2, y2).
		Stroke()
}

func drawImage(b *contentstream.Builder, s pageSpace, box model.BBox, name string) {
	x, y, w, h := s.rect(box)
	b.Save().Transform(w, 0, 0, h, x, y).DrawXObject(name).Restore()
}

// drawPlaceholder draws a light box with a thin border and the notice
// centred inside it in red italics
func (e *encoder) drawPlaceholder(b *contentstream.Builder, s pageSpace, box model.BBox, notice string) {
	x, y, w, h := s.rect(box)
	b.Save().
		FillRGB(240, 240, 240).Rect(x, y, w, h).Fill().
		StrokeRGB(180, 180, 180).LineWidth(0.5).Rect(x, y, w, h).Stroke().
		Restore()

	if notice == "" {
		return
	}
	size := e.opts.NoticeSize
	run := layout.TextRun{
		Width:  layout.Measure(notice, size, font.Italic),
		Height: size * 1.2,
		Text:   notice,
		Size:   size,
		Face:   font.Italic,
		Color:  layout.Red,
	}
	run.X = box.X + (box.Width-run.Width)/2
	run.Y = box.Y + (box.Height-run.Height)/2
	drawText(b, s, run)
}
