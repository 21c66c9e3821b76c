package layout

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tsawler/menudoc/font"
	"github.com/tsawler/menudoc/imaging"
	"github.com/tsawler/menudoc/model"
	"github.com/tsawler/menudoc/richtext"
)

// FailedImageNotice is printed inside image placeholders
const FailedImageNotice = "(failed to load image)"

// block is an atomic placement unit. Primitive Y coordinates are relative
// to the top of the block.
type block struct {
	height float64
	prims  []Primitive

	// gap blocks are spacing only: dropped at the top of a page and when
	// they do not fit, never causing a break themselves
	gap bool
}

// plan is the rendering plan of one section
type plan struct {
	blocks []block
}

func (p *plan) add(b ...block) { p.blocks = append(p.blocks, b...) }

func (p *plan) gap(h float64) {
	if h > 0 && len(p.blocks) > 0 {
		p.blocks = append(p.blocks, block{height: h, gap: true})
	}
}

// height is the total vertical extent of the plan
func (p *plan) height() float64 {
	h := 0.0
	for _, b := range p.blocks {
		h += b.height
	}
	return h
}

func (p *plan) empty() bool { return len(p.blocks) == 0 }

// planner turns sections into plans and records warnings
type planner struct {
	g        Geometry
	images   map[string]imaging.Resolved
	symbol   string
	warnings []Warning
}

func (p *planner) left() float64  { return p.g.Margin }
func (p *planner) right() float64 { return p.g.PageWidth - p.g.Margin }

// textStyle describes how a run of wrapped text is drawn
type textStyle struct {
	size  float64
	face  font.Face
	color Color
	align Align
}

// lines wraps text into one block per line inside [x, x+width]
func (p *planner) lines(text string, x, width float64, st textStyle) []block {
	wrapped := Wrap(text, width, st.size, st.face)
	adv := p.g.Advance(st.size)
	out := make([]block, 0, len(wrapped))
	for _, line := range wrapped {
		out = append(out, block{height: adv, prims: []Primitive{p.run(line, x, width, st)}})
	}
	return out
}

// run positions one line of text inside [x, x+width] at block-relative y 0
func (p *planner) run(text string, x, width float64, st textStyle) TextRun {
	w := Measure(text, st.size, st.face)
	switch st.align {
	case AlignCenter:
		x += (width - w) / 2
	case AlignRight:
		x += width - w
	}
	return TextRun{
		X:      x,
		Width:  w,
		Height: p.g.Advance(st.size),
		Text:   text,
		Size:   st.size,
		Face:   st.face,
		Color:  st.color,
	}
}

func (p *planner) warn(sectionID, ref string, err error) {
	msg := "image could not be loaded"
	if err != nil {
		msg = err.Error()
	}
	p.warnings = append(p.warnings, Warning{SectionID: sectionID, Ref: ref, Message: msg})
}

// image plans a resolved image, or a placeholder when ref did not resolve.
// The image fits maxWidth and the page's content height.
func (p *planner) image(sectionID, ref string, maxWidth, maxHeight float64) block {
	res, ok := p.images[ref]
	if strings.TrimSpace(ref) == "" {
		res, ok = imaging.Failed(ref, imaging.ErrEmptyRef), true
	}
	if !ok {
		res = imaging.Failed(ref, fmt.Errorf("image %q was not resolved", ref))
	}
	if !res.OK() {
		p.warn(sectionID, ref, res.Err)
		h := math.Min(p.g.PlaceholderHeight, maxHeight)
		x := p.left() + (p.g.ContentWidth()-maxWidth)/2
		return block{height: h, prims: []Primitive{Placeholder{
			Ref:    ref,
			Box:    model.NewBBox(x, 0, maxWidth, h),
			Notice: FailedImageNotice,
		}}}
	}

	pw, ph := float64(res.Image.Width), float64(res.Image.Height)
	w := math.Min(pw, maxWidth)
	h := w * ph / pw
	if h > maxHeight {
		h = maxHeight
		w = h * pw / ph
	}
	x := p.left() + (p.g.ContentWidth()-w)/2
	return block{height: h, prims: []Primitive{ImagePlacement{Ref: ref, Box: model.NewBBox(x, 0, w, h)}}}
}

// header plans the logo, document name and short description
func (p *planner) header(doc *model.Document) plan {
	var pl plan
	g := p.g
	cw := g.ContentWidth()

	if doc.LogoRef != "" {
		b := p.logo(doc.LogoRef)
		pl.add(b)
		pl.gap(g.LineHeight)
	}
	if name := strings.TrimSpace(doc.Name); name != "" {
		pl.add(p.lines(name, p.left(), cw, textStyle{g.FontSizes.Title, font.Bold, Black, AlignCenter})...)
	}
	if desc := strings.TrimSpace(doc.ShortDescription); desc != "" {
		pl.add(p.lines(desc, p.left(), cw, textStyle{g.FontSizes.Secondary, font.Regular, MidGray, AlignCenter})...)
	}
	return pl
}

func (p *planner) logo(ref string) block {
	g := p.g
	maxW := g.ContentWidth() * g.LogoMaxWidth
	if maxW <= 0 {
		maxW = g.ContentWidth()
	}
	res, ok := p.images[ref]
	if !ok || !res.OK() {
		return p.image("", ref, maxW, g.PlaceholderHeight)
	}

	pw, ph := float64(res.Image.Width), float64(res.Image.Height)
	h := math.Min(g.LogoHeight, g.ContentHeight())
	w := h * pw / ph
	if w > maxW {
		w = maxW
		h = w * ph / pw
	}
	x := p.left() + (g.ContentWidth()-w)/2
	return block{height: h, prims: []Primitive{ImagePlacement{Ref: ref, Box: model.NewBBox(x, 0, w, h)}}}
}

// section dispatches on the section kind
func (p *planner) section(s model.Section) plan {
	switch v := s.(type) {
	case *model.Heading:
		return p.heading(v)
	case *model.RichText:
		return p.richText(v)
	case *model.ItemGroup:
		return p.itemGroup(v)
	case *model.Image:
		return p.imageSection(v)
	case *model.List:
		return p.list(v)
	case *model.Divider:
		return p.divider(v)
	case *model.Spacer:
		return p.spacer(v)
	case *model.Video:
		return p.video(v)
	case *model.Gallery:
		return p.gallery(v)
	case *model.FAQ:
		return p.faq(v)
	}
	return plan{}
}

func (p *planner) heading(s *model.Heading) plan {
	var pl plan
	st := textStyle{p.g.FontSizes.Heading, font.Bold, Black, AlignLeft}
	blocks := p.lines(s.Title, p.left(), p.g.ContentWidth(), st)
	if len(blocks) == 0 {
		return pl
	}
	// the rule runs along the bottom of the last line box
	last := &blocks[len(blocks)-1]
	y := last.height - 1
	last.prims = append(last.prims, Rule{X1: p.left(), Y1: y, X2: p.right(), Y2: y, Width: 0.5, Color: Black})
	pl.add(blocks...)
	return pl
}

// sectionTitle plans an optional title line shared by several kinds
func (p *planner) sectionTitle(pl *plan, title string, st textStyle) {
	if t := strings.TrimSpace(title); t != "" {
		pl.add(p.lines(t, p.left(), p.g.ContentWidth(), st)...)
	}
}

func (p *planner) richText(s *model.RichText) plan {
	var pl plan
	g := p.g
	p.sectionTitle(&pl, s.Title, textStyle{g.FontSizes.Item, font.Bold, Black, AlignLeft})

	blocks, err := richtext.Parse(s.HTML)
	if err != nil {
		blocks = []richtext.Block{{Type: richtext.BlockParagraph, Text: richtext.PlainText(s.HTML)}}
	}

	body := textStyle{g.FontSizes.Body, font.Regular, Black, AlignLeft}
	for i, b := range blocks {
		if i > 0 {
			pl.gap(g.LineHeight * 0.25)
		}
		switch b.Type {
		case richtext.BlockHeading:
			pl.add(p.lines(b.Text, p.left(), g.ContentWidth(), textStyle{g.FontSizes.GroupTitle, font.Bold, Black, AlignLeft})...)
		case richtext.BlockListItem:
			indent := g.Indent * float64(b.Level+1)
			pl.add(p.bullet(b.Marker(), b.Text, p.left()+indent, g.ContentWidth()-indent, body)...)
		case richtext.BlockQuote:
			pl.add(p.lines(b.Text, p.left()+g.Indent, g.ContentWidth()-2*g.Indent, textStyle{g.FontSizes.Body, font.Italic, Gray, AlignLeft})...)
		default:
			pl.add(p.lines(b.Text, p.left(), g.ContentWidth(), body)...)
		}
	}
	return pl
}

// bullet wraps text after marker, indenting continuation lines under the
// text rather than the marker
func (p *planner) bullet(marker, text string, x, width float64, st textStyle) []block {
	prefix := marker + " "
	pw := Measure(prefix, st.size, st.face)
	blocks := p.lines(text, x+pw, width-pw, st)
	if len(blocks) == 0 {
		return nil
	}
	first := blocks[0].prims[0].(TextRun)
	first.X = x
	first.Text = prefix + first.Text
	first.Width += pw
	blocks[0].prims[0] = first
	return blocks
}

func (p *planner) itemGroup(s *model.ItemGroup) plan {
	var pl plan
	g := p.g
	p.sectionTitle(&pl, s.Title, textStyle{g.FontSizes.GroupTitle, font.Italic, DarkGray, AlignLeft})
	pl.gap(g.LineHeight * 0.25)

	items := s.AvailableItems()
	sort.SliceStable(items, func(i, j int) bool { return items[i].Order < items[j].Order })

	x := p.left() + g.Indent
	for i, it := range items {
		if i > 0 {
			pl.gap(g.LineHeight * 0.5)
		}
		pl.add(p.item(it, x)...)
	}
	return pl
}

// item plans the name with its price pinned to the first name line, then
// the description and the details line
func (p *planner) item(it model.Item, x float64) []block {
	g := p.g
	nameSt := textStyle{g.FontSizes.Item, font.Bold, Black, AlignLeft}
	priceSt := textStyle{g.FontSizes.Item, font.Regular, Black, AlignLeft}

	price := it.Price.Format(p.symbol)
	priceW := Measure(price, priceSt.size, priceSt.face)
	nameW := p.right() - x - priceW - g.Indent
	if nameW < g.ContentWidth()/4 {
		nameW = g.ContentWidth() / 4
	}

	blocks := p.lines(it.Name, x, nameW, nameSt)
	if len(blocks) == 0 {
		blocks = []block{{height: g.Advance(nameSt.size)}}
	}
	pr := p.run(price, p.right()-priceW, priceW, priceSt)
	blocks[0].prims = append(blocks[0].prims, pr)

	if desc := strings.TrimSpace(it.Description); desc != "" {
		blocks = append(blocks, p.lines(desc, x, p.right()-x-g.Indent, textStyle{g.FontSizes.Secondary, font.Regular, Gray, AlignLeft})...)
	}
	if details := it.Details(); details != "" {
		st := textStyle{g.FontSizes.Caption, font.Regular, LightGray, AlignLeft}
		dx := x + g.Indent
		line := Truncate(details, p.right()-dx-g.Indent, st.size, st.face)
		blocks = append(blocks, block{height: g.Advance(st.size), prims: []Primitive{p.run(line, dx, p.right()-dx, st)}})
	}
	return blocks
}

func (p *planner) imageSection(s *model.Image) plan {
	var pl plan
	g := p.g
	p.sectionTitle(&pl, s.Title, textStyle{g.FontSizes.Item, font.Bold, Black, AlignLeft})
	p.captioned(&pl, s.Header().ID, s.ImageRef, s.Caption)
	return pl
}

// captioned adds an image followed by its centred caption
func (p *planner) captioned(pl *plan, sectionID, ref, caption string) {
	g := p.g
	capSt := textStyle{g.FontSizes.Caption, font.Italic, PaleGray, AlignCenter}
	var capBlocks []block
	if c := strings.TrimSpace(caption); c != "" {
		capW := g.ContentWidth() * 0.7
		capBlocks = p.lines(c, p.left()+(g.ContentWidth()-capW)/2, capW, capSt)
	}

	maxH := g.ContentHeight()
	if len(capBlocks) > 0 {
		maxH -= g.Advance(capSt.size)
	}
	pl.add(p.image(sectionID, ref, g.ContentWidth()*g.ImageMaxWidth, maxH))
	if len(capBlocks) > 0 {
		pl.gap(g.LineHeight * 0.25)
		pl.add(capBlocks...)
	}
}

func (p *planner) list(s *model.List) plan {
	var pl plan
	g := p.g
	p.sectionTitle(&pl, s.Title, textStyle{g.FontSizes.Item, font.Bold, Black, AlignLeft})
	st := textStyle{g.FontSizes.Body, font.Regular, Black, AlignLeft}
	x := p.left() + g.Indent
	for _, item := range s.Items {
		pl.add(p.bullet("•", item, x, p.right()-x, st)...)
	}
	return pl
}

func (p *planner) divider(s *model.Divider) plan {
	var pl plan
	h := p.g.DividerHeight
	if h <= 0 {
		h = 1
	}
	y := h / 2
	pl.add(block{height: h, prims: []Primitive{Rule{X1: p.left(), Y1: y, X2: p.right(), Y2: y, Width: 0.5, Color: LightGray}}})
	return pl
}

func (p *planner) spacer(s *model.Spacer) plan {
	var pl plan
	if s.Height > 0 {
		pl.add(block{height: s.Height, prims: []Primitive{Space{Box: model.NewBBox(p.left(), 0, p.g.ContentWidth(), s.Height)}}})
	}
	return pl
}

func (p *planner) video(s *model.Video) plan {
	var pl plan
	g := p.g
	label := "Video"
	if t := strings.TrimSpace(s.Title); t != "" {
		label = "Video: " + t
	}
	pl.add(p.lines(label, p.left(), g.ContentWidth(), textStyle{g.FontSizes.Item, font.Bold, Black, AlignLeft})...)

	detail := strings.TrimSpace(s.Caption)
	if detail == "" {
		detail = strings.TrimSpace(s.VideoRef)
	}
	if detail != "" {
		pl.add(p.lines(detail, p.left(), g.ContentWidth(), textStyle{g.FontSizes.Secondary, font.Regular, LightGray, AlignLeft})...)
	}
	return pl
}

func (p *planner) gallery(s *model.Gallery) plan {
	var pl plan
	g := p.g
	p.sectionTitle(&pl, s.Title, textStyle{g.FontSizes.Item, font.Bold, Black, AlignLeft})

	images := append([]model.GalleryImage(nil), s.Images...)
	sort.SliceStable(images, func(i, j int) bool { return images[i].Order < images[j].Order })
	for i, img := range images {
		if i > 0 || !pl.empty() {
			pl.gap(g.LineHeight * 0.5)
		}
		p.captioned(&pl, s.Header().ID, img.ImageRef, img.Caption)
	}
	return pl
}

func (p *planner) faq(s *model.FAQ) plan {
	var pl plan
	g := p.g
	p.sectionTitle(&pl, s.Title, textStyle{g.FontSizes.GroupTitle, font.Bold, Black, AlignLeft})

	entries := append([]model.FaqEntry(nil), s.Entries...)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Order < entries[j].Order })
	for i, e := range entries {
		if i > 0 || !pl.empty() {
			pl.gap(g.LineHeight * 0.5)
		}
		pl.add(p.lines(e.Question, p.left(), g.ContentWidth(), textStyle{g.FontSizes.Item, font.Bold, Black, AlignLeft})...)
		pl.add(p.lines(e.Answer, p.left()+g.Indent, g.ContentWidth()-g.Indent, textStyle{g.FontSizes.Secondary, font.Regular, Gray, AlignLeft})...)
	}
	return pl
}
