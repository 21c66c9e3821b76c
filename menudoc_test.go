package menudoc

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tsawler/menudoc/cache"
	"github.com/tsawler/menudoc/imaging"
	"github.com/tsawler/menudoc/layout"
	"github.com/tsawler/menudoc/model"
)

type fakeSource struct {
	docs map[string]*model.Document
	err  error
}

func (s *fakeSource) Load(_ context.Context, id string) (*model.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	d, ok := s.docs[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return d.Clone(), nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 50, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// imageResolver serves a PNG for refs starting with "ok:" and fails the
// rest
func imageResolver(t *testing.T, calls *int32) imaging.Resolver {
	data := pngBytes(t, 40, 20)
	return imaging.ResolverFunc(func(ctx context.Context, ref string) (imaging.Image, error) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		if !strings.HasPrefix(ref, "ok:") {
			return imaging.Image{}, errors.New("404 not found")
		}
		return imaging.Decode(data)
	})
}

func menu() *model.Document {
	bruschetta := model.NewItem("i1", "Bruschetta", 2800)
	soup := model.NewItem("i2", "Soup", 1500)
	soup.Available = false
	soup.Order = 1

	doc := model.NewDocument("menu-1", "Summer  Menu")
	doc.Sections = []model.Section{
		&model.Heading{SectionHeader: model.SectionHeader{ID: "h", Order: 0, Title: "Starters"}},
		&model.ItemGroup{
			SectionHeader: model.SectionHeader{ID: "g", Order: 1},
			Items:         []model.Item{bruschetta, soup},
		},
	}
	return doc
}

func withImage(doc *model.Document, ref string) *model.Document {
	doc.Sections = append(doc.Sections, &model.Image{
		SectionHeader: model.SectionHeader{ID: "img", Order: len(doc.Sections)},
		ImageRef:      ref,
	})
	return doc
}

// ============================================================================
// Export
// ============================================================================

func TestExport(t *testing.T) {
	src := &fakeSource{docs: map[string]*model.Document{"menu-1": menu()}}

	a, err := New(src).Uncompressed().Export(context.Background(), "menu-1")
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(a.Bytes, []byte("%PDF-1.4")))
	assert.Equal(t, "Summer_Menu.pdf", a.Filename)
	assert.Equal(t, 1, a.Pages)
	assert.Empty(t, a.Warnings)
	assert.False(t, a.Cached)

	assert.Contains(t, string(a.Bytes), "(Bruschetta) Tj")
	assert.Contains(t, string(a.Bytes), "(R$ 28.00) Tj")
	assert.NotContains(t, string(a.Bytes), "Soup")
}

func TestExportDeterministic(t *testing.T) {
	exp := New(nil).WithResolver(imageResolver(t, nil))
	doc := withImage(menu(), "ok:photo")

	a1, err := exp.ExportDocument(context.Background(), doc)
	require.NoError(t, err)
	a2, err := exp.ExportDocument(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, a1.Bytes, a2.Bytes)
}

func TestExportFailedImage(t *testing.T) {
	doc := withImage(menu(), "https://example.com/missing.png")

	a, err := New(nil).WithResolver(imageResolver(t, nil)).Uncompressed().ExportDocument(context.Background(), doc)
	require.NoError(t, err)

	require.Len(t, a.Warnings, 1)
	w := a.Warnings[0]
	assert.Equal(t, WarnImageUnavailable, w.Code)
	assert.Equal(t, "https://example.com/missing.png", w.Ref)
	assert.Equal(t, "img", w.SectionID)
	assert.Contains(t, w.Message, "404")
	assert.GreaterOrEqual(t, a.Pages, 1)
	assert.Contains(t, string(a.Bytes), "(\\(failed to load image\\)) Tj")
}

func TestExportWithoutResolver(t *testing.T) {
	doc := withImage(menu(), "ok:photo")
	doc.LogoRef = "ok:logo"

	a, err := New(nil).ExportDocument(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, a.Warnings, 2)
	for _, w := range a.Warnings {
		assert.Equal(t, WarnImageUnavailable, w.Code)
		assert.Contains(t, w.Message, ErrNoResolver.Error())
	}
}

func TestExportImageTimeout(t *testing.T) {
	slow := imaging.ResolverFunc(func(ctx context.Context, ref string) (imaging.Image, error) {
		<-ctx.Done()
		return imaging.Image{}, ctx.Err()
	})
	doc := withImage(menu(), "ok:slow")

	start := time.Now()
	a, err := New(nil).WithResolver(slow).ImageTimeout(20*time.Millisecond).ExportDocument(context.Background(), doc)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
	require.Len(t, a.Warnings, 1)
	assert.Equal(t, "ok:slow", a.Warnings[0].Ref)
}

func TestExportSnapshot(t *testing.T) {
	doc := withImage(menu(), "ok:photo")
	// the resolver runs after the snapshot is taken; edits it makes to the
	// live document must not show up in the export
	r := imaging.ResolverFunc(func(ctx context.Context, ref string) (imaging.Image, error) {
		return imaging.Image{}, errors.New("unavailable")
	})
	exp := New(nil).WithResolver(imaging.ResolverFunc(func(ctx context.Context, ref string) (imaging.Image, error) {
		doc.Name = "Changed"
		doc.Sections = nil
		return r.Resolve(ctx, ref)
	})).Uncompressed()

	a, err := exp.ExportDocument(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "Summer_Menu.pdf", a.Filename)
	assert.Contains(t, string(a.Bytes), "(Bruschetta) Tj")
}

func TestExportWithGeometry(t *testing.T) {
	src := &fakeSource{docs: map[string]*model.Document{"menu-1": menu()}}

	a, err := New(src).ExportWithGeometry(context.Background(), "menu-1", layout.LetterGeometry())
	require.NoError(t, err)
	assert.Contains(t, string(a.Bytes), "/MediaBox [0 0 612 792]")
}

func TestExportErrors(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{docs: map[string]*model.Document{"menu-1": menu()}}

	bad := layout.DefaultGeometry()
	bad.Margin = bad.PageWidth

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	tests := []struct {
		name   string
		export func() (*Artifact, error)
		reason string
		cause  error
	}{
		{"unknown id", func() (*Artifact, error) { return New(src).Export(ctx, "nope") }, ReasonNotFound, model.ErrNotFound},
		{"store down", func() (*Artifact, error) {
			return New(&fakeSource{err: errors.New("connection refused")}).Export(ctx, "menu-1")
		}, ReasonStoreFailed, nil},
		{"no source", func() (*Artifact, error) { return New(nil).Export(ctx, "menu-1") }, ReasonStoreFailed, nil},
		{"nil document", func() (*Artifact, error) { return New(nil).ExportDocument(ctx, nil) }, ReasonNoDocument, nil},
		{"bad geometry", func() (*Artifact, error) { return New(src).ExportWithGeometry(ctx, "menu-1", bad) }, ReasonInvalidGeometry, layout.ErrGeometry},
		{"cancelled", func() (*Artifact, error) { return New(src).Export(cancelled, "menu-1") }, ReasonCancelled, context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := tt.export()
			require.Error(t, err)
			assert.Nil(t, a)

			var ee *ExportError
			require.ErrorAs(t, err, &ee)
			assert.Equal(t, tt.reason, ee.Reason)
			assert.Contains(t, err.Error(), tt.reason)
			if tt.cause != nil {
				assert.ErrorIs(t, err, tt.cause)
			}
		})
	}
}

// ============================================================================
// Caching
// ============================================================================

func TestExportCache(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory(time.Minute, 0)
	defer c.Close()

	var calls int32
	exp := New(nil).WithResolver(imageResolver(t, &calls)).WithCache(c, time.Minute)
	doc := withImage(menu(), "ok:photo")

	first, err := exp.ExportDocument(ctx, doc)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, 1, c.Len())

	doc.UpdatedAt = time.Now()
	second, err := exp.ExportDocument(ctx, doc)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Bytes, second.Bytes)
	assert.Equal(t, first.Pages, second.Pages)
	assert.Equal(t, first.Filename, second.Filename)
	// images are still resolved; their bytes are part of the key
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	doc.Name = "Winter Menu"
	third, err := exp.ExportDocument(ctx, doc)
	require.NoError(t, err)
	assert.False(t, third.Cached)
	assert.Equal(t, "Winter_Menu.pdf", third.Filename)
	assert.Equal(t, 2, c.Len())
}

func TestExportCacheKeepsWarnings(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory(time.Minute, 0)
	defer c.Close()

	exp := New(nil).WithResolver(imageResolver(t, nil)).WithCache(c, 0)
	doc := withImage(menu(), "bad:photo")

	first, err := exp.ExportDocument(ctx, doc)
	require.NoError(t, err)
	second, err := exp.ExportDocument(ctx, doc)
	require.NoError(t, err)
	require.True(t, second.Cached)
	assert.Equal(t, first.Warnings, second.Warnings)
}

func TestCacheKey(t *testing.T) {
	g := layout.DefaultGeometry()
	ok := imaging.Resolved{Ref: "a", Image: imaging.Image{Width: 1, Height: 1, Format: "png", Bytes: []byte{1}}}

	base, err := CacheKey(menu(), g, nil)
	require.NoError(t, err)
	assert.Len(t, base, 64)

	stamped := menu()
	stamped.UpdatedAt = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	k, err := CacheKey(stamped, g, nil)
	require.NoError(t, err)
	assert.Equal(t, base, k, "UpdatedAt must not change the key")

	renamed := menu()
	renamed.Name = "Other"
	k, _ = CacheKey(renamed, g, nil)
	assert.NotEqual(t, base, k)

	k, _ = CacheKey(menu(), layout.LetterGeometry(), nil)
	assert.NotEqual(t, base, k)

	withOK, _ := CacheKey(menu(), g, map[string]imaging.Resolved{"a": ok})
	withFailed, _ := CacheKey(menu(), g, map[string]imaging.Resolved{"a": imaging.Failed("a", errors.New("x"))})
	assert.NotEqual(t, base, withOK)
	assert.NotEqual(t, withOK, withFailed)
}

// ============================================================================
// Logging
// ============================================================================

func TestExportLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	doc := withImage(menu(), "bad:photo")

	_, err := New(nil).WithResolver(imageResolver(t, nil)).WithLogger(zap.New(core)).ExportDocument(context.Background(), doc)
	require.NoError(t, err)

	warns := logs.FilterMessage("image unavailable").All()
	require.Len(t, warns, 1)
	assert.Equal(t, zapcore.WarnLevel, warns[0].Level)
	assert.Equal(t, "bad:photo", warns[0].ContextMap()["ref"])
	assert.Equal(t, "menu-1", warns[0].ContextMap()["document"])

	assert.Equal(t, 1, logs.FilterMessage("export finished").Len())
}

// ============================================================================
// Helpers
// ============================================================================

func TestFilename(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Summer Menu", "Summer_Menu.pdf"},
		{"  Lunch \t Specials  ", "Lunch_Specials.pdf"},
		{"Cardápio", "Cardápio.pdf"},
		{"", "menu.pdf"},
		{"   ", "menu.pdf"},
	}
	for _, tt := range tests {
		got := Filename(&model.Document{Name: tt.name})
		assert.Equal(t, tt.want, got, "Filename(%q)", tt.name)
	}
	assert.Equal(t, "menu.pdf", Filename(nil))
}

func TestShareURL(t *testing.T) {
	doc := menu()
	doc.Status = model.StatusPublished

	got, err := ShareURL("https://menus.example.com/", doc)
	require.NoError(t, err)
	assert.Equal(t, "https://menus.example.com/menu/menu-1", got)

	doc.Status = model.StatusDraft
	_, err = ShareURL("https://menus.example.com", doc)
	assert.ErrorIs(t, err, ErrNotShareable)

	doc.Status = model.StatusInactive
	_, err = ShareURL("https://menus.example.com", doc)
	assert.ErrorIs(t, err, ErrNotShareable)

	doc.Status = model.StatusPublished
	_, err = ShareURL("", doc)
	assert.Error(t, err)

	_, err = ShareURL("https://menus.example.com", &model.Document{Status: model.StatusPublished})
	assert.Error(t, err)
}

func TestFormatWarnings(t *testing.T) {
	ws := []Warning{
		{Code: WarnImageUnavailable, Message: "timeout", Ref: "a.png", SectionID: "s1"},
		{Code: WarnImageNotEmbedded, Message: "bad data", Ref: "b.png"},
	}
	assert.Equal(t,
		"[image_unavailable] section s1 \"a.png\": timeout\n[image_not_embedded] \"b.png\": bad data",
		FormatWarnings(ws))
	assert.Equal(t, "", FormatWarnings(nil))
}

func TestMust(t *testing.T) {
	assert.Equal(t, 3, Must(3, nil))
	assert.Panics(t, func() { Must(0, errors.New("boom")) })
}
