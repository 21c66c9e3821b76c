package menudoc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/tsawler/menudoc/cache"
	"github.com/tsawler/menudoc/imaging"
	"github.com/tsawler/menudoc/layout"
	"github.com/tsawler/menudoc/model"
	"github.com/tsawler/menudoc/pdf"
)

// ErrNoResolver is the failure recorded for every image when the exporter
// has no resolver
var ErrNoResolver = errors.New("no image resolver configured")

// Source loads documents by id. store.Store satisfies it.
type Source interface {
	Load(ctx context.Context, id string) (*model.Document, error)
}

// Exporter turns documents into PDF artifacts. Each configuration method
// returns a new Exporter, so a configured Exporter can be shared between
// goroutines and specialised per call.
type Exporter struct {
	source   Source
	resolver imaging.Resolver
	cache    cache.Cache
	log      *zap.Logger
	options  ExportOptions
}

// New creates an Exporter that loads documents from source. source may be
// nil when only ExportDocument is used.
func New(source Source) *Exporter {
	return &Exporter{
		source:  source,
		log:     zap.NewNop(),
		options: defaultOptions(),
	}
}

func (e *Exporter) clone() *Exporter {
	c := *e
	return &c
}

// ============================================================================
// Configuration Methods (return new Exporter instance)
// ============================================================================

// WithResolver sets the resolver used for every image reference. Without
// one, all images are drawn as placeholders.
func (e *Exporter) WithResolver(r imaging.Resolver) *Exporter {
	c := e.clone()
	c.resolver = r
	return c
}

// WithCache memoizes artifacts in c for ttl. The key covers the document
// content, the geometry and the bytes of every resolved image.
func (e *Exporter) WithCache(c cache.Cache, ttl time.Duration) *Exporter {
	n := e.clone()
	n.cache = c
	n.options.cacheTTL = ttl
	return n
}

// WithLogger sets the logger. The default discards everything.
func (e *Exporter) WithLogger(l *zap.Logger) *Exporter {
	c := e.clone()
	if l == nil {
		l = zap.NewNop()
	}
	c.log = l
	return c
}

// Geometry sets the page geometry used by Export and ExportDocument.
func (e *Exporter) Geometry(g layout.Geometry) *Exporter {
	c := e.clone()
	c.options.geometry = g
	return c
}

// ImageTimeout bounds the resolution of each image. An image that takes
// longer is drawn as a placeholder.
func (e *Exporter) ImageTimeout(d time.Duration) *Exporter {
	c := e.clone()
	c.options.imageTimeout = d
	return c
}

// ImageWorkers sets how many images are resolved at once.
func (e *Exporter) ImageWorkers(n int) *Exporter {
	c := e.clone()
	c.options.imageWorkers = n
	return c
}

// Uncompressed leaves page content streams unfiltered, which makes the
// output readable in a text editor.
func (e *Exporter) Uncompressed() *Exporter {
	c := e.clone()
	c.options.uncompressed = true
	return c
}

// ============================================================================
// Export Methods
// ============================================================================

// Export loads the document with the given id and exports it with the
// configured geometry.
func (e *Exporter) Export(ctx context.Context, id string) (*Artifact, error) {
	return e.ExportWithGeometry(ctx, id, e.options.geometry)
}

// ExportWithGeometry loads the document with the given id and exports it
// with g instead of the configured geometry.
func (e *Exporter) ExportWithGeometry(ctx context.Context, id string, g layout.Geometry) (*Artifact, error) {
	if e.source == nil {
		return nil, exportError(id, ReasonStoreFailed, errors.New("no document source configured"))
	}
	doc, err := e.source.Load(ctx, id)
	switch {
	case errors.Is(err, model.ErrNotFound):
		return nil, exportError(id, ReasonNotFound, err)
	case err != nil:
		return nil, exportError(id, ReasonStoreFailed, err)
	case doc == nil:
		return nil, exportError(id, ReasonNotFound, nil)
	}
	return e.export(ctx, doc, g)
}

// ExportDocument exports an in-memory document with the configured
// geometry. doc is copied first; it may be edited as soon as the call
// starts.
func (e *Exporter) ExportDocument(ctx context.Context, doc *model.Document) (*Artifact, error) {
	if doc == nil {
		return nil, exportError("", ReasonNoDocument, nil)
	}
	return e.export(ctx, doc, e.options.geometry)
}

func (e *Exporter) export(ctx context.Context, doc *model.Document, g layout.Geometry) (*Artifact, error) {
	snap := doc.Clone()
	if err := g.Validate(); err != nil {
		return nil, exportError(snap.ID, ReasonInvalidGeometry, err)
	}

	start := time.Now()
	log := e.log.With(zap.String("document", snap.ID))
	log.Debug("export started", zap.Int("sections", len(snap.Sections)))

	images := e.resolve(ctx, snap.ImageRefs())
	if err := ctx.Err(); err != nil {
		return nil, exportError(snap.ID, ReasonCancelled, err)
	}
	logImageFailures(log, images)

	var key string
	if e.cache != nil {
		var err error
		if key, err = e.cacheKey(snap, g, images); err != nil {
			log.Warn("export cache key", zap.Error(err))
		} else if a, ok := e.cached(ctx, log, key); ok {
			a.Filename = Filename(snap)
			log.Info("export served from cache", zap.String("key", key[:12]), zap.Int("bytes", len(a.Bytes)))
			return a, nil
		}
	}

	res, err := layout.Layout(snap, g, images)
	if err != nil {
		return nil, exportError(snap.ID, ReasonInvalidGeometry, err)
	}
	data, embedWarnings, err := pdf.Render(res.Pages, pdf.Options{
		Title:        snap.Name,
		Images:       images,
		Uncompressed: e.options.uncompressed,
	})
	if err != nil {
		return nil, exportError(snap.ID, ReasonRenderFailed, err)
	}

	a := &Artifact{
		Bytes:    data,
		Filename: Filename(snap),
		Pages:    len(res.Pages),
		Warnings: collectWarnings(res.Warnings, embedWarnings),
	}
	if key != "" {
		e.store(ctx, log, key, a)
	}

	log.Info("export finished",
		zap.Int("pages", a.Pages),
		zap.Int("bytes", len(a.Bytes)),
		zap.Int("warnings", len(a.Warnings)),
		zap.Duration("duration", time.Since(start)))
	return a, nil
}

// resolve returns one outcome per reference. It returns once every image
// has succeeded or failed.
func (e *Exporter) resolve(ctx context.Context, refs []string) map[string]imaging.Resolved {
	if e.resolver == nil {
		images := make(map[string]imaging.Resolved, len(refs))
		for _, ref := range refs {
			images[ref] = imaging.Failed(ref, ErrNoResolver)
		}
		return images
	}
	return imaging.ResolveAll(ctx, e.resolver, refs, imaging.Options{
		Timeout: e.options.imageTimeout,
		Workers: e.options.imageWorkers,
	})
}

func logImageFailures(log *zap.Logger, images map[string]imaging.Resolved) {
	refs := make([]string, 0, len(images))
	for ref, r := range images {
		if !r.OK() {
			refs = append(refs, ref)
		}
	}
	sort.Strings(refs)
	for _, ref := range refs {
		log.Warn("image unavailable", zap.String("ref", ref), zap.Error(images[ref].Err))
	}
}

func collectWarnings(laid, embedded []layout.Warning) []Warning {
	out := make([]Warning, 0, len(laid)+len(embedded))
	for _, w := range laid {
		out = append(out, Warning{Code: WarnImageUnavailable, Message: w.Message, Ref: w.Ref, SectionID: w.SectionID})
	}
	for _, w := range embedded {
		out = append(out, Warning{Code: WarnImageNotEmbedded, Message: w.Message, Ref: w.Ref})
	}
	return out
}

// ============================================================================
// Caching
// ============================================================================

// cacheFormat is bumped whenever the rendered output for the same input
// changes
const cacheFormat = "menudoc/export/v1"

type cachedArtifact struct {
	Bytes    []byte    `json:"bytes"`
	Pages    int       `json:"pages"`
	Warnings []Warning `json:"warnings"`
}

// CacheKey returns the memoization key for exporting doc with g and the
// given image outcomes. The edit timestamp is excluded so saving an
// unchanged document keeps its key.
func CacheKey(doc *model.Document, g layout.Geometry, images map[string]imaging.Resolved) (string, error) {
	return cacheKey(doc, g, images, false)
}

func (e *Exporter) cacheKey(doc *model.Document, g layout.Geometry, images map[string]imaging.Resolved) (string, error) {
	return cacheKey(doc, g, images, e.options.uncompressed)
}

func cacheKey(doc *model.Document, g layout.Geometry, images map[string]imaging.Resolved, uncompressed bool) (string, error) {
	content := doc.Clone()
	content.UpdatedAt = time.Time{}
	docJSON, err := json.Marshal(content)
	if err != nil {
		return "", fmt.Errorf("encoding document: %w", err)
	}
	geoJSON, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("encoding geometry: %w", err)
	}

	h := sha256.New()
	fmt.Fprintf(h, "%s\n%t\n", cacheFormat, uncompressed)
	h.Write(docJSON)
	h.Write([]byte{'\n'})
	h.Write(geoJSON)
	h.Write([]byte{'\n'})

	refs := make([]string, 0, len(images))
	for ref := range images {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	for _, ref := range refs {
		fmt.Fprintf(h, "%s\n", images[ref].Digest())
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (e *Exporter) cached(ctx context.Context, log *zap.Logger, key string) (*Artifact, bool) {
	raw, err := e.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			log.Warn("export cache read", zap.Error(err))
		}
		return nil, false
	}
	var c cachedArtifact
	if err := json.Unmarshal(raw, &c); err != nil {
		log.Warn("export cache entry unreadable", zap.Error(err))
		_ = e.cache.Delete(ctx, key)
		return nil, false
	}
	return &Artifact{Bytes: c.Bytes, Pages: c.Pages, Warnings: c.Warnings, Cached: true}, true
}

func (e *Exporter) store(ctx context.Context, log *zap.Logger, key string, a *Artifact) {
	raw, err := json.Marshal(cachedArtifact{Bytes: a.Bytes, Pages: a.Pages, Warnings: a.Warnings})
	if err == nil {
		err = e.cache.Set(ctx, key, raw, e.options.cacheTTL)
	}
	if err != nil {
		log.Warn("export cache write", zap.Error(err))
	}
}
