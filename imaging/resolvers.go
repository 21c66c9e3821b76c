package imaging

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DefaultMaxBytes caps downloads when a resolver is built without a limit
const DefaultMaxBytes = 10 << 20

func readLimited(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		max = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, max)
	}
	return data, nil
}

// HTTPResolver fetches http and https references
type HTTPResolver struct {
	Client   *http.Client
	MaxBytes int64
}

// NewHTTPResolver creates an HTTPResolver with its own client
func NewHTTPResolver(timeout time.Duration, maxBytes int64) *HTTPResolver {
	return &HTTPResolver{
		Client:   &http.Client{Timeout: timeout},
		MaxBytes: maxBytes,
	}
}

func (h *HTTPResolver) Resolve(ctx context.Context, ref string) (Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return Image{}, fmt.Errorf("building request: %w", err)
	}
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Image{}, fmt.Errorf("fetching image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Image{}, fmt.Errorf("fetching image: unexpected status %s", resp.Status)
	}
	data, err := readLimited(resp.Body, h.MaxBytes)
	if err != nil {
		return Image{}, err
	}
	return Decode(data)
}

// S3Config configures an S3Resolver
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	PathStyle bool
	MaxBytes  int64
}

// S3Resolver fetches s3://bucket/key references from an S3 compatible store
type S3Resolver struct {
	cl       *minio.Client
	maxBytes int64
}

// NewS3Resolver connects a resolver to the object store in cfg
func NewS3Resolver(cfg S3Config) (*S3Resolver, error) {
	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	}
	if cfg.PathStyle {
		opts.BucketLookup = minio.BucketLookupPath
	}
	cl, err := minio.New(cfg.Endpoint, opts)
	if err != nil {
		return nil, fmt.Errorf("creating s3 client: %w", err)
	}
	return &S3Resolver{cl: cl, maxBytes: cfg.MaxBytes}, nil
}

// ParseS3Ref splits s3://bucket/key into its parts
func ParseS3Ref(ref string) (bucket, key string, err error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", "", fmt.Errorf("parsing s3 reference: %w", err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("not an s3 reference: %q", ref)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", fmt.Errorf("s3 reference has no key: %q", ref)
	}
	return u.Host, key, nil
}

func (s *S3Resolver) Resolve(ctx context.Context, ref string) (Image, error) {
	bucket, key, err := ParseS3Ref(ref)
	if err != nil {
		return Image{}, err
	}
	obj, err := s.cl.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return Image{}, fmt.Errorf("getting object: %w", err)
	}
	defer obj.Close()

	data, err := readLimited(obj, s.maxBytes)
	if err != nil {
		return Image{}, err
	}
	return Decode(data)
}

// DataURIResolver decodes base64 data: references
type DataURIResolver struct{}

func (DataURIResolver) Resolve(_ context.Context, ref string) (Image, error) {
	rest, ok := strings.CutPrefix(ref, "data:")
	if !ok {
		return Image{}, fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Image{}, fmt.Errorf("malformed data URI")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return Image{}, fmt.Errorf("data URI is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("decoding data URI: %w", err)
	}
	return Decode(data)
}

// FileResolver reads references relative to Root. References may not escape
// Root.
type FileResolver struct {
	Root     string
	MaxBytes int64
}

func (f FileResolver) Resolve(_ context.Context, ref string) (Image, error) {
	name := strings.TrimPrefix(ref, "file://")
	clean := filepath.Clean("/" + filepath.FromSlash(name))
	path := filepath.Join(f.Root, clean)

	fh, err := os.Open(path)
	if err != nil {
		return Image{}, fmt.Errorf("opening image: %w", err)
	}
	defer fh.Close()

	data, err := readLimited(fh, f.MaxBytes)
	if err != nil {
		return Image{}, err
	}
	return Decode(data)
}

// Mux dispatches references to a resolver by URI scheme. References
// without a scheme go to the "" entry, if registered.
type Mux struct {
	resolvers map[string]Resolver
}

// NewMux creates an empty Mux
func NewMux() *Mux {
	return &Mux{resolvers: make(map[string]Resolver)}
}

// Handle registers r for scheme and returns the Mux for chaining
func (m *Mux) Handle(scheme string, r Resolver) *Mux {
	m.resolvers[strings.ToLower(scheme)] = r
	return m
}

func (m *Mux) Resolve(ctx context.Context, ref string) (Image, error) {
	scheme := ""
	if i := strings.Index(ref, ":"); i > 0 && !strings.ContainsAny(ref[:i], "/.") {
		scheme = strings.ToLower(ref[:i])
	}
	r, ok := m.resolvers[scheme]
	if !ok {
		return Image{}, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
	return r.Resolve(ctx, ref)
}
