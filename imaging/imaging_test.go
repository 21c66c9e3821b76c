package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	img, err := Decode(pngBytes(t, 40, 20))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Width)
	assert.Equal(t, 20, img.Height)
	assert.Equal(t, "png", img.Format)

	img, err = Decode(jpegBytes(t, 8, 16))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", img.Format)
	assert.Equal(t, 16, img.Height)

	_, err = Decode([]byte("not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Decode(nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestHTTPResolver(t *testing.T) {
	data := pngBytes(t, 10, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			_, _ = w.Write(data)
		case "/big.png":
			_, _ = w.Write(make([]byte, 2048))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	res := NewHTTPResolver(time.Second, 1024)

	img, err := res.Resolve(context.Background(), srv.URL+"/ok.png")
	require.NoError(t, err)
	assert.Equal(t, 10, img.Width)

	_, err = res.Resolve(context.Background(), srv.URL+"/missing.png")
	assert.Error(t, err)

	_, err = res.Resolve(context.Background(), srv.URL+"/big.png")
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestDataURIResolver(t *testing.T) {
	ref := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t, 3, 4))
	img, err := DataURIResolver{}.Resolve(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Width)
	assert.Equal(t, 4, img.Height)

	_, err = DataURIResolver{}.Resolve(context.Background(), "data:text/plain,hello")
	assert.Error(t, err)
	_, err = DataURIResolver{}.Resolve(context.Background(), "https://x")
	assert.Error(t, err)
}

func TestFileResolver(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.png"), pngBytes(t, 5, 5), 0o644))

	r := FileResolver{Root: dir}
	img, err := r.Resolve(context.Background(), "logo.png")
	require.NoError(t, err)
	assert.Equal(t, 5, img.Width)

	img, err = r.Resolve(context.Background(), "file://logo.png")
	require.NoError(t, err)
	assert.Equal(t, 5, img.Height)

	// "../" cannot escape the root
	_, err = r.Resolve(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
}

func TestParseS3Ref(t *testing.T) {
	bucket, key, err := ParseS3Ref("s3://menus/logos/a.png")
	require.NoError(t, err)
	assert.Equal(t, "menus", bucket)
	assert.Equal(t, "logos/a.png", key)

	_, _, err = ParseS3Ref("s3://menus/")
	assert.Error(t, err)
	_, _, err = ParseS3Ref("https://menus/a.png")
	assert.Error(t, err)
}

func TestMux(t *testing.T) {
	var got []string
	record := func(name string) Resolver {
		return ResolverFunc(func(_ context.Context, ref string) (Image, error) {
			got = append(got, name+":"+ref)
			return Image{Width: 1, Height: 1}, nil
		})
	}
	m := NewMux().
		Handle("https", record("http")).
		Handle("s3", record("s3")).
		Handle("", record("file"))

	ctx := context.Background()
	for _, ref := range []string{"https://a/b.png", "S3://bucket/k", "images/c.png", "./d.png"} {
		_, err := m.Resolve(ctx, ref)
		require.NoError(t, err, ref)
	}
	assert.Equal(t, []string{
		"http:https://a/b.png",
		"s3:S3://bucket/k",
		"file:images/c.png",
		"file:./d.png",
	}, got)

	_, err := m.Resolve(ctx, "ftp://host/x.png")
	assert.ErrorIs(t, err, ErrUnknownScheme)
}

func TestResolveAll(t *testing.T) {
	var calls atomic.Int32
	r := ResolverFunc(func(ctx context.Context, ref string) (Image, error) {
		calls.Add(1)
		switch ref {
		case "slow":
			<-ctx.Done()
			return Image{}, ctx.Err()
		case "stuck":
			// ignores its context entirely
			time.Sleep(time.Second)
			return Image{Width: 1, Height: 1}, nil
		case "broken":
			return Image{}, errors.New("boom")
		case "panics":
			panic("bad decoder")
		}
		return Image{Width: 10, Height: 5, Format: "png"}, nil
	})

	refs := []string{"a", "b", "a", "", "slow", "stuck", "broken", "panics"}
	start := time.Now()
	out := ResolveAll(context.Background(), r, refs, Options{Timeout: 50 * time.Millisecond, Workers: 8})

	assert.Less(t, time.Since(start), 900*time.Millisecond)
	assert.Len(t, out, 7)
	assert.EqualValues(t, 7, calls.Load())

	assert.True(t, out["a"].OK())
	assert.True(t, out["b"].OK())
	for _, ref := range []string{"slow", "stuck", "broken", "panics"} {
		assert.False(t, out[ref].OK(), ref)
		assert.Error(t, out[ref].Err, ref)
	}
	assert.ErrorIs(t, out["slow"].Err, context.DeadlineExceeded)
}

func TestResolveAllNilResolver(t *testing.T) {
	out := ResolveAll(context.Background(), nil, []string{"a"}, Options{})
	require.Contains(t, out, "a")
	assert.False(t, out["a"].OK())
}

func TestResolvedDigest(t *testing.T) {
	ok := Resolved{Ref: "a", Image: Image{Width: 1, Height: 1, Bytes: []byte{1, 2}}}
	same := Resolved{Ref: "a", Image: Image{Width: 1, Height: 1, Bytes: []byte{1, 2}}}
	other := Resolved{Ref: "a", Image: Image{Width: 1, Height: 1, Bytes: []byte{3}}}
	failed := Failed("a", errors.New("x"))

	assert.Equal(t, ok.Digest(), same.Digest())
	assert.NotEqual(t, ok.Digest(), other.Digest())
	assert.NotEqual(t, ok.Digest(), failed.Digest())
}
