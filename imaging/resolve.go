package imaging

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// DefaultTimeout bounds each image resolution when no timeout is given
const DefaultTimeout = 5 * time.Second

// DefaultWorkers is the number of concurrent resolutions in ResolveAll
const DefaultWorkers = 4

// Options control ResolveAll
type Options struct {
	Timeout time.Duration // per image
	Workers int
}

// ResolveAll resolves every unique ref concurrently. Each resolution runs
// under its own timeout; errors, panics and timeouts become failed outcomes,
// so the returned map always holds one entry per non-empty ref and the call
// returns only once every ref has succeeded or failed.
func ResolveAll(ctx context.Context, r Resolver, refs []string, opts Options) map[string]Resolved {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}

	unique := make([]string, 0, len(refs))
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		if strings.TrimSpace(ref) == "" || seen[ref] {
			continue
		}
		seen[ref] = true
		unique = append(unique, ref)
	}

	out := make(map[string]Resolved, len(unique))
	if len(unique) == 0 {
		return out
	}

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		jobs = make(chan string)
	)
	workers := opts.Workers
	if workers > len(unique) {
		workers = len(unique)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ref := range jobs {
				res := resolveOne(ctx, r, ref, opts.Timeout)
				mu.Lock()
				out[ref] = res
				mu.Unlock()
			}
		}()
	}
	for _, ref := range unique {
		jobs <- ref
	}
	close(jobs)
	wg.Wait()
	return out
}

func resolveOne(parent context.Context, r Resolver, ref string, timeout time.Duration) (res Resolved) {
	if r == nil {
		return Failed(ref, fmt.Errorf("no image resolver configured"))
	}

	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	type outcome struct {
		img Image
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- outcome{err: fmt.Errorf("resolver panic: %v", p)}
			}
		}()
		img, err := r.Resolve(ctx, ref)
		done <- outcome{img: img, err: err}
	}()

	// A resolver that ignores its context must not hold up the export.
	select {
	case o := <-done:
		if o.err != nil {
			return Failed(ref, o.err)
		}
		if o.img.Width <= 0 || o.img.Height <= 0 {
			return Failed(ref, fmt.Errorf("image has no area"))
		}
		return Resolved{Ref: ref, Image: o.img}
	case <-ctx.Done():
		return Failed(ref, fmt.Errorf("resolving image: %w", ctx.Err()))
	}
}
