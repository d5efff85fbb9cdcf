package tactical

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// preloadWorkers bounds the icon fan-out during a bulk token set.
const preloadWorkers = 8

// ImageCache loads and memoizes decoded bitmaps by URL. A failed icon load is
// logged and replaced by a generated placeholder cached under the original
// URL, so repeated Request calls never re-trigger fetches; only an explicit
// Fetch re-attempts a failed entry. No eviction: the cache lives for the
// renderer's lifetime.
type ImageCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	client  *http.Client
	log     *slog.Logger
}

type cacheEntry struct {
	ready chan struct{} // closed when the load settles
	img   image.Image
	err   error
}

func NewImageCache(log *slog.Logger) *ImageCache {
	if log == nil {
		log = slog.Default()
	}
	return &ImageCache{
		entries: make(map[string]*cacheEntry),
		client:  http.DefaultClient,
		log:     log,
	}
}

// Request returns the cached bitmap for url, or nil while a load is still in
// flight. A miss begins an asynchronous load; failures settle as a placeholder
// so the caller is never blocked by a bad icon.
func (c *ImageCache) Request(url string) image.Image {
	if url == "" {
		return nil
	}
	c.mu.Lock()
	e, ok := c.entries[url]
	if !ok {
		e = &cacheEntry{ready: make(chan struct{})}
		c.entries[url] = e
		go c.load(context.Background(), url, e)
	}
	c.mu.Unlock()

	select {
	case <-e.ready:
		return e.img
	default:
		return nil
	}
}

// Fetch loads url synchronously, sharing in-flight and settled entries with
// Request. Unlike Request it surfaces the load error instead of substituting a
// placeholder, and an entry that settled with an error is re-attempted: the
// background stays unready after a failure until a later Fetch succeeds.
func (c *ImageCache) Fetch(ctx context.Context, url string) (image.Image, error) {
	c.mu.Lock()
	e, ok := c.entries[url]
	if ok {
		select {
		case <-e.ready:
			if e.err != nil {
				e = &cacheEntry{ready: make(chan struct{})}
				c.entries[url] = e
				go c.load(ctx, url, e)
			}
		default:
			// still in flight, wait on it below
		}
	} else {
		e = &cacheEntry{ready: make(chan struct{})}
		c.entries[url] = e
		go c.load(ctx, url, e)
	}
	c.mu.Unlock()

	select {
	case <-e.ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if e.err != nil {
		return nil, e.err
	}
	return e.img, nil
}

// Preload warms the cache for every URL before the first render. Individual
// icon failures settle as placeholders and are not reported; only context
// cancellation aborts the preload.
func (c *ImageCache) Preload(ctx context.Context, urls []string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(preloadWorkers)
	for _, u := range urls {
		if u == "" {
			continue
		}
		g.Go(func() error {
			if _, err := c.Fetch(gctx, u); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// Clear drops every cached bitmap. Called on view teardown.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

func (c *ImageCache) load(ctx context.Context, url string, e *cacheEntry) {
	img, err := c.fetch(ctx, url)
	if err != nil {
		c.log.Warn("image load failed", "url", url, "err", err)
		img = placeholderBitmap()
	}
	e.img = img
	e.err = err
	close(e.ready)
}

func (c *ImageCache) fetch(ctx context.Context, url string) (image.Image, error) {
	var r io.ReadCloser
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", url, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch %s: status %s", url, resp.Status)
		}
		r = resp.Body
	} else {
		f, err := os.Open(url)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", url, err)
		}
		r = f
	}
	defer r.Close()

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	return img, nil
}

// placeholderBitmap renders the stand-in icon: a filled grey disc on a
// transparent square.
func placeholderBitmap() image.Image {
	const size = 64
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cx, cy := float64(size)/2, float64(size)/2
	r2 := (float64(size)/2 - 1) * (float64(size)/2 - 1)
	fill := color.RGBA{R: 120, G: 120, B: 130, A: 255}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy <= r2 {
				img.SetRGBA(x, y, fill)
			}
		}
	}
	return img
}
