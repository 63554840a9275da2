package roster

import "sync"

// ImagePool keeps one ImageLoader per image source, created and started on
// first use.
type ImagePool struct {
	fetcher Fetcher
	opts    []LoaderOption

	mu      sync.Mutex
	loaders map[string]*ImageLoader
	closed  bool
}

func NewImagePool(fetcher Fetcher, opts ...LoaderOption) *ImagePool {
	return &ImagePool{
		fetcher: fetcher,
		opts:    opts,
		loaders: make(map[string]*ImageLoader),
	}
}

// Get returns the loader for src, starting it if this is the first request.
// It returns nil after Close.
func (p *ImagePool) Get(src string) *ImageLoader {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	if l, ok := p.loaders[src]; ok {
		return l
	}

	l := NewImageLoader(src, p.fetcher, p.opts...)
	p.loaders[src] = l
	l.Start()
	return l
}

// Lookup returns the loader for src without creating one.
func (p *ImagePool) Lookup(src string) (*ImageLoader, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.loaders[src]
	return l, ok
}

func (p *ImagePool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.loaders)
}

// Close stops every loader.
func (p *ImagePool) Close() {
	p.mu.Lock()
	loaders := p.loaders
	p.loaders = make(map[string]*ImageLoader)
	p.closed = true
	p.mu.Unlock()

	for _, l := range loaders {
		l.Close()
	}
}
