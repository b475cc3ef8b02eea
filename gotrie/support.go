package gotrie

import "sync"

// NewCatalogContext returns a CatalogContext whose Done() channel closes once Close() has been
// called and every attached catalog has been detached.
func NewCatalogContext() CatalogContext {
	ctx := &catalogContext{
		open:    make(map[Catalog]struct{}),
		closing: make(chan struct{}),
		closed:  make(chan struct{}),
	}
	ctx.pending.Add(1)
	go func() {
		<-ctx.closing
		ctx.pending.Done()
		ctx.pending.Wait()
		close(ctx.closed)
	}()
	return ctx
}

type catalogContext struct {
	mu        sync.Mutex
	pending   sync.WaitGroup
	open      map[Catalog]struct{}
	closeOnce sync.Once
	closing   chan struct{}
	closed    chan struct{}
}

func (ctx *catalogContext) AttachCatalog(cat Catalog) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	if _, exists := ctx.open[cat]; !exists {
		ctx.pending.Add(1)
		ctx.open[cat] = struct{}{}
	}
}

func (ctx *catalogContext) DetachCatalog(cat Catalog) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	if _, exists := ctx.open[cat]; exists {
		delete(ctx.open, cat)
		ctx.pending.Done()
	}
}

func (ctx *catalogContext) Closing() <-chan struct{} {
	return ctx.closing
}

func (ctx *catalogContext) Done() <-chan struct{} {
	return ctx.closed
}

func (ctx *catalogContext) Close() {
	ctx.closeOnce.Do(func() {
		close(ctx.closing)

		ctx.mu.Lock()
		toClose := make([]Catalog, 0, len(ctx.open))
		for cat := range ctx.open {
			toClose = append(toClose, cat)
		}
		ctx.mu.Unlock()

		for _, cat := range toClose {
			go cat.Close()
		}
	})
}
