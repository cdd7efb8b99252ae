package observability

import "sync/atomic"

// hookSet is replaced as a whole on registration; readers never lock.
type hookSet struct {
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var (
	registry atomic.Pointer[hookSet]
	noop     = hookSet{NoopPipelineHooks{}, NoopCacheHooks{}, NoopHTTPHooks{}}
)

func init() { Reset() }

// update applies fn to a copy of the current set and publishes it.
func update(fn func(*hookSet)) {
	for {
		old := registry.Load()
		next := *old
		fn(&next)
		if registry.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetPipelineHooks registers global pipeline hooks. The pipeline uses them
// when neither the options nor the runner bring their own. nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(s *hookSet) { s.pipeline = h })
	}
}

// SetCacheHooks registers global cache hooks. nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(s *hookSet) { s.cache = h })
	}
}

// SetHTTPHooks registers global HTTP hooks. nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(s *hookSet) { s.http = h })
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return registry.Load().pipeline }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return registry.Load().cache }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return registry.Load().http }

// Reset restores the no-op hooks.
func Reset() {
	s := noop
	registry.Store(&s)
}
