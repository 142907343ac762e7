package trace

import (
	"fmt"
	"sync"
	"time"
)

// Inflight is the set of files the driver is formatting right now.
// A nil *Inflight tracks nothing.
type Inflight struct {
	mu    sync.Mutex
	next  uint64
	files map[uint64]inflightFile
}

type inflightFile struct {
	path    string
	started time.Time
}

// NewInflight returns an empty set.
func NewInflight() *Inflight {
	return &Inflight{files: make(map[uint64]inflightFile)}
}

// add registers path and returns the func that removes it again.
func (in *Inflight) add(path string) func() {
	if in == nil {
		return nil
	}
	in.mu.Lock()
	in.next++
	key := in.next
	in.files[key] = inflightFile{path: path, started: time.Now()}
	in.mu.Unlock()
	return func() {
		in.mu.Lock()
		delete(in.files, key)
		in.mu.Unlock()
	}
}

// Oldest reports how many files are in flight and which one started first.
func (in *Inflight) Oldest(now time.Time) (n int, path string, age time.Duration) {
	if in == nil {
		return 0, "", 0
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	var first time.Time
	for _, f := range in.files {
		if path == "" || f.started.Before(first) {
			path, first = f.path, f.started
		}
	}
	if path != "" {
		age = now.Sub(first)
	}
	return len(in.files), path, age
}

// Heartbeat reports the files still in flight every interval. It stays
// silent while no file is open, so a beat always names a file that is
// taking long.
type Heartbeat struct {
	tracer   Tracer
	inflight *Inflight
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// StartHeartbeat returns nil when tracing is off or interval is not positive;
// Stop on a nil Heartbeat is a no-op.
func StartHeartbeat(tracer Tracer, inflight *Inflight, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || inflight == nil || interval <= 0 {
		return nil
	}

	h := &Heartbeat{
		tracer:   tracer,
		inflight: inflight,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
	h.wg.Add(1)
	go h.run()
	return h
}

func (h *Heartbeat) run() {
	defer h.wg.Done()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			n, path, age := h.inflight.Oldest(now)
			if n == 0 {
				continue
			}
			h.tracer.Emit(&Event{
				Time:   now,
				Seq:    nextSeq(),
				Kind:   KindHeartbeat,
				Scope:  ScopeFile,
				GID:    goroutineID(),
				Name:   "heartbeat",
				File:   path,
				Detail: fmt.Sprintf("%d in flight, oldest %s", n, age.Round(time.Millisecond)),
			})
		case <-h.stopCh:
			return
		}
	}
}

// Stop ends the loop and waits for it.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.stopOnce.Do(func() { close(h.stopCh) })
	h.wg.Wait()
}
