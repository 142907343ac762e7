package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Tracer receives trace events. Implementations must be goroutine-safe since
// the driver formats files in parallel.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool
}

// StorageMode determines how events are stored.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // immediate write
	ModeRing                          // circular buffer, dumped on failure
	ModeBoth
)

// String returns the string representation of StorageMode.
func (m StorageMode) String() string {
	switch m {
	case ModeStream:
		return "stream"
	case ModeRing:
		return "ring"
	case ModeBoth:
		return "both"
	default:
		return "unknown"
	}
}

// ParseMode converts a string to StorageMode.
func ParseMode(s string) (StorageMode, error) {
	switch strings.ToLower(s) {
	case "stream", "":
		return ModeStream, nil
	case "ring":
		return ModeRing, nil
	case "both":
		return ModeBoth, nil
	default:
		return ModeStream, fmt.Errorf("invalid trace mode: %q (expected: stream|ring|both)", s)
	}
}

// Config holds tracer configuration.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format        // FormatAuto picks by OutputPath extension
	Output     io.Writer     // takes precedence over OutputPath
	OutputPath string        // "-" or empty means stderr
	RingSize   int           // default 4096
	Heartbeat  time.Duration // 0 disables
}

// Session bundles a tracer with the pieces the CLI tears down at exit.
type Session struct {
	Tracer    Tracer
	Ring      *RingTracer // nil unless the mode keeps a ring
	Inflight  *Inflight   // files open under WithSession; nil when tracing is off
	heartbeat *Heartbeat
}

// Close stops the heartbeat and closes the tracer.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	s.heartbeat.Stop()
	if s.Tracer == nil {
		return nil
	}
	return s.Tracer.Close()
}

// Open builds a tracer from cfg and starts its heartbeat, if any.
func Open(cfg Config) (*Session, error) {
	if cfg.Level == LevelOff {
		return &Session{Tracer: Nop}, nil
	}
	if cfg.Mode == 0 {
		cfg.Mode = ModeStream
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = 4096
	}
	format := resolveFormat(cfg.Format, cfg.OutputPath)

	sess := &Session{}
	switch cfg.Mode {
	case ModeStream:
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		sess.Tracer = NewStreamTracer(w, cfg.Level, format)
	case ModeRing:
		sess.Ring = NewRingTracer(cfg.RingSize, cfg.Level)
		sess.Tracer = sess.Ring
	case ModeBoth:
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		sess.Ring = NewRingTracer(cfg.RingSize, cfg.Level)
		sess.Tracer = NewMultiTracer(cfg.Level, NewStreamTracer(w, cfg.Level, format), sess.Ring)
	default:
		return nil, fmt.Errorf("unknown trace mode: %v", cfg.Mode)
	}
	sess.Inflight = NewInflight()
	sess.heartbeat = StartHeartbeat(sess.Tracer, sess.Inflight, cfg.Heartbeat)
	return sess, nil
}

func resolveFormat(f Format, path string) Format {
	if f != FormatAuto {
		return f
	}
	if strings.HasSuffix(path, ".ndjson") || strings.HasSuffix(path, ".jsonl") {
		return FormatNDJSON
	}
	return FormatText
}

func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return nopCloser{os.Stderr}, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}

// nopCloser keeps Close from closing stderr.
type nopCloser struct{ io.Writer }
