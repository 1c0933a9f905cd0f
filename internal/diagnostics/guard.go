// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package diagnostics holds the process-wide set of reported legacy
// diagnostics (notices, warnings, deprecations) and the scoped guard used to
// silence some of them while legacy code runs.
//
// Suppression is counted: overlapping or nested sections each acquire and
// release their own hold, and a level is reported again once the last hold
// on it is released.
package diagnostics

import (
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Level is a bit set of diagnostic classes.
type Level uint32

const (
	// Notice covers "undefined index/property" style messages from legacy code.
	Notice Level = 1 << iota
	Warning
	Deprecated

	All = Notice | Warning | Deprecated
)

var levelNames = []struct {
	level Level
	name  string
}{
	{Notice, "notice"},
	{Warning, "warning"},
	{Deprecated, "deprecated"},
}

func (l Level) String() string {
	var parts []string
	for _, n := range levelNames {
		if l&n.level != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Guard tracks which diagnostic levels are currently reported.
type Guard struct {
	mu    sync.Mutex
	holds map[Level]int
	// level is read without the lock by Enabled and Report
	level atomic.Uint32

	log        *zap.Logger
	suppressed atomic.Int64
}

// NewGuard creates a Guard reporting all levels to log. A nil logger drops
// reported diagnostics.
func NewGuard(log *zap.Logger) *Guard {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Guard{holds: make(map[Level]int), log: log}
	g.level.Store(uint32(All))
	return g
}

// Suppress stops reporting the levels in mask until the returned release
// function is called. Release is idempotent and meant to be deferred:
//
//	release := g.Suppress(diagnostics.Notice)
//	defer release()
func (g *Guard) Suppress(mask Level) (release func()) {
	g.mu.Lock()
	for _, n := range levelNames {
		if mask&n.level != 0 {
			g.holds[n.level]++
		}
	}
	g.recompute()
	g.mu.Unlock()

	return sync.OnceFunc(func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		for _, n := range levelNames {
			if mask&n.level != 0 {
				g.holds[n.level]--
				if g.holds[n.level] <= 0 {
					delete(g.holds, n.level)
				}
			}
		}
		g.recompute()
	})
}

// recompute must be called with mu held.
func (g *Guard) recompute() {
	lvl := All
	for l := range g.holds {
		lvl &^= l
	}
	g.level.Store(uint32(lvl))
}

// Level returns the currently reported levels.
func (g *Guard) Level() Level {
	return Level(g.level.Load())
}

// Enabled reports whether l is currently reported.
func (g *Guard) Enabled(l Level) bool {
	return g.Level()&l == l
}

// Report logs msg at level l unless l is suppressed. It returns whether the
// message was reported.
func (g *Guard) Report(l Level, msg string, fields ...zap.Field) bool {
	if !g.Enabled(l) {
		g.suppressed.Add(1)
		return false
	}
	g.log.Warn(msg, append(fields, zap.Stringer("level", l))...)
	return true
}

// Suppressed returns how many reports were dropped so far.
func (g *Guard) Suppressed() int64 {
	return g.suppressed.Load()
}

var std atomic.Pointer[Guard]

func init() {
	std.Store(NewGuard(nil))
}

// Default returns the process-wide guard.
func Default() *Guard { return std.Load() }

// SetDefault replaces the process-wide guard, e.g. to attach a logger.
func SetDefault(g *Guard) { std.Store(g) }

// Suppress calls Suppress on the process-wide guard.
func Suppress(mask Level) func() { return Default().Suppress(mask) }

// Report calls Report on the process-wide guard.
func Report(l Level, msg string, fields ...zap.Field) bool {
	return Default().Report(l, msg, fields...)
}
