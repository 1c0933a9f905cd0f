// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package diagnostics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard_SuppressAndRelease(t *testing.T) {
	g := NewGuard(nil)
	require.Equal(t, All, g.Level())

	release := g.Suppress(Notice)
	assert.False(t, g.Enabled(Notice))
	assert.True(t, g.Enabled(Warning))
	assert.False(t, g.Report(Notice, "undefined index: foo"))
	assert.True(t, g.Report(Warning, "bar"))
	assert.Equal(t, int64(1), g.Suppressed())

	release()
	assert.Equal(t, All, g.Level())

	// calling release twice does not underflow other holds
	inner := g.Suppress(Notice)
	release()
	assert.False(t, g.Enabled(Notice))
	inner()
	assert.True(t, g.Enabled(Notice))
}

func TestGuard_NestedSections(t *testing.T) {
	g := NewGuard(nil)

	outer := g.Suppress(Notice | Deprecated)
	inner := g.Suppress(Notice)
	inner()
	assert.False(t, g.Enabled(Notice), "outer hold still active")
	assert.False(t, g.Enabled(Deprecated))
	outer()
	assert.Equal(t, All, g.Level())
}

func TestGuard_RestoredOnPanic(t *testing.T) {
	g := NewGuard(nil)

	func() {
		defer func() { _ = recover() }()
		release := g.Suppress(Notice)
		defer release()
		panic("plugin failed")
	}()

	assert.True(t, g.Enabled(Notice))
}

func TestGuard_Concurrent(t *testing.T) {
	g := NewGuard(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := g.Suppress(Notice)
			defer release()
			g.Report(Notice, "x")
		}()
	}
	wg.Wait()

	assert.Equal(t, All, g.Level())
	assert.Equal(t, int64(50), g.Suppressed())
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "notice", Notice.String())
	assert.Equal(t, "notice|deprecated", (Notice | Deprecated).String())
	assert.Equal(t, "none", Level(0).String())
}

func TestDefaultGuard(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	g := NewGuard(nil)
	SetDefault(g)
	release := Suppress(Warning)
	assert.False(t, Report(Warning, "w"))
	release()
	assert.True(t, Report(Warning, "w"))
}
