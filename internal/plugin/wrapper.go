// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package plugin

import (
	"github.com/spf13/afero"

	"t3compat/internal/contentobject"
	"t3compat/internal/diagnostics"
)

// Wrapper invokes legacy plugins inside a controller context.
type Wrapper struct {
	ctx   *ControllerContext
	fs    afero.Fs
	guard *diagnostics.Guard
}

// NewWrapper creates a Wrapper. Content objects read files from fs. Notices
// go to the guard of ctx, then to guard, then to the process-wide one.
func NewWrapper(ctx *ControllerContext, fs afero.Fs, guard *diagnostics.Guard) *Wrapper {
	return &Wrapper{ctx: ctx, fs: fs, guard: guard}
}

// SetControllerContext replaces the controller context used for the next calls.
func (w *Wrapper) SetControllerContext(ctx *ControllerContext) {
	w.ctx = ctx
}

// WrapPlugin initializes p and runs its Main with empty content. Values that
// are not a Plugin produce empty content. Notices are suppressed while Main
// runs and restored on every exit path, panics included.
func (w *Wrapper) WrapPlugin(p any, conf Config) (string, error) {
	if conf == nil {
		conf = Config{}
	}
	var ctx ControllerContext
	if w.ctx != nil {
		ctx = *w.ctx
	}
	if ctx.Guard == nil {
		ctx.Guard = w.guard
	}
	if ctx.Guard == nil {
		ctx.Guard = diagnostics.Default()
	}
	if in, ok := p.(Initializer); ok {
		in.Initialize(conf, contentobject.NewRenderer(w.fs), ctx.Request, &ctx)
	}

	pl, ok := p.(Plugin)
	if !ok {
		return "", nil
	}

	release := ctx.Guard.Suppress(diagnostics.Notice)
	defer release()

	return pl.Main("", conf)
}
