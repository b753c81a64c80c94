package movement

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

var ctxPool = sync.Pool{
	New: func() any {
		return &tickContext{}
	},
}

func newCtx(c *Controller, dt float32) *tickContext {
	ctx := ctxPool.Get().(*tickContext)
	ctx.c = c
	ctx.dt = dt
	return ctx
}

func putCtx(ctx *tickContext) {
	ctx.reset()
	ctxPool.Put(ctx)
}

func (ctx *tickContext) reset() {
	ctx.c = nil
	ctx.dt = 0
	ctx.axis = mgl32.Vec3{}
	ctx.jumpPressed = false
	ctx.sprint = false
	ctx.walk = false
}
