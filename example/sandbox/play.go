package main

import (
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/movement"
	"github.com/oomph-ac/locomotion/settings"
	"github.com/oomph-ac/locomotion/worker"
	"github.com/oomph-ac/locomotion/world"
	"github.com/sirupsen/logrus"
)

// cellsPerMetre is the horizontal scale of the top-down view. Terminal cells are about twice as tall
// as they are wide, so rows use half of it.
const cellsPerMetre = 4

// cameraStep is how far the camera turns per key press, in degrees.
const cameraStep = 15

// respawnDepth is how far below its spawn the avatar may fall before it is put back.
const respawnDepth = 20

type session struct {
	log    *logrus.Logger
	screen tcell.Screen

	w      *world.World
	avatar *world.Avatar
	c      *movement.Controller
	input  *keyboardInput
	// pool casts the probes in the background when set.
	pool *worker.Pool

	spawn     mgl32.Vec3
	cameraYaw float32
	dt        float32
	status    string
}

func newSession(log *logrus.Logger, screen tcell.Screen, s settings.Settings, sc scenario, async bool, recoverFunc func(any)) (*session, error) {
	w := world.New(sc.boxes()...)
	avatar := world.NewAvatar(w, sc.spawn(), s.Tuning.ColliderRadius, avatarHeight)
	avatar.SetCameraYaw(sc.CameraYaw)

	input := newKeyboardInput()
	c, err := movement.New(log, input, avatar, avatar, movement.Opts{
		Tuning:     s.Tuning,
		Client:     s.Client,
		Locomotion: &s.Locomotion,
		Modifiers:  &s.Modifiers,
		Recover:    recoverFunc,
	})
	if err != nil {
		return nil, err
	}
	if err := c.Dbg.EnableNames(s.Logging.Debug); err != nil {
		return nil, err
	}

	if err := screen.Init(); err != nil {
		return nil, err
	}
	avatar.Cast()
	var pool *worker.Pool
	if async {
		pool = worker.New(0)
	}
	return &session{
		log:       log,
		screen:    screen,
		w:         w,
		avatar:    avatar,
		c:         c,
		input:     input,
		pool:      pool,
		spawn:     sc.spawn(),
		cameraYaw: sc.CameraYaw,
		dt:        sc.dt(),
		status:    "wasd move, space jump, r sprint, c walk, j/l camera, esc quit",
	}, nil
}

// applySettings applies reloaded settings to the running controller.
func (g *session) applySettings(s settings.Settings) {
	g.c.SetTuning(s.Tuning)
	g.c.SetLocomotion(&s.Locomotion, &s.Modifiers)
	g.c.SetClient(s.Client)
	if err := g.c.Dbg.EnableNames(s.Logging.Debug); err != nil {
		g.log.Warnf("ignoring debug modes from reloaded settings: %v", err)
	}
	if lvl, err := s.LogLevel(); err == nil {
		g.log.SetLevel(lvl)
	}
	g.status = "settings reloaded"
}

func (g *session) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			g.input.press(movement.ActionForward)
		case tcell.KeyDown:
			g.input.press(movement.ActionBackward)
		case tcell.KeyLeft:
			g.input.press(movement.ActionLeft)
		case tcell.KeyRight:
			g.input.press(movement.ActionRight)
		case tcell.KeyRune:
			g.handleRune(ev.Rune())
		}
	case *tcell.EventResize:
		g.screen.Sync()
	}
	return true
}

func (g *session) handleRune(r rune) {
	switch r {
	case 'w':
		g.input.press(movement.ActionForward)
	case 's':
		g.input.press(movement.ActionBackward)
	case 'a':
		g.input.press(movement.ActionLeft)
	case 'd':
		g.input.press(movement.ActionRight)
	case ' ':
		g.input.press(movement.ActionJump)
	case 'r':
		g.status = fmt.Sprintf("sprint: %t", g.input.toggle(movement.ActionSprint))
	case 'c':
		g.status = fmt.Sprintf("walk: %t", g.input.toggle(movement.ActionWalk))
	case 'j':
		g.cameraYaw -= cameraStep
		g.avatar.SetCameraYaw(g.cameraYaw)
	case 'l':
		g.cameraYaw += cameraStep
		g.avatar.SetCameraYaw(g.cameraYaw)
	}
}

func (g *session) tick() {
	g.c.Tick(g.dt)
	g.avatar.Step(g.dt)
	if g.avatar.Position().Y() < g.spawn.Y()-respawnDepth {
		g.avatar.Teleport(g.spawn)
		g.status = "fell out of the world, respawned"
	}
	if g.pool != nil {
		g.avatar.CastAsync(g.pool)
		return
	}
	g.avatar.Cast()
}

func (g *session) run(reloads <-chan settings.Settings, errs <-chan error) {
	ticker := time.NewTicker(time.Duration(float64(g.dt) * float64(time.Second)))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !g.handleInput(ev) {
				return
			}
		case s, ok := <-reloads:
			if !ok {
				reloads = nil
				continue
			}
			g.applySettings(s)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			g.status = fmt.Sprintf("settings error: %v", err)
		case <-ticker.C:
			g.tick()
			g.draw()
		}
	}
}

func (g *session) draw() {
	g.screen.Clear()
	width, height := g.screen.Size()
	pos := g.avatar.Position()
	cx, cy := width/2, height/2

	toScreen := func(x, z float32) (int, int) {
		return cx + int(math32.Round((x-pos.X())*cellsPerMetre)), cy - int(math32.Round((z-pos.Z())*cellsPerMetre/2))
	}

	for _, bb := range g.w.Boxes() {
		g.drawBox(bb, pos, toScreen)
	}

	footprint := g.avatar.BoundingBox()
	fx0, fy0 := toScreen(footprint.Min().X(), footprint.Max().Z())
	fx1, fy1 := toScreen(footprint.Max().X(), footprint.Min().Z())
	for y := fy0; y <= fy1; y++ {
		for x := fx0; x <= fx1; x++ {
			g.screen.SetContent(x, y, 'o', nil, tcell.StyleDefault.Foreground(tcell.ColorYellow))
		}
	}

	k := g.c.Kinematics()
	facing := '^'
	switch o := k.Orientation; {
	case o >= 45 && o < 135:
		facing = '>'
	case o >= 135 && o < 225:
		facing = 'v'
	case o >= 225 && o < 315:
		facing = '<'
	}
	ax, ay := toScreen(pos.X(), pos.Z())
	g.screen.SetContent(ax, ay, facing, nil, tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true))

	gnd, step, jump := g.c.Ground(), g.c.Step(), g.c.Jump()
	lines := []string{
		fmt.Sprintf("tick %d  pos %.2f %.2f %.2f", g.c.CurrentTick(), pos.X(), pos.Y(), pos.Z()),
		fmt.Sprintf("speed %.2f  vy %.2f  facing %.0f  camera %.0f", k.Speed, k.Velocity.Y(), k.Orientation, g.cameraYaw),
		fmt.Sprintf("grounded %t (world %t)  jumping %t  stepping %t  ground dist %.3f", gnd.Grounded, g.avatar.OnGround(), jump.Jumping(), step.Stepping, gnd.Distance),
		g.status,
	}
	for i, line := range lines {
		drawText(g.screen, 0, i, tcell.StyleDefault, line)
	}
	g.screen.Show()
}

// drawBox draws the part of a box around the avatar's feet. Boxes above the avatar are drawn dim.
func (g *session) drawBox(bb cube.BBox, pos mgl32.Vec3, toScreen func(x, z float32) (int, int)) {
	if bb.Max().Y() <= pos.Y()-1 {
		return
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	char := '#'
	switch top := bb.Max().Y() - pos.Y(); {
	case top <= 0.01:
		char, style = '.', tcell.StyleDefault.Foreground(tcell.ColorGray)
	case top <= g.c.Tuning().MaxStepHeight:
		char = '='
	case bb.Min().Y() > pos.Y()+avatarHeight:
		char, style = ':', tcell.StyleDefault.Foreground(tcell.ColorBlue)
	}

	x0, y0 := toScreen(bb.Min().X(), bb.Max().Z())
	x1, y1 := toScreen(bb.Max().X(), bb.Min().Z())
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			g.screen.SetContent(x, y, char, nil, style)
		}
	}
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func (g *session) cleanup() {
	g.screen.Fini()
	if g.pool != nil {
		g.pool.Close()
	}
}
