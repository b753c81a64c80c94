package main

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/game"
	"github.com/oomph-ac/locomotion/movement"
	"github.com/oomph-ac/locomotion/settings"
	"github.com/oomph-ac/locomotion/world"
	"github.com/sirupsen/logrus"
)

// avatarHeight is the height of the sandbox avatar's box.
const avatarHeight = 1.8

// summary describes the outcome of a scenario.
type summary struct {
	Ticks     int
	Position  mgl32.Vec3
	MaxHeight float32
	Grounded  bool
	// Supported is whether the world itself had the avatar resting on a box at the end.
	Supported   bool
	StepTicks   int
	Resyncs     int
	WorldDigest uint64
}

// runScenario plays the scenario passed to the end and returns a summary of it.
func runScenario(log *logrus.Logger, s settings.Settings, sc scenario, rec *recorder, recoverFunc func(any)) (summary, error) {
	w := world.New(sc.boxes()...)
	avatar := world.NewAvatar(w, sc.spawn(), s.Tuning.ColliderRadius, avatarHeight)
	avatar.SetCameraYaw(sc.CameraYaw)

	in := newScriptedInput()
	c, err := movement.New(log, in, avatar, avatar, movement.Opts{
		Tuning:     s.Tuning,
		Client:     s.Client,
		Locomotion: &s.Locomotion,
		Modifiers:  &s.Modifiers,
		Recover:    recoverFunc,
	})
	if err != nil {
		return summary{}, err
	}
	if err := c.Dbg.EnableNames(s.Logging.Debug); err != nil {
		return summary{}, err
	}

	sum := summary{WorldDigest: w.Digest(), MaxHeight: float32(math32.Inf(-1))}
	dt := sc.dt()
	avatar.Cast()
	for tick := 1; tick <= sc.Ticks; tick++ {
		var (
			press    []string
			override *mgl32.Vec3
			platform mgl32.Vec3
		)
		for _, st := range sc.stepsAt(tick) {
			press = append(press, st.Press...)
			if len(st.Override) == 3 {
				v := mgl32.Vec3{st.Override[0], st.Override[1], st.Override[2]}
				override = &v
			}
			if len(st.Platform) == 3 {
				platform = mgl32.Vec3{st.Platform[0], st.Platform[1], st.Platform[2]}
			}
		}
		in.set(press)
		avatar.SetExternalVelocity(platform)

		if info, ok := avatar.MovementInfo(); ok && c.Kinematics().Velocity.Sub(info.RequestedVelocity).Len() > game.ResyncTolerance {
			sum.Resyncs++
		}
		c.Tick(dt)
		if override != nil {
			avatar.Override(*override, 1)
		}
		avatar.Step(dt)
		avatar.Cast()

		frames := c.History()
		if len(frames) == 0 {
			continue
		}
		frame := frames[len(frames)-1]
		if err := rec.write(frame); err != nil {
			return sum, err
		}
		if frame.Stepping {
			sum.StepTicks++
		}
		sum.MaxHeight = math32.Max(sum.MaxHeight, frame.Position.Y())
	}

	sum.Ticks = sc.Ticks
	sum.Position = avatar.Position()
	sum.Grounded = c.Ground().Grounded
	sum.Supported = avatar.OnGround()
	log.WithFields(logrus.Fields{
		"scenario":  sc.Name,
		"ticks":     sum.Ticks,
		"position":  sum.Position,
		"maxHeight": sum.MaxHeight,
		"grounded":  sum.Grounded,
		"supported": sum.Supported,
		"stepTicks": sum.StepTicks,
		"resyncs":   sum.Resyncs,
		"world":     sum.WorldDigest,
	}).Info("scenario finished")
	return sum, nil
}
