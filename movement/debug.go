package movement

import (
	"strings"

	"github.com/oomph-ac/locomotion/oerror"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
	"golang.org/x/exp/slices"
)

const (
	DebugModeGround = iota
	DebugModeStep
	DebugModeJump
	DebugModeHorizontal
	DebugModeSync
	debugModeCount
)

// DebugModeList contains the names of the debug modes, indexed by mode.
var DebugModeList = []string{
	"ground",
	"step",
	"jump",
	"horizontal",
	"sync",
}

// Debugger traces the controller's decisions for the enabled debug modes. Traces are written at the
// debug level of the controller's logger.
type Debugger struct {
	log   *logrus.Logger
	modes [debugModeCount]atomic.Bool
}

// NewDebugger returns a Debugger with every mode disabled.
func NewDebugger(log *logrus.Logger) *Debugger {
	return &Debugger{log: log}
}

// Toggle flips the mode passed and returns its new state.
func (d *Debugger) Toggle(mode int) bool {
	if mode < 0 || mode >= debugModeCount {
		return false
	}
	return !d.modes[mode].Toggle()
}

// Set enables or disables the mode passed.
func (d *Debugger) Set(mode int, enabled bool) {
	if mode < 0 || mode >= debugModeCount {
		return
	}
	d.modes[mode].Store(enabled)
}

// Enabled returns true if the mode passed is enabled.
func (d *Debugger) Enabled(mode int) bool {
	if mode < 0 || mode >= debugModeCount {
		return false
	}
	return d.modes[mode].Load()
}

// EnableNames enables exactly the modes named, disabling every other mode. The name "all" enables
// every mode.
func (d *Debugger) EnableNames(names []string) error {
	var want [debugModeCount]bool
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "all" {
			for i := range want {
				want[i] = true
			}
			continue
		}
		mode := slices.Index(DebugModeList, name)
		if mode < 0 {
			return oerror.New("unknown debug mode %q", name)
		}
		want[mode] = true
	}
	for i, enabled := range want {
		d.modes[i].Store(enabled)
	}
	return nil
}

// Notify logs the message if the mode passed is enabled and cond is true.
func (d *Debugger) Notify(mode int, cond bool, format string, args ...any) {
	if !cond || !d.Enabled(mode) {
		return
	}
	d.log.WithField("mode", DebugModeList[mode]).Debugf(format, args...)
}
