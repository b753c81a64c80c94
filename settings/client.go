package settings

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
)

const (
	// ClientBevyExplorer reports the avatar transform at the feet.
	ClientBevyExplorer = "bevy-explorer"
	// ClientLegacyExplorer is the name reported by the legacy explorer, which places the transform
	// slightly above the feet.
	ClientLegacyExplorer = ""
)

var clientAdjust = map[string]float32{
	ClientBevyExplorer:   0,
	ClientLegacyExplorer: -0.08,
}

// reported contains the unknown client names that have already been logged.
var reported sync.Map

// PositionAdjust returns the offset added to the host position for the client passed. It returns
// false if the client is unknown, in which case the adjust is zero.
func PositionAdjust(client string) (mgl32.Vec3, bool) {
	y, ok := clientAdjust[client]
	return mgl32.Vec3{0, y, 0}, ok
}

// ResolveClient returns the position adjust for the client passed. An unknown client is logged once
// per process and falls back to no adjust.
func ResolveClient(client string, log *logrus.Logger) mgl32.Vec3 {
	adjust, ok := PositionAdjust(client)
	if !ok {
		if _, seen := reported.LoadOrStore(client, struct{}{}); !seen && log != nil {
			log.WithField("client", client).Warn("unknown client, using no position adjust")
		}
	}
	return adjust
}
