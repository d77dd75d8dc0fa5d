package nav

import (
	"fmt"

	"github.com/vvka-141/filer/pkg/filer"
)

// GestureKind tags the gestures the presentation layer can forward.
type GestureKind int

const (
	// GestureClick selects the target node.
	GestureClick GestureKind = iota
	// GestureDoubleClick activates the target node.
	GestureDoubleClick
	// GestureCloseWindow closes the session's window.
	GestureCloseWindow
)

// String returns a human-readable string representation of the GestureKind.
func (k GestureKind) String() string {
	switch k {
	case GestureClick:
		return "Click"
	case GestureDoubleClick:
		return "DoubleClick"
	case GestureCloseWindow:
		return "CloseWindow"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Modifiers carries the platform-abstracted modifier keys held during a
// gesture.
type Modifiers struct {
	// MultiSelect toggles the target's selection membership instead of
	// replacing the selection.
	MultiSelect bool

	// Alternate requests the alternate action on double-activation: an
	// independent window alongside instead of reuse.
	Alternate bool
}

// Gesture is one user interaction forwarded by the presentation layer.
// Target is the canonical path of the node the gesture lands on; close
// gestures carry no target.
type Gesture struct {
	Kind      GestureKind
	Target    filer.CanonicalPath
	Modifiers Modifiers
}
