package scheme

import (
	"fmt"

	"github.com/vvka-141/filer/pkg/filer"
)

// ForName returns the scheme registered under the given tag.
// Used by configuration loading to select a scheme per backend instance.
func ForName(name string) (filer.PathScheme, error) {
	switch name {
	case PosixName:
		return Posix{}, nil
	case RiscOSName:
		return RiscOS{}, nil
	default:
		return nil, fmt.Errorf("unknown path scheme %q", name)
	}
}
