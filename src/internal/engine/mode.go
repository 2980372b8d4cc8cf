package engine

import (
	"fmt"
	"strings"
)

// Mode selects which corrective actions the engine takes.
type Mode int

const (
	// ModeMonitor only logs missing protected routes.
	ModeMonitor Mode = iota
	// ModeEnforce re-adds protected routes that disappear.
	ModeEnforce
	// ModeStrict also removes routes that are not protected.
	ModeStrict
)

var modeNames = map[Mode]string{
	ModeMonitor: "monitor",
	ModeEnforce: "enforce",
	ModeStrict:  "strict",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ParseMode accepts monitor, enforce or strict in any case.
func ParseMode(s string) (Mode, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeNames {
		if name == key {
			return m, nil
		}
	}
	return ModeMonitor, fmt.Errorf("unknown mode %q (expected monitor, enforce or strict)", s)
}

// readds reports whether deleted protected routes are put back.
func (m Mode) readds() bool {
	return m == ModeEnforce || m == ModeStrict
}

// removes reports whether unprotected routes are deleted.
func (m Mode) removes() bool {
	return m == ModeStrict
}
