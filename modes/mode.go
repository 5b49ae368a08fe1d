package modes

type Mode uint8

const (
	ModeProduction Mode = iota
	ModeDevelopment
)

func (m Mode) String() string {
	switch m {
	case ModeProduction:
		return "production"
	case ModeDevelopment:
		return "development"
	}
	return "unknown"
}

// Tracing reports whether per-instruction tracing is on in this mode.
func (m Mode) Tracing() bool {
	return m == ModeDevelopment
}
