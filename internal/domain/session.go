package domain

// SessionValues is the opaque per-user key-value store supplied by the web layer.
type SessionValues interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// MapValues adapts a plain map to SessionValues.
type MapValues map[string]any

func (m MapValues) Get(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

func (m MapValues) Set(key string, value any) {
	m[key] = value
}
