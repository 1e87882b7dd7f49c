package config

// mapProvider adapts a plain nested map to koanf's Provider interface so
// a Provider's already-nested Load() result can be merged into the
// koanf instance the same way structs.Provider merges Default().
type mapProviderImpl struct {
	data map[string]any
}

func mapProvider(data map[string]any) mapProviderImpl {
	return mapProviderImpl{data: data}
}

func (p mapProviderImpl) Read() (map[string]any, error) {
	return p.data, nil
}

func (p mapProviderImpl) ReadBytes() ([]byte, error) {
	return nil, nil
}
