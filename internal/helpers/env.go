package helpers

import "os"

// Environment reads process environment variables.
// Discovery takes one so tests never depend on the real environment.
type Environment interface {
	LookupEnv(key string) (string, bool)
}

// OSEnvironment reads the real process environment
type OSEnvironment struct{}

// LookupEnv implements Environment.LookupEnv
func (OSEnvironment) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapEnvironment is a fixed environment backed by a map
type MapEnvironment map[string]string

// LookupEnv implements Environment.LookupEnv
func (m MapEnvironment) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}
