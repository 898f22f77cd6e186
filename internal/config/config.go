package config

import "fmt"

// Config bundles the settings the source's callback surface used to
// collect via successive configure(key, value) calls into process-wide
// globals. blockdev.Device holds one, fills it through Configure, and
// Open reads it; there is no process-wide state.
type Config struct {
	GeometryFile string
	PageSizeKB   int64
	Nproc        int
	Verbose      bool
}

// Configure applies a single key/value pair, mirroring the source's
// configure(key, value) surface (§6.1). Unknown keys are ignored by the
// caller, which logs a warning; this method only knows how to apply the
// keys it recognises.
func (c *Config) Configure(key, value string) bool {
	switch key {
	case "geometryfile":
		c.GeometryFile = value
		return true
	case "pagesizeKB":
		var n int64
		if _, err := fmt.Sscan(value, &n); err == nil {
			c.PageSizeKB = n
			return true
		}
		return false
	default:
		return false
	}
}
