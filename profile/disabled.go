//go:build !pprof

package profile

// Modes returns nil when built without the pprof build tag.
func Modes() []string { return nil }

// Describe returns "" when built without the pprof build tag.
func Describe(string) string { return "" }

func start(string, string, bool) Stopper { return ignore{} }
