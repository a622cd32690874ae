package profile

// Config yields the parameters of one profiling run: a mode from [Modes],
// the output directory and whether pkg/profile's own messages are silenced.
type Config func() (mode, dir string, quiet bool)

// Stopper ends a profiling run and flushes its output.
type Stopper interface{ Stop() }

// Start begins the run described by c. An empty or unknown mode, or a build
// without the pprof tag, yields a Stopper that does nothing.
func (c Config) Start() Stopper {
	mode, dir, quiet := c()

	if mode == "" {
		return ignore{}
	}

	return start(mode, dir, quiet)
}

type ignore struct{}

func (ignore) Stop() {}
