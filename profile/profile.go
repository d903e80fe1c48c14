package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

// Profiler configures a profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty or unsupported mode disables
	// profiling.
	Mode string
	// Path is the output directory of profile files.
	Path string
	// Quiet suppresses the profiler's own log messages.
	Quiet bool
}

// Stopper stops a running profiler.
type Stopper interface{ Stop() }

// Start starts profiling and returns a handle for stopping it.
//
// Without the pprof build tag, or with an empty Mode, Start returns a no-op
// Stopper. Both Start and Stop are always safely callable.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
