// Package profile provides optional runtime profiling for stylexpr.
//
// Profiling uses [github.com/pkg/profile] and must be enabled at build time
// with the "pprof" build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Modes] is empty and [Profiler.Start] is a no-op.
//
// # Modes
//
//   - allocs:    memory allocation profiling (all allocations)
//   - block:     blocking profiling
//   - clock:     wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: goroutine profiling
//   - heap:      heap profiling (live allocations)
//   - mem:       memory profiling
//   - mutex:     mutex contention profiling
//   - thread:    thread creation profiling
//   - trace:     execution trace
//
// # Usage
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/profiles"}
//	defer p.Start().Stop()
//
// The stylexpr command exposes the same settings as flags:
//
//	stylexpr --pprof-mode=cpu --pprof-dir=./profiles check style.yaml
//
// Profiles are written to the given directory with names matching the mode
// (cpu.pprof, mem.pprof, ...), by default under the user cache directory:
//
//	$XDG_CACHE_HOME/stylexpr/pprof   (Linux/Unix)
//	~/Library/Caches/stylexpr/pprof  (macOS)
//	%LocalAppData%\stylexpr\pprof    (Windows)
//
// Analyze them with go tool pprof:
//
//	go tool pprof -http=: /tmp/profiles/cpu.pprof
//
// When built with the pprof tag this package also imports [net/http/pprof],
// registering its handlers on [http.DefaultServeMux].
package profile
