// Package ewram is a process-facing allocator over a single fixed arena of work RAM. It owns the arena's
// backing memory, translates between absolute device addresses and arena offsets, and layers optional
// synchronization, allocation tracking, memory callbacks, and leak reporting over the first-fit free
// list in memutils/freelist.
//
// Most programs create exactly one arena with Init and reach it through Default, Acquire and Release.
// Tests and tools that want several independent arenas can call New directly.
package ewram
