// Package manim wraps invocation of the rendering engine CLI.
//
// The engine offers no structured IPC: job state is inferred from its
// free-form log output. The client launches the engine with a job-scoped
// working directory, merges stdout and stderr into one line stream, and feeds
// every line through the progress tracker and the output-path scanner. Command
// execution sits behind the Executor interface so tests can script engine
// output without spawning processes.
package manim
