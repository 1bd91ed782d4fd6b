// Package ffmpeg converts intermediate engine output with the external
// ffmpeg binary. It currently covers the animated-image fallback: when the
// engine delivers a video instead of the requested GIF, the video is
// re-encoded with a two-pass palette pipeline.
package ffmpeg
