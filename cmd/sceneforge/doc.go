// Command sceneforge renders animation scene source files through an
// external engine, with live progress, a fallback GIF conversion path, and a
// local render history.
package main
