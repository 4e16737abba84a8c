// Package viz renders flyby trajectories in the terminal.
//
//   - [Canvas]: Braille sub-pixel canvas with a world [Viewport]
//   - [Summary]: lipgloss panel with the run outcome and metrics
//   - [Playback]: Bubble Tea model replaying a trajectory
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	←/→   - Step backward/forward by one stride
//	R     - Rewind to the first sample
//	Q     - Quit
package viz
