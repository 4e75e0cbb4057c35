// Package viz draws a live terminal view of a drivetrain using Bubble Tea.
//
// Each module is shown as a braille compass with its measured heading and
// the heading it was commanded to, a drive speed bar and a short history of
// drive velocity.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Rebuild the drivetrain and restart the scenario
//	Tab   - Switch to the next scenario
//	Q     - Quit
package viz
