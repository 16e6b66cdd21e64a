// Package platform classifies OS-specific rename and remove errors into
// transient causes (the file is locked or busy because a process holds it
// open) versus permanent ones. Transient errors are worth retrying;
// permanent ones are not.
package platform
