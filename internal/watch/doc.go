// Package watch turns raw filesystem events into debounced rebuild
// triggers.
//
// Events are collected until the tree has been quiet for a settle delay,
// then collapsed into a single Trigger. Triggers closer together than a
// minimum interval are dropped, and a Suppressor can veto triggers while
// a build is in flight or has just finished. Accepted triggers are sent
// to a single-consumer channel.
package watch
