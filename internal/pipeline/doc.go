// Package pipeline drives builds: transpile, compile, shader compilation,
// and hot-module rebuild plus swap.
//
// A single goroutine consumes rebuild triggers. Pipeline state is a single
// atomic word, and the watcher queries it through the Suppressor interface
// to drop triggers while a build runs or has just finished. In-flight
// external processes are never canceled by a new trigger; context
// cancellation stops the pipeline between stages.
package pipeline
