// Package toolchain locates and invokes the external programs the build
// pipeline depends on: the script transpiler, the C++ compiler, and the
// shader compiler.
//
// Tools are resolved in a fixed order: explicit config, then environment
// variables, then conventional install locations, then PATH. Invocations
// capture stdout and stderr verbatim so build failures can be replayed in
// the log.
package toolchain
