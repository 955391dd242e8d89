// Package runtime composes the pieces of a single-node pl-flow instance:
// configuration, the optional Pebble-backed completion journal, and the task
// service. Servers and tests build everything through runtime.Open.
package runtime
