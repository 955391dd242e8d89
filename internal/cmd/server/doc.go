// Package serverrun hosts the long-running server entrypoint shared by the
// CLI: it opens the runtime, registers topics, and serves HTTP until the
// context or a signal stops it.
package serverrun
