// Package pebblestore provides a thin wrapper around Pebble with an fsync
// policy and batch helpers, backing the completion journal.
//
//	db, err := pebblestore.Open(pebblestore.Options{
//	    DataDir: "./data",
//	    Fsync:   pebblestore.FsyncModeInterval,
//	})
//	if err != nil { /* handle */ }
//	defer db.Close()
package pebblestore
