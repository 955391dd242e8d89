// Package id generates 128-bit, time-ordered identifiers used for journal
// event records. IDs sort lexicographically in creation order.
package id
