// Package wire implements the low-level, allocation-free cursors the bson
// package scans BSON bytes with: a [Reader] that walks successive
// length-prefixed documents in a buffer, and an [ElementIterator] that walks
// the fields of a single document without decoding their values.
//
// Neither type interprets field values beyond what is needed to find their
// byte boundaries; turning an [Element]'s raw bytes into a Go value is the
// bson package's job.
package wire
