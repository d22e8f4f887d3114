// Package types defines the read-only contract for Windows Registry hive
// ("regf") files shared by the reader and the tree excavator.
//
// The package only exposes interfaces and core types. internal/reader
// provides the mmap-backed implementation.
//
// Design goals:
//   - Small, copyable handles (NodeID/ValueID) instead of large object graphs.
//   - Paranoid bounds checking; never panic on malformed input.
//   - Typed errors with stable categories (format/corrupt/not found/...).
//
// This package has no dependencies beyond the standard library.
package types
