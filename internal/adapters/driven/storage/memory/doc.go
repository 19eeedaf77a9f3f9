// Package memory provides in-memory implementations of the driven ports.
//
// The stores back the "local" backend mode in tests and are safe for
// concurrent use. Nothing survives process exit.
package memory
