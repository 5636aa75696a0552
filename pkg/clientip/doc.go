// Package clientip resolves the client address of a request and carries it
// in the context for logging.
package clientip
