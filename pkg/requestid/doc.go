// Package requestid tags every request with an X-Request-ID and makes it
// available to handlers and, through LoggerExtractor, to log records.
package requestid
