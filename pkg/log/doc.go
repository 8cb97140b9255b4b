// Package log wraps zerolog with tasktrack's logging conventions.
//
// Call Init once at startup, then derive component loggers:
//
//	log.Init(log.Config{Level: log.InfoLevel})
//	logger := log.WithComponent("searcher")
//	logger.Info().Str("query", q).Msg("cache miss")
//
// Output defaults to stderr because stdout carries the MCP protocol.
package log
