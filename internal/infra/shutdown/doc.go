// Package shutdown provides graceful shutdown handling.
//
// Components register hooks during startup; on SIGINT/SIGTERM the
// hooks run in reverse registration order under a shared deadline, so
// the HTTP server drains before the stores close.
package shutdown
