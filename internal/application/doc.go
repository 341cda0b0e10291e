// Package application provides application initialization and dependency wiring.
// It encapsulates the creation of plate storage, the resolver, handlers, routers,
// HTTP server instances and interactive sessions, keeping the main package focused
// on CLI parsing and orchestration.
package application
