// Package main provides the entry point of the MiroTrak settings service.
// It runs a Fiber web server exposing a JSON api to read and write typed
// key-value settings and the PDF template registry stored in one of them.
// Persistence uses gorm on mysql, postgres or sqlite.
package main
