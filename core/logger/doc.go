// Package logger is a structured event log of the commands a shell session
// dispatched.
package logger
