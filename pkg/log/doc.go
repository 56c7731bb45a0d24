// Package log provides structured logging built on zerolog: a global
// logger configured once at startup, plus component-scoped child loggers
// so every subsystem's lines carry a "component" (and, where relevant,
// "session") field instead of the original's ad-hoc string concatenation.
package log
