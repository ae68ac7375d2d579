// Package types holds the shared data model for conman: deferred actions,
// install results, and the filesystem interface threaded through the
// pipeline. It has no dependencies on other conman packages so every layer
// can import it.
package types
