// Package driving defines the interfaces through which callers drive
// the core: the import pipeline entry points.
package driving
