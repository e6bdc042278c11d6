// Package connectors bridges external data locations to the import
// pipeline. Each connector materialises raw bytes into import items;
// the pipeline itself never performs I/O.
package connectors
