// Package store persists the subscriber list as a single JSON document on
// disk. The whole collection is loaded and saved at once; there is no
// partial update and no locking across a load-modify-save sequence.
package store
