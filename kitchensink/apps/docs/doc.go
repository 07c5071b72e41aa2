// Package docs is excluded from state tracking through its version.txt.
package docs
