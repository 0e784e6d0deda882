// Package enumerate discovers candidate video files below a root directory.
//
// It walks directory trees using fastwalk for parallel traversal, optionally
// limited to the top level, and keeps files whose extension is in the
// accepted set.
package enumerate
