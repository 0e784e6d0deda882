// Package dupes finds byte-identical video files.
//
// Candidates are refined tier by tier: files are grouped by size, then by the
// digest of their first chunk, and only files still sharing a group are hashed
// completely. Within a tier files are hashed by a bounded worker pool; tiers
// are barriers, so each tier sees the complete grouping of the previous one.
package dupes
