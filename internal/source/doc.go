// Package source decides which file a log source descriptor currently points
// at.
//
// A descriptor is tried as an exact file, then as a directory, then as a glob
// pattern (doublestar syntax, so "**" crosses directories). Directory and glob
// candidates are narrowed to regular files and the most recently modified one
// wins. Nothing is cached: every call reflects the filesystem at that moment,
// which is how rotated logs get picked up.
//
// Lookup failures, including permission errors while listing, are reported as
// "no file" rather than as errors.
package source
