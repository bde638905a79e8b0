// Package tail reads the trailing lines of a seekable stream without loading
// the whole file.
//
// Lines walks backwards from the end of the stream in fixed-size blocks until
// enough line breaks have been seen, then splits the accumulated bytes once.
// Streams smaller than the requested span are read in full instead. ReadFile
// wraps the same algorithm with open/close handling for a path on disk.
//
// Callers own the stream lifecycle: Lines never closes what it is given.
package tail
