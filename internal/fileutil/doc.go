// Package fileutil reads and writes subtitle documents on disk.
//
// Subtitle files in the wild arrive as plain UTF-8, BOM-prefixed UTF-8, or
// UTF-16 in either byte order. Reads decode everything to plain UTF-8 so the
// engine can work on text; writes re-encode to the file's prior encoding,
// BOM included, so a synchronized file keeps its original shape. Writes go
// through a temp file and rename, so the target is replaced whole — never
// left with a stale tail or a partial rewrite.
package fileutil
