// Package emit writes a resolved configuration to an environment file.
//
// Output is deterministic: keys are sorted lexicographically and the
// header is static, so identical resolutions produce byte-identical
// files and repeated deployments can be verified by checksum. Values
// that would be ambiguous in the KEY=VALUE grammar (embedded
// whitespace, '#', quotes, '$') are double-quoted, with '$' escaped so
// the dotenv reader does not expand it, and the file round-trips
// through the same dotenv grammar the override providers read.
//
// Writes are atomic: content goes to a temporary file in the
// destination directory, is synced, and is renamed over the target.
// Readers observe either the previous complete file or the new one,
// never a truncation, even if the process dies mid-write.
package emit
