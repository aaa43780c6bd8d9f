// Package resolve merges override sources into a declared key template
// and produces the validated configuration that environment-file
// emission consumes.
//
// # Override providers
//
// A Provider supplies raw key/value pairs from one source. Two
// implementations are included: FileProvider reads a KEY=VALUE override
// file, and EnvProvider reads the process environment restricted to the
// declared key names. Providers are consulted in the order given and
// merging is strictly later-wins, so repeated runs with identical
// inputs produce identical resolutions. An optional provider that
// cannot be read is skipped with a warning; a required one failing is
// fatal.
//
// # Validation
//
// Resolution validates every supplied value against its key's declared
// type constraint and collects ALL problems (every missing required key,
// every type violation) into a single ValidationError before failing,
// so one run gives the operator the complete picture.
package resolve
