// Package watcher re-runs a render whenever the template or an
// override file changes on disk.
//
// Directories containing the watched files are monitored rather than
// the files themselves, because most editors and atomic writers replace
// files by rename, which would otherwise drop the watch. Change bursts
// are debounced so a single save triggers a single re-render.
package watcher
