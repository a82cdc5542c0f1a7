// Package hooks holds the WASI functions the virtual filesystem intercepts.
package hooks

import "strings"

// WASIHookFunctions lists the preview1 functions routed through the
// virtual filesystem.
var WASIHookFunctions = []string{
	"fd_advise",
	"fd_allocate",
	"fd_close",
	"fd_datasync",
	"fd_fdstat_get",
	"fd_fdstat_set_flags",
	"fd_fdstat_set_rights",
	"fd_filestat_get",
	"fd_filestat_set_size",
	"fd_filestat_set_times",
	"fd_pread",
	"fd_prestat_get",
	"fd_prestat_dir_name",
	"fd_pwrite",
	"fd_read",
	"fd_readdir",
	"fd_renumber",
	"fd_seek",
	"fd_sync",
	"fd_tell",
	"fd_write",
	"path_create_directory",
	"path_filestat_get",
	"path_filestat_set_times",
	"path_link",
	"path_open",
	"path_readlink",
	"path_remove_directory",
	"path_rename",
	"path_symlink",
	"path_unlink_file",
}

// Set is an allow-list of function names.
type Set map[string]struct{}

// NewSet builds a Set from names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Default returns a fresh Set of WASIHookFunctions.
func Default() Set {
	return NewSet(WASIHookFunctions...)
}

// ParseList builds a Set from a comma-separated list, ignoring blanks.
func ParseList(list string) Set {
	var names []string
	for _, n := range strings.Split(list, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return NewSet(names...)
}

// Contains reports exact membership of name.
func (s Set) Contains(name string) bool {
	_, ok := s[name]
	return ok
}
