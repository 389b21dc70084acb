package parser

import "strings"

// ParsePath splits a configuration file reference at its last '/'.
//
// The style is read from the directory part: "//" starts a CIFS share
// (remote), a single "/" an absolute path on the racadm host (local).
// Anything else, including a bare file name, is unrecognized.
func ParsePath(path string) PathDescriptor {
	desc := PathDescriptor{Name: path, Style: PathStyleUnrecognized}

	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return desc
	}

	desc.Name = path[idx+1:]
	desc.Path = path[:idx]

	switch {
	case strings.HasPrefix(desc.Path, "//"):
		desc.Style = PathStyleRemote
	case strings.HasPrefix(desc.Path, "/"):
		desc.Style = PathStyleLocal
	}
	return desc
}
