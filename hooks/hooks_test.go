package hooks

import "testing"

func TestDefault(t *testing.T) {
	s := Default()
	if len(s) != len(WASIHookFunctions) {
		t.Errorf("Default has %d entries, want %d", len(s), len(WASIHookFunctions))
	}
	for _, name := range []string{"fd_write", "fd_read", "path_open", "fd_prestat_dir_name"} {
		if !s.Contains(name) {
			t.Errorf("Default should contain %s", name)
		}
	}
	for _, name := range []string{"proc_exit", "args_get", "random_get", "FD_WRITE", "fd_write "} {
		if s.Contains(name) {
			t.Errorf("Default should not contain %q", name)
		}
	}
}

func TestParseList(t *testing.T) {
	s := ParseList(" fd_write, ,path_open,")
	if len(s) != 2 || !s.Contains("fd_write") || !s.Contains("path_open") {
		t.Errorf("ParseList = %v", s)
	}
	if len(ParseList("")) != 0 {
		t.Error("empty list should yield empty set")
	}
}
