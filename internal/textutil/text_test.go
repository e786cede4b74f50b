package textutil

import "testing"

func TestHead(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello world", 5, "hello"},
		{"short", 10, "short"},
		{"", 3, ""},
		{"abc", 0, ""},
		{"abc", -1, "abc"},
		{"héllo wörld", 7, "héllo w"},
	}
	for _, tt := range tests {
		if got := Head(tt.in, tt.n); got != tt.want {
			t.Errorf("Head(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestFlatten(t *testing.T) {
	got := Flatten("  line one\nline two\r\nline three \n")
	if got != "line one line two line three" {
		t.Errorf("got %q", got)
	}
}

func TestLen(t *testing.T) {
	if Len("wörld") != 5 {
		t.Errorf("Len counts bytes instead of characters")
	}
}
