package logutil

import "testing"

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "regular address", in: "user@example.com", want: "u**r@example.com"},
		{name: "two char local", in: "ab@example.com", want: "a*@example.com"},
		{name: "single char local", in: "x@example.com", want: "x@example.com"},
		{name: "not an email", in: "weird", want: "w***d"},
		{name: "single char token", in: "x", want: "x"},
		{name: "two char token", in: "xy", want: "x*"},
		{name: "leading at", in: "@example.com", want: "@**********m"},
		{name: "whitespace", in: "  user@example.com ", want: "u**r@example.com"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskEmail(tt.in); got != tt.want {
				t.Fatalf("MaskEmail(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
