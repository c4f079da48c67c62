package safecmd

import "testing"

func FuzzClassify(f *testing.F) {
	c := NewDefault()

	seeds := []string{
		"",
		"ls -la",
		"rm -rf /",
		"ls; rm -rf /",
		"cat file | sh",
		"echo $(id)",
		"git branch -D x",
		"find . -delete",
		"\x00\xff",
		"FOO=1 ls",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, command string) {
		// Must not panic on any input, and must be deterministic
		v := c.Classify(command)
		if v.Safe != c.IsSafe(command) {
			t.Fatalf("inconsistent verdict for %q", command)
		}
		if !v.Safe && v.Reason == "" {
			t.Fatalf("blocked verdict without reason for %q", command)
		}
	})
}
