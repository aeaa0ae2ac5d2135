package main

import "testing"

func TestSplitPayloads(t *testing.T) {
	got, err := splitPayloads([]byte(` {"movie":"Heat"} `))
	if err != nil || len(got) != 1 || string(got[0]) != `{"movie":"Heat"}` {
		t.Fatalf("single object: %q err=%v", got, err)
	}

	got, err = splitPayloads([]byte(`[{"movie":"Heat"}, {"movie":"Ran","lang":"ja"}]`))
	if err != nil || len(got) != 2 || string(got[1]) != `{"movie":"Ran","lang":"ja"}` {
		t.Fatalf("array: %q err=%v", got, err)
	}

	for _, bad := range []string{``, `[1,2]`, `"x"`, `{"unterminated":`} {
		if _, err := splitPayloads([]byte(bad)); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
