package vars

import "testing"

func TestFirstNonZero(t *testing.T) {
	if n := FirstNonZero(0, 0, 3, 4); n != 3 {
		t.Fatalf("got %d", n)
	}
	if s := FirstNonZero("", ""); s != "" {
		t.Fatalf("got %q", s)
	}
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "Y", " on ", "1"} {
		if !ParseBool(s) {
			t.Fatalf("%q should be true", s)
		}
	}
	for _, s := range []string{"false", "no", "", "2"} {
		if ParseBool(s) {
			t.Fatalf("%q should be false", s)
		}
	}
}
