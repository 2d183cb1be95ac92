package validate

import "testing"

func TestUsername(t *testing.T) {
	cases := []struct {
		input string
		ok    bool
	}{
		{"alicesmith", true},
		{"alice-smith", true},
		{"  alicesmith  ", true},
		{"", false},
		{"   ", false},
		{"alice", false},                 // too short
		{"abcdefghijklmnopqrstu", false}, // too long
		{"alice_smith", false},           // underscore
		{"alice1", false},                // digit
		{"alice smith", false},           // space
	}
	for _, tc := range cases {
		err := Username(tc.input)
		if (err == nil) != tc.ok {
			t.Fatalf("Username(%q): got %v, want ok=%v", tc.input, err, tc.ok)
		}
	}
}

func TestSecret(t *testing.T) {
	cases := []struct {
		input string
		ok    bool
	}{
		{"Pa55word!!123$1", true},
		{"Secret#12word!", true},
		{"", false},
		{"short1!2@", false},         // too short
		{"nodigitsatall!!!", false},  // fewer than two digits
		{"12nospecialsatall", false}, // fewer than two specials
	}
	for _, tc := range cases {
		err := Secret(tc.input)
		if (err == nil) != tc.ok {
			t.Fatalf("Secret(%q): got %v, want ok=%v", tc.input, err, tc.ok)
		}
	}
}

func TestPersonName(t *testing.T) {
	if err := PersonName("Alice", "Smith"); err != nil {
		t.Fatalf("valid name rejected: %v", err)
	}
	if err := PersonName("", "Smith"); err == nil {
		t.Fatal("empty first name accepted")
	}
	if err := PersonName("Alice", " "); err == nil {
		t.Fatal("blank last name accepted")
	}
	if err := PersonName("Al1ce", "Smith"); err == nil {
		t.Fatal("digit in name accepted")
	}
}

func TestBusinessName(t *testing.T) {
	if err := BusinessName("Acme Trading"); err != nil {
		t.Fatalf("valid business name rejected: %v", err)
	}
	if err := BusinessName(""); err == nil {
		t.Fatal("empty business name accepted")
	}
	if err := BusinessName("Acme-Trading"); err == nil {
		t.Fatal("hyphen in business name accepted")
	}
}

func TestErrorReason(t *testing.T) {
	err := Username("")
	vErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if vErr.Reason != "username was empty" {
		t.Fatalf("unexpected reason: %q", vErr.Reason)
	}
}
