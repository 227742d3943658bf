package validate

import "testing"

func TestGST(t *testing.T) {
	cases := []struct {
		value string
		ok    bool
	}{
		{"", true},
		{"22AAAAA0000A1Z5", true},
		{"22aaaaa0000a1z5", true}, // normalized to uppercase
		{" 07ABCDE1234F1Z9 ", true},
		{"00AAAAA0000A1Z5", false}, // state code 00
		{"99AAAAA0000A1Z5", false}, // state code out of range
		{"22AAAAA0000A1X5", false}, // missing the fixed Z
		{"22AAAA0000A1Z5", false},
	}
	for _, tc := range cases {
		msg := GST(tc.value)
		if tc.ok && msg != "" {
			t.Errorf("GST(%q) = %q, want valid", tc.value, msg)
		}
		if !tc.ok && msg == "" {
			t.Errorf("GST(%q) accepted, want rejection", tc.value)
		}
	}
}

func TestPAN(t *testing.T) {
	if msg := PAN("AAAAA0000A"); msg != "" {
		t.Errorf("valid PAN rejected: %q", msg)
	}
	if msg := PAN("abcde1234f"); msg != "" {
		t.Errorf("lowercase PAN must normalize: %q", msg)
	}
	if msg := PAN("AAAA0000A"); msg == "" {
		t.Error("short PAN accepted")
	}
	if msg := PAN(""); msg != "" {
		t.Error("blank PAN must be valid")
	}
}

func TestPincode(t *testing.T) {
	if msg := Pincode("400001"); msg != "" {
		t.Errorf("valid PIN rejected: %q", msg)
	}
	if msg := Pincode("012345"); msg == "" {
		t.Error("leading-zero PIN accepted")
	}
	if msg := Pincode("40001"); msg == "" {
		t.Error("five digit PIN accepted")
	}
}

func TestEmail(t *testing.T) {
	if msg := Email("purchase@titanfab.example.com"); msg != "" {
		t.Errorf("valid email rejected: %q", msg)
	}
	if msg := Email("not-an-email"); msg == "" {
		t.Error("bad email accepted")
	}
}

func TestPhone(t *testing.T) {
	for _, ok := range []string{"+91 22 2345 6789", "022-23456789", "(022) 2345678"} {
		if msg := Phone(ok); msg != "" {
			t.Errorf("Phone(%q) = %q, want valid", ok, msg)
		}
	}
	for _, bad := range []string{"12345", "phone-number", "123456789012345678901"} {
		if msg := Phone(bad); msg == "" {
			t.Errorf("Phone(%q) accepted, want rejection", bad)
		}
	}
}
