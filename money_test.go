package portfolio

import "testing"

func TestMoney_String(t *testing.T) {
	testCases := []struct {
		name string
		in   Money
		want string
	}{
		{"rounded to cents", M(1234.567, "EUR"), "€1,234.57"},
		{"yen has no fraction", M(1234.5, "JPY"), "¥1,235"},
		{"unknown currency", M(3.14159, "XYZ"), "3.14 XYZ"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMoney_SignedString(t *testing.T) {
	if got, want := M(0.001, "EUR").SignedString(), "-"; got != want {
		t.Errorf("SignedString() = %q, want %q", got, want)
	}
	if got, want := M(12, "USD").SignedString(), "+$12.00"; got != want {
		t.Errorf("SignedString() = %q, want %q", got, want)
	}
}

func TestPercent(t *testing.T) {
	if got, want := Percent(12.346).String(), "12.35%"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := Percent(-0.001).SignedString(), "-"; got != want {
		t.Errorf("SignedString() = %q, want %q", got, want)
	}
	if got, want := Percent(25).Ratio(), 0.25; got != want {
		t.Errorf("Ratio() = %v, want %v", got, want)
	}
}
