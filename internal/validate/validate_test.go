package validate

import (
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"Maria", "Maria", false},
		{"  maria  da silva ", "Maria Da Silva", false},
		{"José", "José", false},
		{"Ana123!", "Ana", false},
		{"M4r1a", "Mra", false},
		{"A", "", true},
		{"", "", true},
		{"42", "", true},
		{strings.Repeat("a", 51), "", true},
		{strings.Repeat("a", 50), "A" + strings.Repeat("a", 49), false},
		{"ab", "Ab", false},
	}
	for _, c := range cases {
		got, err := Name(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("Name(%q): expected rejection, got %q", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Name(%q): unexpected error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("Name(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNameLengthBoundaries(t *testing.T) {
	if _, err := Name("a"); err == nil {
		t.Error("length-1 name should be rejected")
	}
	if _, err := Name("ab"); err != nil {
		t.Errorf("length-2 name should be accepted: %v", err)
	}
}

func TestAge(t *testing.T) {
	cases := []struct {
		in          string
		want        int
		wantCaution bool
		wantErr     bool
	}{
		{"abc", 0, false, true},
		{"15", 0, false, true},
		{"101", 0, false, true},
		{"16", 16, false, false},
		{"100", 100, true, false},
		{"65", 65, false, false},
		{"66", 66, true, false},
		{"70", 70, true, false},
		{" 45 ", 45, false, false},
		{"", 0, false, true},
	}
	for _, c := range cases {
		got, caution, err := Age(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("Age(%q): expected rejection, got %d", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Age(%q): unexpected error: %v", c.in, err)
			continue
		}
		if got != c.want || caution != c.wantCaution {
			t.Errorf("Age(%q) = (%d, %v), want (%d, %v)", c.in, got, caution, c.want, c.wantCaution)
		}
	}
}

func TestGender(t *testing.T) {
	accepted := map[string]string{
		"masculino": "masculino",
		"Homem":     "masculino",
		"M":         "masculino",
		"feminino":  "feminino",
		"MULHER":    "feminino",
		"f":         "feminino",
		"outro":     "outro",
		"não binário": "outro",
		"nb":        "outro",
	}
	for in, want := range accepted {
		got, err := Gender(in)
		if err != nil {
			t.Errorf("Gender(%q): unexpected error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("Gender(%q) = %q, want %q", in, got, want)
		}
	}
	for _, in := range []string{"", "xyz", "123", "talvez"} {
		if _, err := Gender(in); err == nil {
			t.Errorf("Gender(%q): expected rejection", in)
		}
	}
}

func TestHeight(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"170", 170, false},
		{"170,5", 170.5, false},
		{"170.5", 170.5, false},
		{"175cm", 175, false},
		{"175 cm", 175, false},
		{"abc", 0, true},
		{"99", 0, true},
		{"251", 0, true},
		{"100", 100, false},
		{"250", 250, false},
	}
	for _, c := range cases {
		got, err := Height(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("Height(%q): expected rejection, got %v", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Height(%q): unexpected error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("Height(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestWeight(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"85", 85, false},
		{"85,5", 85.5, false},
		{"95kg", 95, false},
		{"95 kg", 95, false},
		{"abc", 0, true},
		{"29", 0, true},
		{"301", 0, true},
		{"30", 30, false},
		{"300", 300, false},
	}
	for _, c := range cases {
		got, err := Weight(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("Weight(%q): expected rejection, got %v", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Weight(%q): unexpected error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("Weight(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
