package regcompat

import "testing"

func TestResolveBackref(t *testing.T) {
	tests := []struct {
		digits string
		bound  int
		group  int
		used   int
		ok     bool
	}{
		{"1", 1, 1, 1, true},
		{"10", 10, 10, 2, true},
		{"10", 9, 1, 1, true},
		{"12", 1, 1, 1, true},
		{"123", 12, 12, 2, true},
		{"123", 200, 12, 2, true},
		{"100", 100, 10, 2, true},
		{"100", 150, 10, 2, true},
		{"99", 99, 99, 2, true},
		{"", 5, 0, 0, false},
		{"2", 1, 0, 0, false},
		{"5", 0, 0, 0, false},
		{"01", 5, 0, 0, false},
	}

	for _, tt := range tests {
		group, used, ok := resolveBackref([]rune(tt.digits), tt.bound)
		if group != tt.group || used != tt.used || ok != tt.ok {
			t.Fatalf("resolveBackref(%q, %d): got (%d, %d, %v) want (%d, %d, %v)",
				tt.digits, tt.bound, group, used, ok, tt.group, tt.used, tt.ok)
		}
	}
}

func TestValidGroupName(t *testing.T) {
	tests := []struct {
		dialect Dialect
		name    string
		want    bool
	}{
		{DialectECMAScript, "word", true},
		{DialectECMAScript, "$id", true},
		{DialectECMAScript, "_x1", true},
		{DialectECMAScript, "1x", false},
		{DialectECMAScript, "", false},
		{DialectNative, "word", true},
		{DialectNative, "año", true},
		{DialectNative, "1x", false},
		{DialectNative, "a-b", false},
	}

	for _, tt := range tests {
		if got := validGroupName(tt.dialect, []rune(tt.name)); got != tt.want {
			t.Fatalf("validGroupName(%s, %q): got %v want %v", tt.dialect, tt.name, got, tt.want)
		}
	}
}

func TestDuplicateNamePolicy(t *testing.T) {
	if duplicateNamesAllowed(DialectECMAScript) {
		t.Fatalf("ECMAScript must reject duplicate group names")
	}
	if !duplicateNamesAllowed(DialectNative) {
		t.Fatalf("native must accept duplicate group names")
	}
}
