package model

import "testing"

func TestGroupAtLeast(t *testing.T) {
	tests := []struct {
		group   string
		minimum string
		want    bool
	}{
		{GroupAdmin, GroupAdmin, true},
		{GroupAdmin, GroupOperator, true},
		{GroupOperator, GroupOperator, true},
		{GroupOperator, GroupAdmin, false},
		{"", GroupOperator, false},
	}

	for _, tt := range tests {
		if got := GroupAtLeast(tt.group, tt.minimum); got != tt.want {
			t.Errorf("GroupAtLeast(%q, %q) = %v, want %v", tt.group, tt.minimum, got, tt.want)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{"", true},
		{"short", true},
		{"1234567", true},
		{"12345678", false},
		{"a-valid-password", false},
	}

	for _, tt := range tests {
		err := ValidatePassword(tt.password)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
		}
	}
}
