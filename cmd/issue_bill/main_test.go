package main

import "testing"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "1250.50", want: "1250.50"},
		{in: " 980 ", want: "980.00"},
		{in: "99.999", want: "100.00"},
		{in: "0", wantErr: true},
		{in: "-10", wantErr: true},
		{in: "ten", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseAmount(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseAmount(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if !tt.wantErr && got.StringFixed(2) != tt.want {
			t.Errorf("parseAmount(%q) = %s, want %s", tt.in, got.StringFixed(2), tt.want)
		}
	}
}
