package risk

import (
	"encoding/json"
	"testing"
)

func TestLevelOrdering(t *testing.T) {
	if !(Low < Medium && Medium < High && High < Critical) {
		t.Fatalf("levels are not totally ordered")
	}
	if got := Max(Medium, Low, High); got != High {
		t.Fatalf("Max = %v, want high", got)
	}
	if got := Max(); got != Low {
		t.Fatalf("Max() = %v, want low", got)
	}
	if got := Min(Critical, Medium); got != Medium {
		t.Fatalf("Min = %v, want medium", got)
	}
	if !Critical.AtLeast(High) || Medium.AtLeast(High) {
		t.Fatalf("AtLeast mismatch")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"low", Low, false},
		{" HIGH ", High, false},
		{"Critical", Critical, false},
		{"severe", Low, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) err = %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevelJSONUsesNames(t *testing.T) {
	data, err := json.Marshal(struct {
		Level Level `json:"risk_level"`
	}{Critical})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"risk_level":"critical"}` {
		t.Fatalf("unexpected json %s", data)
	}

	var out struct {
		Level Level `json:"risk_level"`
	}
	if err := json.Unmarshal([]byte(`{"risk_level":"medium"}`), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Level != Medium {
		t.Fatalf("got %v, want medium", out.Level)
	}
}
