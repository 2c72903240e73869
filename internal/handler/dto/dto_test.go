package dto

import (
	"encoding/json"
	"testing"
)

func TestUpdateLimitsRequest_Presence(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantCalorie string // "" absent, "null" cleared, otherwise the value
		wantPrice   string
	}{
		{"both absent", `{}`, "", ""},
		{"calorie set", `{"calorie_limit": 1800}`, "1800", ""},
		{"price cleared", `{"price_limit": null}`, "", "null"},
		{"string value", `{"calorie_limit": "1500.5", "price_limit": 20}`, "1500.5", "20"},
	}

	describe := func(o OptionalDecimal) string {
		p := o.Ptr()
		switch {
		case p == nil:
			return ""
		case !p.Valid:
			return "null"
		default:
			return p.Decimal.String()
		}
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateLimitsRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got := describe(req.CalorieLimit); got != tt.wantCalorie {
				t.Errorf("calorie_limit = %q, want %q", got, tt.wantCalorie)
			}
			if got := describe(req.PriceLimit); got != tt.wantPrice {
				t.Errorf("price_limit = %q, want %q", got, tt.wantPrice)
			}
		})
	}
}

func TestUpdateLimitsRequest_RejectsGarbage(t *testing.T) {
	var req UpdateLimitsRequest
	if err := json.Unmarshal([]byte(`{"calorie_limit": "lots"}`), &req); err == nil {
		t.Fatal("expected error for non-numeric limit")
	}
}
