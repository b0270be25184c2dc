package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

type orderForm struct {
	Company     string          `json:"company" validate:"required"`
	Cost        decimal.Decimal `json:"cost" validate:"money"`
	ArrivalTime string          `json:"arrival_time" validate:"arrival"`
	OType       string          `json:"o_type" validate:"omitempty,foodtype"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name      string
		form      orderForm
		valid     bool
		wantField string
	}{
		{
			name:  "valid",
			form:  orderForm{Company: "Tomas", Cost: decimal.NewFromInt(12), ArrivalTime: "12:00"},
			valid: true,
		},
		{
			name:  "zero cost",
			form:  orderForm{Company: "Tomas", Cost: decimal.Zero, ArrivalTime: "13:00", OType: "menu"},
			valid: true,
		},
		{
			name:      "negative cost",
			form:      orderForm{Company: "Tomas", Cost: decimal.NewFromInt(-1), ArrivalTime: "12:00"},
			wantField: "cost",
		},
		{
			name:  "two decimals",
			form:  orderForm{Company: "Tomas", Cost: decimal.RequireFromString("999999.99"), ArrivalTime: "12:00"},
			valid: true,
		},
		{
			name:  "trailing zeros",
			form:  orderForm{Company: "Tomas", Cost: decimal.RequireFromString("12.500"), ArrivalTime: "12:00"},
			valid: true,
		},
		{
			name:      "three decimals",
			form:      orderForm{Company: "Tomas", Cost: decimal.RequireFromString("12.345"), ArrivalTime: "12:00"},
			wantField: "cost",
		},
		{
			name:      "does not fit column",
			form:      orderForm{Company: "Tomas", Cost: decimal.NewFromInt(1_000_000), ArrivalTime: "12:00"},
			wantField: "cost",
		},
		{
			name:      "unknown arrival",
			form:      orderForm{Company: "Tomas", Cost: decimal.NewFromInt(1), ArrivalTime: "14:00"},
			wantField: "arrival_time",
		},
		{
			name:      "missing company",
			form:      orderForm{Cost: decimal.NewFromInt(1), ArrivalTime: "12:00"},
			wantField: "company",
		},
		{
			name:      "unknown food type",
			form:      orderForm{Company: "Tomas", ArrivalTime: "12:00", OType: "pizza"},
			wantField: "o_type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.form)
			if tt.valid {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Fatalf("error %q does not mention %q", err.Error(), tt.wantField)
			}
		})
	}
}

func TestIsValidArrival(t *testing.T) {
	if !IsValidArrival("12:00") || !IsValidArrival("13:00") {
		t.Fatalf("known slots must be valid")
	}
	if IsValidArrival("") || IsValidArrival("12:30") {
		t.Fatalf("unknown slots must be invalid")
	}
}

func TestIsValidMoney(t *testing.T) {
	tests := []struct {
		cost string
		want bool
	}{
		{"0", true},
		{"12.5", true},
		{"12.50", true},
		{"999999.99", true},
		{"12.345", false},
		{"0.001", false},
		{"1000000", false},
		{"-0.01", false},
	}

	for _, tt := range tests {
		if got := IsValidMoney(decimal.RequireFromString(tt.cost)); got != tt.want {
			t.Errorf("IsValidMoney(%s) = %v, want %v", tt.cost, got, tt.want)
		}
	}
}
