package domain_test

import (
	"testing"

	"github.com/AchilleasB/classbank/ledger-service/internal/core/domain"
)

func TestParseAmount(t *testing.T) {
	tests := map[string]string{
		"30":           "30",
		" 12.50 ":      "12.5",
		"-4":           "-4",
		"":             "0",
		"abc":          "0",
		"1e2":          "100",
		"$5":           "0",
		"0.005":        "0.01",
		"1.500":        "1.5",
		"999999999999": "999999999999",
		"1e12":         "0",
		"1e-2000000":   "0",
		"1e10000000":   "0",
		"0.000000001":  "0",
	}
	for raw, want := range tests {
		if got := domain.ParseAmount(raw); !got.Equal(dec(want)) {
			t.Errorf("ParseAmount(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestProjectSavings(t *testing.T) {
	if got := domain.ProjectSavings(dec("30")); !got.Equal(dec("31.5")) {
		t.Errorf("expected 31.5, got %s", got)
	}
	if got := domain.ProjectSavings(dec("0")); !got.IsZero() {
		t.Errorf("expected 0, got %s", got)
	}
	if got := domain.InterestRatePercent(); !got.Equal(dec("5")) {
		t.Errorf("expected 5%%, got %s", got)
	}
}

func TestNotifications_SecondRangeIsEmpty(t *testing.T) {
	n := domain.NewNotifications([]string{"a", "b"})

	var first []string
	for m := range n.All() {
		first = append(first, m)
	}
	var second []string
	for m := range n.All() {
		second = append(second, m)
	}

	if len(first) != 2 || len(second) != 0 {
		t.Errorf("expected [a b] then nothing, got %v then %v", first, second)
	}
}

func TestCatalog(t *testing.T) {
	c := domain.DefaultCatalog()

	price, err := c.Price("No Homework Pass")
	if err != nil || !price.Equal(dec("200")) {
		t.Errorf("expected 200, got %s (%v)", price, err)
	}
	if _, err := c.Price("Pizza"); err != domain.ErrUnknownItem {
		t.Errorf("expected ErrUnknownItem, got %v", err)
	}
	items := c.Items()
	if len(items) != 2 || items[0].Name != "Candy" {
		t.Errorf("expected Candy first, got %+v", items)
	}
}
