package filter

import (
	"errors"
	"testing"

	"w3batch/internal/domain/entity"
)

func usd(v float64) *float64 { return &v }

func TestParseAmountRule(t *testing.T) {
	rule, err := Parse("56:0xABC > 0.01")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if rule.ChainPattern != "56" {
		t.Errorf("chain pattern = %q, want %q", rule.ChainPattern, "56")
	}
	if rule.TokenPattern != "0xabc" {
		t.Errorf("token pattern = %q, want case-folded %q", rule.TokenPattern, "0xabc")
	}
	if rule.Operator != ">" {
		t.Errorf("operator = %q, want >", rule.Operator)
	}
	if rule.Threshold != 0.01 {
		t.Errorf("threshold = %v, want 0.01", rule.Threshold)
	}
	if rule.Kind != KindAmount {
		t.Errorf("kind = %v, want KindAmount", rule.Kind)
	}
}

func TestParseUsdRule(t *testing.T) {
	rule, err := Parse("bnb_chain:* > $0.1")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if rule.Kind != KindUSD {
		t.Errorf("kind = %v, want KindUSD", rule.Kind)
	}
	if rule.Threshold != 0.1 {
		t.Errorf("threshold = %v, want 0.1", rule.Threshold)
	}
	if rule.TokenPattern != Wildcard {
		t.Errorf("token pattern = %q, want wildcard", rule.TokenPattern)
	}
}

func TestParsePresenceOnly(t *testing.T) {
	rule, err := Parse("ethereum:ETH")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if rule.Operator != "" {
		t.Errorf("operator = %q, want none", rule.Operator)
	}
	rec := entity.BalanceRecord{Chain: "Ethereum", Token: "eth", Amount: 0}
	if !Matches(rule, rec) {
		t.Error("presence-only rule should match regardless of magnitude")
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"no-colon-here",
		":token",
		"chain:",
		"eth:eth >",
		"eth:eth ~ 5",
		"eth:eth > abc",
		"eth:eth > $x",
		"eth:eth > 1 extra",
		"eth:eth > nan",
		"eth:eth > inf",
		"eth:eth > -Inf",
		"eth:eth > $NaN",
		"eth >5:*",
		"my chain:*",
	}
	for _, raw := range cases {
		_, err := Parse(raw)
		if err == nil {
			t.Errorf("Parse(%q) succeeded, want FilterSyntaxError", raw)
			continue
		}
		var syntaxErr *entity.FilterSyntaxError
		if !errors.As(err, &syntaxErr) {
			t.Errorf("Parse(%q) error type = %T, want *FilterSyntaxError", raw, err)
		}
	}
}

func TestParseRejectsUnspacedComparator(t *testing.T) {
	// Without the check, "eth:eth>5" parses into a presence rule for the
	// token "eth>5" that excludes every record instead of failing at load.
	cases := []string{
		"eth:eth>5",
		"eth:eth>=5",
		"eth:eth<0.5",
		"eth:eth==1",
		"*:*>$1",
		"eth:eth >5",
	}
	for _, raw := range cases {
		_, err := Parse(raw)
		if err == nil {
			t.Errorf("Parse(%q) succeeded, want FilterSyntaxError", raw)
			continue
		}
		var syntaxErr *entity.FilterSyntaxError
		if !errors.As(err, &syntaxErr) {
			t.Errorf("Parse(%q) error type = %T, want *FilterSyntaxError", raw, err)
		}
	}

	rule, err := Parse("eth:eth > 5")
	if err != nil {
		t.Fatalf("spaced form should still parse: %v", err)
	}
	if !Matches(rule, entity.BalanceRecord{Chain: "eth", Token: "ETH", Amount: 10}) {
		t.Error("eth:eth > 5 should match an eth record with amount 10")
	}
}

func TestParseAllStopsAtFirstBadRule(t *testing.T) {
	_, err := ParseAll([]string{"*:*", "broken"})
	if err == nil {
		t.Fatal("ParseAll should fail on malformed rule")
	}
	rules, err := ParseAll(nil)
	if err != nil || rules != nil {
		t.Fatalf("ParseAll(nil) = %v, %v; want nil, nil", rules, err)
	}
}

func TestMatchesCaseInsensitive(t *testing.T) {
	rule, err := Parse("BSC:Cake >= 100")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	rec := entity.BalanceRecord{Chain: "bsc", Token: "CAKE", Amount: 150}
	if !Matches(rule, rec) {
		t.Error("matching should be case-insensitive on both sides")
	}
	rec.Amount = 99.9
	if Matches(rule, rec) {
		t.Error("amount below threshold should not match")
	}
}

func TestMatchesChainAndTokenExact(t *testing.T) {
	rule, _ := Parse("eth:usdc")
	if Matches(rule, entity.BalanceRecord{Chain: "ethereum", Token: "usdc"}) {
		t.Error("chain pattern must match exactly, not by substring")
	}
	if Matches(rule, entity.BalanceRecord{Chain: "eth", Token: "usdc.e"}) {
		t.Error("token pattern must match exactly, not by prefix")
	}
	if !Matches(rule, entity.BalanceRecord{Chain: "eth", Token: "USDC"}) {
		t.Error("exact case-insensitive token should match")
	}
}

func TestUsdRuleNeverMatchesUnpricedRecord(t *testing.T) {
	rule, err := Parse("*:* > $0")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	rec := entity.BalanceRecord{Chain: "eth", Token: "eth", Amount: 1e9}
	if Matches(rule, rec) {
		t.Error("record without usd_value must not match a usd-kind rule")
	}
	if !Matches(rule, entity.BalanceRecord{Chain: "eth", Token: "eth", Amount: 0.1, UsdValue: usd(10)}) {
		t.Error("priced record should match")
	}
}

func TestEvaluateEmptyAdmitsEverything(t *testing.T) {
	rec := entity.BalanceRecord{Chain: "whatever", Token: "thing", Amount: 0}
	if !Evaluate(nil, rec) {
		t.Error("empty rule set must admit every record")
	}
}

func TestEvaluateCatchAll(t *testing.T) {
	rule, err := Parse("*:*")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	records := []entity.BalanceRecord{
		{Chain: "eth", Token: "ETH", Amount: 1},
		{Chain: "56", Token: "0xdeadbeef", Amount: 0},
		{Chain: "", Token: "", Amount: -1},
	}
	for _, rec := range records {
		if !Evaluate([]Rule{rule}, rec) {
			t.Errorf("*:* must match %+v", rec)
		}
	}
}

func TestEvaluateOrAcrossRules(t *testing.T) {
	rules, err := ParseAll([]string{"eth:eth > 10", "bsc:* >= 1"})
	if err != nil {
		t.Fatalf("ParseAll returned error: %v", err)
	}
	if !Evaluate(rules, entity.BalanceRecord{Chain: "bsc", Token: "cake", Amount: 1}) {
		t.Error("record matching the second rule should pass")
	}
	if Evaluate(rules, entity.BalanceRecord{Chain: "eth", Token: "eth", Amount: 5}) {
		t.Error("record matching no rule should be excluded")
	}
}

func TestComparators(t *testing.T) {
	cases := []struct {
		rule   string
		amount float64
		want   bool
	}{
		{"*:* > 1", 1, false},
		{"*:* >= 1", 1, true},
		{"*:* < 1", 0.5, true},
		{"*:* <= 1", 1, true},
		{"*:* == 1", 1, true},
		{"*:* == 1", 1.0001, false},
	}
	for _, tc := range cases {
		rule, err := Parse(tc.rule)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", tc.rule, err)
		}
		got := Matches(rule, entity.BalanceRecord{Chain: "c", Token: "t", Amount: tc.amount})
		if got != tc.want {
			t.Errorf("Matches(%q, amount=%v) = %v, want %v", tc.rule, tc.amount, got, tc.want)
		}
	}
}
