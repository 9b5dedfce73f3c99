package client

import (
	"testing"

	"w3batch/internal/domain/entity"
)

func TestToBalanceRecordScalesRawAmount(t *testing.T) {
	record := toBalanceRecord(debankTokenItem{
		ID:        "0x55d398326f99059ff775485246999027b3197955",
		Chain:     "bsc",
		Name:      "Tether USD",
		Symbol:    "USDT",
		Decimals:  18,
		RawAmount: 2500000000000000000,
		Price:     1.0,
	})

	if record.Chain != "bsc" || record.Token != "USDT" {
		t.Errorf("unexpected identity: %+v", record)
	}
	if record.Amount != 2.5 {
		t.Errorf("Amount = %v, want 2.5", record.Amount)
	}
	if record.UsdValue == nil || *record.UsdValue != 2.5 {
		t.Errorf("UsdValue = %v, want 2.5", record.UsdValue)
	}
}

func TestToBalanceRecordFallsBackToBalanceField(t *testing.T) {
	record := toBalanceRecord(debankTokenItem{
		ID:      "eth",
		Chain:   "eth",
		Symbol:  "ETH",
		Balance: 0.42,
	})

	if record.Amount != 0.42 {
		t.Errorf("Amount = %v, want 0.42 from the balance field", record.Amount)
	}
}

func TestToBalanceRecordZeroPriceMeansNoUsdValue(t *testing.T) {
	record := toBalanceRecord(debankTokenItem{
		ID:        "0xdeadbeef",
		Chain:     "bsc",
		Symbol:    "SCAM",
		Decimals:  9,
		RawAmount: 1000000000,
		Price:     0,
	})

	if record.UsdValue != nil {
		t.Errorf("zero price must leave UsdValue unset, got %v", *record.UsdValue)
	}
	if record.Amount != 1 {
		t.Errorf("Amount = %v, want 1", record.Amount)
	}
}

func TestToBalanceRecordTokenNameFallbacks(t *testing.T) {
	cases := []struct {
		name string
		item debankTokenItem
		want string
	}{
		{"symbol preferred", debankTokenItem{ID: "0xa", Name: "Wrapped Ether", Symbol: "WETH"}, "WETH"},
		{"name fallback", debankTokenItem{ID: "0xa", Name: "Wrapped Ether"}, "Wrapped Ether"},
		{"id fallback", debankTokenItem{ID: "0xa"}, "0xa"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := toBalanceRecord(tc.item).Token; got != tc.want {
				t.Errorf("Token = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestToBalanceRecordIsPureBalanceRecord(t *testing.T) {
	record := toBalanceRecord(debankTokenItem{ID: "matic", Chain: "matic", Symbol: "MATIC", Balance: 3})
	want := entity.BalanceRecord{Chain: "matic", Token: "MATIC", Amount: 3, FormattedAmount: "3"}
	if record.Chain != want.Chain || record.Token != want.Token || record.Amount != want.Amount || record.FormattedAmount != want.FormattedAmount {
		t.Errorf("record = %+v, want %+v", record, want)
	}
}
