// Package aggregate turns raw job results into the final report.
package aggregate

import (
	"sort"
	"strings"

	"w3batch/internal/domain/entity"
	"w3batch/internal/filter"
)

type totalKey struct {
	chain string
	token string
}

// Build filters each wallet's records through the rule set and assembles
// either a per-wallet report or a totals report. Per-wallet sections keep
// the input wallet order, and a wallet whose records were all filtered out
// is still listed with an empty set. Failed wallets are surfaced in a
// separate summary in both modes.
func Build(action string, results []entity.JobResult, rules []filter.Rule, total bool) *entity.Report {
	report := &entity.Report{
		Action:  action,
		Total:   total,
		Wallets: len(results),
	}

	sums := make(map[totalKey]*entity.TotalRow)
	walletsPerKey := make(map[totalKey]map[string]struct{})

	for _, result := range results {
		if result.State == entity.JobFailed {
			message := ""
			if result.Err != nil {
				message = result.Err.Error()
			}
			report.Failed = append(report.Failed, entity.FailedWallet{
				Address: result.Wallet.Address,
				Label:   result.Wallet.Label,
				Message: message,
			})
			continue
		}

		var surviving []entity.BalanceRecord
		for _, record := range result.Records {
			if filter.Evaluate(rules, record) {
				surviving = append(surviving, record)
			}
		}

		if !total {
			report.Sections = append(report.Sections, entity.WalletSection{
				Wallet:  result.Wallet,
				Records: surviving,
			})
			continue
		}

		for _, record := range surviving {
			key := totalKey{chain: strings.ToLower(record.Chain), token: strings.ToLower(record.Token)}
			row, ok := sums[key]
			if !ok {
				// First occurrence decides the display casing.
				row = &entity.TotalRow{Chain: record.Chain, Token: record.Token}
				sums[key] = row
				walletsPerKey[key] = make(map[string]struct{})
			}

			row.Amount += record.Amount
			if record.UsdValue != nil {
				if row.UsdValue == nil {
					row.UsdValue = new(float64)
				}
				*row.UsdValue += *record.UsdValue
			}

			walletID := strings.ToLower(result.Wallet.Address)
			if _, seen := walletsPerKey[key][walletID]; !seen {
				walletsPerKey[key][walletID] = struct{}{}
				row.Wallets++
			}
		}
	}

	if total {
		rows := make([]entity.TotalRow, 0, len(sums))
		for _, row := range sums {
			rows = append(rows, *row)
		}
		sort.Slice(rows, func(i, j int) bool {
			ci, cj := strings.ToLower(rows[i].Chain), strings.ToLower(rows[j].Chain)
			if ci != cj {
				return ci < cj
			}
			return strings.ToLower(rows[i].Token) < strings.ToLower(rows[j].Token)
		})
		report.Totals = rows
	}

	return report
}
