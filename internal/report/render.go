package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"w3batch/internal/domain/entity"
	"w3batch/internal/pkg/utils"
)

// Render writes a plain-text report. Per-wallet sections keep the wallet
// file order; records inside a section are shown most valuable first.
func Render(w io.Writer, rep *entity.Report) error {
	mode := "per-wallet"
	if rep.Total {
		mode = "totals"
	}
	fmt.Fprintf(w, "Action: %s (%s, %d wallets, %d failed, %s)\n",
		rep.Action, mode, rep.Wallets, len(rep.Failed), rep.Elapsed.Round(time.Millisecond))
	if rep.CacheAsOf != nil {
		fmt.Fprintf(w, "Cache as of: %s\n", rep.CacheAsOf.Format("2006-01-02 15:04:05 MST"))
	}
	fmt.Fprintln(w)

	var err error
	if rep.Total {
		err = renderTotals(w, rep.Totals)
	} else {
		err = renderSections(w, rep.Sections)
	}
	if err != nil {
		return err
	}

	if len(rep.Failed) > 0 {
		fmt.Fprintln(w, "Failed:")
		for _, failed := range rep.Failed {
			line := "  " + failed.Address
			if failed.Label != "" {
				line += " (" + failed.Label + ")"
			}
			fmt.Fprintln(w, line+": "+failed.Message)
		}
	}
	return nil
}

func renderSections(w io.Writer, sections []entity.WalletSection) error {
	grandTotal, havePrices := 0.0, false

	for _, section := range sections {
		title := section.Wallet.Address
		if section.Wallet.Label != "" {
			title += " (" + section.Wallet.Label + ")"
		}
		if usd, ok := sectionUsd(section.Records); ok {
			title += fmt.Sprintf("  $%.2f", usd)
			grandTotal += usd
			havePrices = true
		}
		fmt.Fprintln(w, title)

		if len(section.Records) == 0 {
			fmt.Fprintln(w, "  (no records)")
			fmt.Fprintln(w)
			continue
		}

		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  CHAIN\tTOKEN\tAMOUNT\tUSD")
		for _, rec := range sortedByUsd(section.Records) {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", rec.Chain, rec.Token, amountString(rec), usdString(rec.UsdValue))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	if havePrices {
		fmt.Fprintf(w, "Total USD: $%.2f\n\n", grandTotal)
	}
	return nil
}

func renderTotals(w io.Writer, rows []entity.TotalRow) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CHAIN\tTOKEN\tAMOUNT\tUSD\tWALLETS")

	grandTotal, havePrices := 0.0, false
	for _, row := range rows {
		usd := "-"
		if row.UsdValue != nil {
			usd = fmt.Sprintf("%.2f", *row.UsdValue)
			grandTotal += *row.UsdValue
			havePrices = true
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", row.Chain, row.Token, utils.FormatFloat(row.Amount), usd, row.Wallets)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)

	if havePrices {
		fmt.Fprintf(w, "Total USD: $%.2f\n\n", grandTotal)
	}
	return nil
}

func sectionUsd(records []entity.BalanceRecord) (float64, bool) {
	sum, found := 0.0, false
	for _, rec := range records {
		if rec.UsdValue != nil {
			sum += *rec.UsdValue
			found = true
		}
	}
	return sum, found
}

// sortedByUsd copies the slice so rendering never reorders report data.
// Unpriced records sort last.
func sortedByUsd(records []entity.BalanceRecord) []entity.BalanceRecord {
	out := make([]entity.BalanceRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return usdOf(out[i]) > usdOf(out[j])
	})
	return out
}

func usdOf(rec entity.BalanceRecord) float64 {
	if rec.UsdValue == nil {
		return -1
	}
	return *rec.UsdValue
}

func amountString(rec entity.BalanceRecord) string {
	if rec.FormattedAmount != "" {
		return rec.FormattedAmount
	}
	return utils.FormatFloat(rec.Amount)
}

func usdString(value *float64) string {
	if value == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *value)
}
