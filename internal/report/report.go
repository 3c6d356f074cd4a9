package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/moznion/go-optional"

	"github.com/mohamedkhairy/momentum-screener/internal/models"
)

// ShortlistHeader opens the shortlist report
const ShortlistHeader = "Top 3 to 4 Stocks:"

// WriteShortlist prints one line per result in rank order:
// "<symbol>: RSI=<rsi>, MACD Signal=<signal>" with two decimals.
func WriteShortlist(w io.Writer, results []models.ScreeningResult) error {
	if _, err := fmt.Fprintln(w, ShortlistHeader); err != nil {
		return err
	}
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "(no instruments qualified)")
		return err
	}

	for _, r := range results {
		if _, err := fmt.Fprintf(w, "%s: RSI=%.2f, MACD Signal=%.2f\n", r.Symbol, r.RSI, r.MACDSignal); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary prints the latest indicator values of every instrument as a table.
// Undefined values print as "-".
func WriteSummary(w io.Writer, annotated []models.AnnotatedSeries) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "SYMBOL\tDATE\tCLOSE\tRSI\tMACD\tSIGNAL\tLOWER\tUPPER\t")

	for i := range annotated {
		snap, ok := annotated[i].Latest()
		if !ok {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t-\t-\t-\t\n", annotated[i].Symbol)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\t%s\t%s\t%s\t%s\t\n",
			snap.Symbol,
			snap.Date.Format("2006-01-02"),
			snap.Close,
			format(snap.RSI),
			format(snap.MACD),
			format(snap.MACDSignal),
			format(snap.BollingerLower),
			format(snap.BollingerUpper),
		)
	}
	return tw.Flush()
}

func format(v optional.Option[float64]) string {
	if v.IsNone() {
		return "-"
	}
	return fmt.Sprintf("%.2f", v.Unwrap())
}
