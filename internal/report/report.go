// Package report renders a cooperation run as the fixed-layout text block
// printed by the CLI.
package report

import (
	"fmt"
	"strings"

	"github.com/san-kum/coopsim/internal/metrics"
	"github.com/san-kum/coopsim/internal/models"
)

const (
	Title     = "International Cooperation Analysis"
	Underline = "==============================="
)

// Parameter labels, in report order.
const (
	TechTransferLabel  = "Technology Transfer Rate"
	TradeGrowthLabel   = "Trade Growth Rate"
	CollaborationLabel = "Collaboration Factor"
	ResourceLabel      = "Resource Constraint"
)

// Format builds the report. Every number is printed with two decimals.
func Format(p models.CooperationParams, s metrics.Summary) string {
	var b strings.Builder

	b.WriteString(Title + "\n")
	b.WriteString(Underline + "\n\n")

	b.WriteString("Model Parameters:\n")
	fmt.Fprintf(&b, "%s: %.2f\n", TechTransferLabel, p.A)
	fmt.Fprintf(&b, "%s: %.2f\n", TradeGrowthLabel, p.C)
	fmt.Fprintf(&b, "%s: %.2f\n", CollaborationLabel, p.B)
	fmt.Fprintf(&b, "%s: %.2f\n\n", ResourceLabel, p.D)

	b.WriteString("Results:\n")
	for _, v := range s.Values() {
		fmt.Fprintf(&b, "%s: %.2f\n", v.Name, v.Value)
	}

	return b.String()
}
