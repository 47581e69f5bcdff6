package history

import (
	"fmt"

	"github.com/gosuri/uitable"

	"github.com/baldhumanity/dino-evo/evolution"
)

// Table renders generation records as an aligned console table.
func Table(records []evolution.GenerationStats) string {
	table := uitable.New()
	table.MaxColWidth = 40
	table.Wrap = false
	table.AddRow("Generation", "Max", "Avg", "Min", "Variance", "StdDev")
	for _, r := range records {
		table.AddRow(r.Generation, r.Max, r.Avg, r.Min,
			fmt.Sprintf("%.3f", r.Variance), fmt.Sprintf("%.3f", r.StdDev))
	}
	return table.String()
}
