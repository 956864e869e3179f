package sheets

import (
	"fmt"
	"strconv"
	"strings"
)

// toStrings converts API cells (strings, numbers, bools) into trimmed strings.
func toStrings(values [][]any) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, cell := range row {
			switch v := cell.(type) {
			case nil:
				cells[j] = ""
			case string:
				cells[j] = strings.TrimSpace(v)
			case float64:
				cells[j] = strconv.FormatFloat(v, 'f', -1, 64)
			default:
				cells[j] = strings.TrimSpace(fmt.Sprint(v))
			}
		}
		out[i] = cells
	}
	return out
}
