package command

import (
	"strconv"
	"strings"

	"github.com/petasbytes/go-meshedit/internal/volume"
)

// FormatVec3 renders v as "[x, y, z]".
func FormatVec3(v volume.Vec3) string {
	return formatRow(v[:])
}

// FormatMatrix renders a row-major n×n matrix as "[[..], [..]]".
func FormatMatrix(vals []float64, n int) string {
	rows := make([]string, 0, n)
	for r := 0; r < n; r++ {
		rows = append(rows, formatRow(vals[r*n:(r+1)*n]))
	}
	return "[" + strings.Join(rows, ", ") + "]"
}

func formatRow(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
