package batch

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/bbockelm/cellpainting-download/internal/validation"
)

// ReadMeasurements reads measurement prefixes from a flat text list, one per
// line, preserving order and duplicates. Blank lines are skipped and do not
// count toward the cap. Reading stops once max entries are collected when max
// is positive (0 = unlimited). Any identifier that would not survive the
// flatten/mirror pipeline fails the whole read.
func ReadMeasurements(path string, max int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open measurement list: %w", err)
	}
	defer f.Close()

	var measurements []string
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		m := strings.TrimSpace(scanner.Text())
		if m == "" {
			continue
		}
		if err := validation.ValidateMeasurement(m); err != nil {
			return nil, fmt.Errorf("measurement list line %d: %w", line, err)
		}
		measurements = append(measurements, m)
		if max > 0 && len(measurements) == max {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read measurement list: %w", err)
	}

	return measurements, nil
}
