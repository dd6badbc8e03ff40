package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-ns2-stats/internal/model"
)

const dateLayout = "2006-01-02"

// rangeFlags adds --from/--to to a command. Bounds are unix seconds or
// YYYY-MM-DD dates in local time; a --to date includes that whole day.
type rangeFlags struct {
	from, to string
}

func (f *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "only games on or after this date (YYYY-MM-DD or unix seconds)")
	cmd.Flags().StringVar(&f.to, "to", "", "only games on or before this date (YYYY-MM-DD or unix seconds)")
}

func (f rangeFlags) Range() (model.Range, error) {
	from, err := parseBound(f.from, false)
	if err != nil {
		return model.Range{}, fmt.Errorf("--from: %w", err)
	}
	to, err := parseBound(f.to, true)
	if err != nil {
		return model.Range{}, fmt.Errorf("--to: %w", err)
	}
	r := model.Range{From: from, To: to}
	if !r.Valid() {
		return model.Range{}, fmt.Errorf("--from %s is after --to %s", f.from, f.to)
	}
	return r, nil
}

func parseBound(s string, endOfDay bool) (*int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil {
		return &ts, nil
	}
	day, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", s)
	}
	if endOfDay {
		day = day.AddDate(0, 0, 1).Add(-time.Second)
	}
	ts := day.Unix()
	return &ts, nil
}

// splitNames parses a comma separated player list, dropping blanks.
func splitNames(values []string) []string {
	var out []string
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}
