package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/3-lines-studio/monocle/internal/adapters/rendersvc"
	"github.com/3-lines-studio/monocle/internal/usecase"
)

// ExportReport summarises an export run.
type ExportReport struct {
	out       *Output
	startTime time.Time
	outputDir string
	now       func() time.Time
}

func NewExportReport(out *Output, outputDir string) *ExportReport {
	return &ExportReport{
		out:       out,
		startTime: time.Now(),
		outputDir: outputDir,
		now:       time.Now,
	}
}

func (r *ExportReport) Render(result usecase.ExportOutput) {
	duration := r.now().Sub(r.startTime)
	w := r.out.Writer()
	c := r.out

	if len(result.Failures) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  "+c.Yellow("⚠ ")+"Failures (%d):\n", len(result.Failures))
		for _, failure := range result.Failures {
			fmt.Fprintf(w, "  %s %s (%s)\n", c.Red("✗"), failure.PrototypeName, propSetName(failure.PropSet))
			message, details := describe(failure.Err)
			fmt.Fprintf(w, "    %s\n", message)
			for _, detail := range deduplicateStrings(details) {
				fmt.Fprintf(w, "      • %s\n", detail)
			}
		}
	}

	fmt.Fprintln(w)
	if result.Error != nil {
		r.out.PrintError("Export failed after %s: %v", formatDuration(duration), result.Error)
	} else {
		fmt.Fprintf(w, "  "+c.Green("✓ ")+"%d files exported in %s\n", len(result.Files), formatDuration(duration))
	}

	if r.outputDir != "" {
		fmt.Fprintf(w, "\n  %s\n", c.Gray("Output: "+r.outputDir))
	}
}

func describe(err error) (string, []string) {
	if err == nil {
		return "", nil
	}
	var renderErr *rendersvc.RenderError
	if errors.As(err, &renderErr) {
		return renderErr.Message, renderErr.Errors
	}
	return strings.SplitN(err.Error(), "\n", 2)[0], nil
}

func propSetName(propSet string) string {
	if propSet == "" {
		return "default"
	}
	return propSet
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.1fs", float64(d)/float64(time.Second))
}

// deduplicateStrings keeps the first occurrence order and annotates repeats.
func deduplicateStrings(items []string) []string {
	if len(items) <= 1 {
		return items
	}

	counts := make(map[string]int)
	var order []string
	for _, item := range items {
		if counts[item] == 0 {
			order = append(order, item)
		}
		counts[item]++
	}

	result := make([]string, 0, len(order))
	for _, item := range order {
		if counts[item] > 1 {
			result = append(result, fmt.Sprintf("%s (%d occurrences)", item, counts[item]))
		} else {
			result = append(result, item)
		}
	}
	return result
}
