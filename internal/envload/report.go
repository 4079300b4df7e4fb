package envload

import (
	"fmt"
	"io"
	"strings"

	"github.com/yacchi/eden-cli/internal/manifest"
	"github.com/yacchi/eden-cli/internal/ui"
)

const (
	sourceBoxWidth = 50
	varsBoxWidth   = 76
	valueMaxWidth  = 24
)

// writeReport は解決結果のサマリを w に書き出す
func writeReport(w io.Writer, r *Result, envSource string) {
	writeSourceBox(w, r, envSource)
	writeVarsBox(w, r)
}

func writeSourceBox(w io.Writer, r *Result, envSource string) {
	if r.env == "" && r.task == "" && r.testMode == "" {
		return
	}
	line := strings.Repeat("=", sourceBoxWidth)
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "  CONFIGURATION SOURCE")
	fmt.Fprintln(w, line)
	if r.testMode != "" {
		fmt.Fprintf(w, "  Test Suite:         %s (%s/%s)\n",
			ui.Cyan(r.testMode), manifest.ConfigDirName, manifest.TestsFileName)
	}
	if r.task != "" {
		fmt.Fprintf(w, "  Task:               %s (%s/%s)\n",
			ui.Cyan(r.task), manifest.ConfigDirName, manifest.TasksFileName)
	}
	if r.env != "" {
		fmt.Fprintf(w, "  Config Environment: %s", ui.Cyan(r.env))
		if envSource != "" {
			fmt.Fprintf(w, " (%s)", envSource)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, line)
	fmt.Fprintln(w)
}

func writeVarsBox(w io.Writer, r *Result) {
	line := strings.Repeat("=", varsBoxWidth)
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "  ENVIRONMENT VARIABLES")
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "    %-26s%-26s%s\n", "VARIABLE", "VALUE", "SOURCE")
	fmt.Fprintln(w, strings.Repeat("-", varsBoxWidth))
	vars := r.Vars()
	if len(vars) == 0 {
		fmt.Fprintln(w, ui.Gray("    (no variables resolved)"))
	}
	for _, v := range vars {
		display := v.Value
		if v.secret {
			display = "********"
		}
		fmt.Fprintf(w, "  %s %-26s%-26s%s\n",
			ui.Green("✓"), v.Name, truncateValue(display), ui.SourceColor(v.Source))
	}
	fmt.Fprintln(w, line)
}

// truncateValue は表示幅に収まるよう値を切り詰める
func truncateValue(s string) string {
	runes := []rune(s)
	if len(runes) <= valueMaxWidth {
		return s
	}
	return string(runes[:valueMaxWidth-3]) + "..."
}
