package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loclaude/loclaude/internal/health"
	"github.com/loclaude/loclaude/internal/infra/metrics"
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "Print the report as JSON")
	doctorCmd.Flags().StringVar(&doctorTextfile, "textfile", "", "Also write Prometheus metrics to this file")
	rootCmd.AddCommand(doctorCmd)
}

var (
	doctorJSON     bool
	doctorTextfile string
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system requirements and health",
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	out := rt.Out
	if !doctorJSON {
		out.Println("Checking system requirements...")
		out.Println()
	}

	report := rt.Doctor(cmd.Context()).Run(cmd.Context())
	if doctorTextfile != "" {
		if err := writeDoctorMetrics(report, doctorTextfile); err != nil {
			return err
		}
	}

	if doctorJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		out.Println(string(data))
		return exit(report.ExitCode(), nil)
	}

	for _, r := range report.Results {
		out.Println(out.StatusLine(string(r.Status), r.Name, r.Message, r.Version))
		if r.Hint != "" {
			out.Printf("    %s\n", r.Hint)
		}
	}
	out.Println()

	errs, warns := report.Errors(), report.Warnings()
	switch report.Overall() {
	case health.StatusError:
		out.Printf("%s Fix these before proceeding.\n", out.Red(fmt.Sprintf("%d error(s) found.", len(errs))))
	case health.StatusWarning:
		out.Printf("%s loclaude may work with limited functionality.\n", out.Yellow(fmt.Sprintf("%d warning(s).", len(warns))))
	default:
		out.Printf("%s Ready to use loclaude.\n", out.Green("All checks passed!"))
	}
	return exit(report.ExitCode(), nil)
}

func writeDoctorMetrics(report health.Report, path string) error {
	m := metrics.NewDoctor()
	for _, r := range report.Results {
		m.Observe(r.Name, string(r.Status), r.Duration)
	}
	m.Finish(report.CheckedAt)
	if err := m.WriteTextfile(path); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
