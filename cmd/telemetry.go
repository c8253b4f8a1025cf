package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/khanhnv2901/netrax/internal/shared/constants"
	"github.com/khanhnv2901/netrax/internal/shared/security"
	"github.com/spf13/cobra"
)

const telemetryFileName = "telemetry.jsonl"

type telemetryRecord struct {
	Timestamp            time.Time `json:"timestamp"`
	Command              string    `json:"command"`
	DomainCount          int       `json:"domain_count"`
	SuccessCount         int       `json:"success_count"`
	ErrorCount           int       `json:"error_count"`
	SuccessRate          float64   `json:"success_rate"`
	NodeCount            int       `json:"node_count"`
	LinkCount            int       `json:"link_count"`
	DurationSeconds      float64   `json:"duration_seconds"`
	AvgDurationPerDomain float64   `json:"avg_duration_per_domain"`
}

// runStats accumulates per-domain outcomes for one command invocation.
type runStats struct {
	ok, failed   int
	nodes, links int
}

func (s *runStats) success(nodes, links int) {
	s.ok++
	s.nodes += nodes
	s.links += links
}

func (s *runStats) failure() {
	s.failed++
}

func recordTelemetry(appCtx *AppContext, command string, stats runStats, duration time.Duration) error {
	total := stats.ok + stats.failed

	successRate := 0.0
	avgDuration := 0.0
	if total > 0 {
		successRate = (float64(stats.ok) / float64(total)) * 100
		avgDuration = duration.Seconds() / float64(total)
	}

	record := telemetryRecord{
		Timestamp:            time.Now().UTC(),
		Command:              command,
		DomainCount:          total,
		SuccessCount:         stats.ok,
		ErrorCount:           stats.failed,
		SuccessRate:          successRate,
		NodeCount:            stats.nodes,
		LinkCount:            stats.links,
		DurationSeconds:      duration.Seconds(),
		AvgDurationPerDomain: avgDuration,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal telemetry: %w", err)
	}

	telemetryPath, err := security.ResolveWithin(appCtx.ResultsDir, telemetryFileName)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(telemetryPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, constants.DefaultFilePerm)
	if err != nil {
		return fmt.Errorf("open telemetry file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write telemetry: %w", err)
	}
	return nil
}

// loadTelemetryHistory returns up to limit records, newest last.
func loadTelemetryHistory(resultsDir string, limit int) ([]telemetryRecord, error) {
	telemetryPath, err := security.ResolveWithin(resultsDir, telemetryFileName)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(telemetryPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []telemetryRecord{}, nil
		}
		return nil, fmt.Errorf("open telemetry file: %w", err)
	}
	defer f.Close()

	var records []telemetryRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec telemetryRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read telemetry: %w", err)
	}

	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	return records, nil
}

var telemetryLimit int

var telemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "Show metrics recorded by graph --telemetry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)
		records, err := loadTelemetryHistory(appCtx.ResultsDir, telemetryLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%s No telemetry recorded yet\n", colorInfo("→"))
			return nil
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Time", "Command", "Domains", "OK", "Errors", "Success", "Nodes", "Links", "Avg/Domain"})
		for _, rec := range records {
			t.AppendRow(table.Row{
				rec.Timestamp.Format(time.RFC3339),
				rec.Command,
				rec.DomainCount,
				rec.SuccessCount,
				rec.ErrorCount,
				fmt.Sprintf("%.1f%%", rec.SuccessRate),
				rec.NodeCount,
				rec.LinkCount,
				fmt.Sprintf("%.2fs", rec.AvgDurationPerDomain),
			})
		}
		t.Render()
		return nil
	},
}

func init() {
	telemetryCmd.Flags().IntVar(&telemetryLimit, "limit", 20, "number of most recent records to show (0 = all)")
}
