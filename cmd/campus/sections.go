package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/tinytelemetry/campus/internal/dashboard"
	"github.com/tinytelemetry/campus/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newSectionsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sections [section]",
		Short: "Print a summary of every section, or one section's table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath, cmd.Flags())
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			log, closeLog := openLogger(cfg)
			defer closeLog()

			source, closeSource, err := openSource(cfg, log)
			if err != nil {
				return err
			}
			defer closeSource()

			state := dashboard.New(source, nil)
			if len(args) == 1 {
				section, err := model.ParseSection(args[0])
				if err != nil {
					return err
				}
				return printSection(cmd.OutOrStdout(), state, section)
			}
			return printSummary(cmd.OutOrStdout(), state, source)
		},
	}
	return cmd
}

func newPlainTable() *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// recordCounter is implemented by sources that can count records without
// loading them.
type recordCounter interface {
	RecordCounts() (map[model.Section]int, error)
}

// printSummary lists each section with its columns and record count.
func printSummary(w io.Writer, state *dashboard.State, source model.DataSource) error {
	var counts map[model.Section]int
	if rc, ok := source.(recordCounter); ok {
		c, err := rc.RecordCounts()
		if err != nil {
			return fmt.Errorf("counting records: %w", err)
		}
		counts = c
	}

	t := newPlainTable().Headers("Section", "Columns", "Records")
	for _, entry := range state.SidebarEntries() {
		header, err := state.TableHeader(entry.Section)
		if err != nil {
			return err
		}
		n, ok := counts[entry.Section]
		if !ok {
			rows, err := state.TableRows(entry.Section)
			if err != nil {
				return err
			}
			n = len(rows)
		}
		t.Row(entry.Label, strconv.Itoa(len(header)-1), strconv.Itoa(n))
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

// printSection renders one section's table the way the dashboard shows it,
// without the actions column.
func printSection(w io.Writer, state *dashboard.State, section model.Section) error {
	tbl, err := state.Table(section)
	if err != nil {
		return err
	}
	header := append([]string{"ID"}, tbl.Header[:len(tbl.Header)-1]...)
	t := newPlainTable().Headers(header...)
	for _, r := range tbl.Rows {
		t.Row(append([]string{strconv.Itoa(r.ID)}, r.Cells...)...)
	}
	_, err = fmt.Fprintf(w, "%s\n%s\n", section.Label(), t.String())
	return err
}
