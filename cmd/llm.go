package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/examprep/examprep/internal/llm"
	"github.com/examprep/examprep/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded AI assistant requests",
}

// grid renders rows as a plain bordered table; numeric columns listed in
// right are right-aligned.
func grid(headers []string, rows [][]string, right ...int) string {
	aligned := make(map[int]bool, len(right))
	for _, c := range right {
		aligned[c] = true
	}
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row != table.HeaderRow && aligned[col] {
				return cell.Align(lipgloss.Right)
			}
			return cell
		}).
		String()
}

func itoa[T ~int | ~int64](v T) string { return strconv.FormatInt(int64(v), 10) }

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent requests, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No LLM events found.")
			return nil
		}

		rows := make([][]string, 0, len(events))
		for _, e := range events {
			ok := "yes"
			if !e.Success {
				ok = "no"
			}
			rows = append(rows, []string{
				itoa(e.ID), e.Timestamp.Local().Format(timeLayout), e.Purpose, truncate(e.Model, 28),
				itoa(e.InputTokens), itoa(e.OutputTokens), itoa(e.LatencyMs), ok,
			})
		}
		fmt.Fprintln(out, grid([]string{"ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "OK"}, rows, 0, 4, 5, 6))
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the transcript and reply of one request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}
		writeEvent(cmd.OutOrStdout(), e)
		return nil
	},
}

func writeEvent(out io.Writer, e *store.LLMRequestEvent) {
	fields := [][2]string{
		{"ID", itoa(e.ID)},
		{"Time", e.Timestamp.Local().Format(timeLayout)},
		{"Provider", e.Provider},
		{"Model", e.Model},
		{"Purpose", e.Purpose},
		{"Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens)},
		{"Latency", fmt.Sprintf("%dms", e.LatencyMs)},
		{"Success", strconv.FormatBool(e.Success)},
	}
	if e.ErrorMessage != "" {
		fields = append(fields, [2]string{"Error", e.ErrorMessage})
	}
	for _, f := range fields {
		fmt.Fprintf(out, "%-10s %s\n", f[0]+":", f[1])
	}

	rule := strings.Repeat("=", 60)
	section := func(title, body string) {
		if body == "" {
			body = "(not captured)"
		}
		fmt.Fprintf(out, "\n%s\n%s\n%s\n%s\n", rule, title, rule, body)
	}
	section("REQUEST", e.RequestBody)
	section("RESPONSE", e.ResponseBody)
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and estimated cost",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(byPurpose) == 0 {
			fmt.Fprintln(out, "No LLM usage recorded yet.")
			return nil
		}

		var calls, in, outTok int
		rows := make([][]string, 0, len(byPurpose)+1)
		for _, u := range byPurpose {
			rows = append(rows, []string{
				u.Purpose, itoa(u.Calls), itoa(u.InputTokens), itoa(u.OutputTokens),
				itoa(u.InputTokens + u.OutputTokens), itoa(u.AvgLatencyMs),
			})
			calls += u.Calls
			in += u.InputTokens
			outTok += u.OutputTokens
		}
		rows = append(rows, []string{"TOTAL", itoa(calls), itoa(in), itoa(outTok), itoa(in + outTok), ""})
		fmt.Fprintln(out, "Usage by purpose")
		fmt.Fprintln(out, grid([]string{"Purpose", "Calls", "Input", "Output", "Total", "Avg ms"}, rows, 1, 2, 3, 4, 5))

		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		if len(byModel) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Estimated cost (USD)")
			fmt.Fprintln(out, costTable(byModel))
		}
		return nil
	},
}

// costTable prices each model's usage. Models missing from the price
// list show "?" and make the total partial.
func costTable(usage []store.LLMUsage) string {
	var total float64
	var unknown []string
	rows := make([][]string, 0, len(usage)+1)
	for _, u := range usage {
		cost := "?"
		if price, ok := llm.PriceOf(u.Model); ok {
			c := price.Cost(u.InputTokens, u.OutputTokens)
			total += c
			cost = formatCost(c)
		} else {
			unknown = append(unknown, u.Model)
		}
		rows = append(rows, []string{truncate(u.Model, 32), itoa(u.Calls), itoa(u.InputTokens), itoa(u.OutputTokens), cost})
	}
	label := "TOTAL"
	if len(unknown) > 0 {
		label = "TOTAL (partial)"
	}
	rows = append(rows, []string{label, "", "", "", formatCost(total)})

	s := grid([]string{"Model", "Calls", "Input", "Output", "Cost"}, rows, 1, 2, 3, 4)
	if len(unknown) > 0 {
		s += "\nPricing unavailable for: " + strings.Join(unknown, ", ")
	}
	return s
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show (0 for all)")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show one purpose (question-explanation or study-tips)")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
