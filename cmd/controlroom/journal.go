package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// checkDate accepts YYYY-MM-DD and "today".
func checkDate(s string) (string, error) {
	if s == "" || s == "today" {
		return time.Now().Format(time.DateOnly), nil
	}
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return "", fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return s, nil
}

// newRemoveCmd builds an "rm <id>" subcommand around del.
func newRemoveCmd(opts *options, noun string, del func(*Client, *cobra.Command, int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a " + noun,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := opts.client()
			if err != nil {
				return err
			}
			if err := del(client, cmd, id); err != nil {
				return err
			}
			fprintf(cmd.OutOrStdout(), "Deleted %s %d\n", noun, id)
			return nil
		},
	}
}

func newDiaryCmd(opts *options) *cobra.Command {
	diaryCmd := &cobra.Command{
		Use:   "diary",
		Short: "Manage diary entries",
	}

	var search, category string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List diary entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			entries, err := client.DiaryEntries(cmd.Context(), search, category)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), entries)
			}
			if len(entries) == 0 {
				fprintf(cmd.OutOrStdout(), "No diary entries\n")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					strconv.FormatInt(e.ID, 10), formatDate(e.CreatedAt), truncate(e.Title, 40),
					e.Category, strings.Join(e.Tags, ", "),
				})
			}
			renderTable(cmd.OutOrStdout(), []string{"ID", "DATE", "TITLE", "CATEGORY", "TAGS"}, rows, 1)
			return nil
		},
	}
	listCmd.Flags().StringVarP(&search, "search", "s", "", "Search title, content and tags")
	listCmd.Flags().StringVarP(&category, "category", "c", "", "Filter by category")

	var req DiaryRequest
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a diary entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			e, err := client.AddDiaryEntry(cmd.Context(), req)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), e)
			}
			fprintf(cmd.OutOrStdout(), "Added diary entry %d: %s\n", e.ID, e.Title)
			return nil
		},
	}
	addCmd.Flags().StringVarP(&req.Title, "title", "t", "", "Entry title")
	addCmd.Flags().StringVar(&req.Content, "content", "", "Entry content")
	addCmd.Flags().StringVarP(&req.Category, "category", "c", "", "Category (default general)")
	addCmd.Flags().StringSliceVar(&req.Tags, "tag", nil, "Tag (repeatable)")
	_ = addCmd.MarkFlagRequired("title")
	_ = addCmd.MarkFlagRequired("content")

	diaryCmd.AddCommand(listCmd, addCmd, newRemoveCmd(opts, "diary entry", func(c *Client, cmd *cobra.Command, id int64) error {
		return c.DeleteDiaryEntry(cmd.Context(), id)
	}))
	return diaryCmd
}

func newNotesCmd(opts *options) *cobra.Command {
	notesCmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage session notes",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List session notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			list, err := client.Notes(cmd.Context())
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), list)
			}
			if len(list) == 0 {
				fprintf(cmd.OutOrStdout(), "No notes\n")
				return nil
			}
			rows := make([][]string, 0, len(list))
			for _, n := range list {
				rows = append(rows, []string{strconv.FormatInt(n.ID, 10), formatDate(n.SessionDate), truncate(n.Content, 60)})
			}
			renderTable(cmd.OutOrStdout(), []string{"ID", "SESSION", "CONTENT"}, rows, 1)
			return nil
		},
	}

	var date, content string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a session note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := checkDate(date)
			if err != nil {
				return err
			}
			client, err := opts.client()
			if err != nil {
				return err
			}
			n, err := client.AddNote(cmd.Context(), NoteRequest{SessionDate: day, Content: content})
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), n)
			}
			fprintf(cmd.OutOrStdout(), "Added note %d for %s\n", n.ID, day)
			return nil
		},
	}
	addCmd.Flags().StringVarP(&date, "date", "d", "today", "Session date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&content, "content", "", "Note content")
	_ = addCmd.MarkFlagRequired("content")

	notesCmd.AddCommand(listCmd, addCmd, newRemoveCmd(opts, "note", func(c *Client, cmd *cobra.Command, id int64) error {
		return c.DeleteNote(cmd.Context(), id)
	}))
	return notesCmd
}

func newFinanceCmd(opts *options) *cobra.Command {
	financeCmd := &cobra.Command{
		Use:   "finance",
		Short: "Manage transactions",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			list, err := client.Transactions(cmd.Context())
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), list)
			}
			if len(list) == 0 {
				fprintf(cmd.OutOrStdout(), "No transactions\n")
				return nil
			}
			rows := make([][]string, 0, len(list))
			for _, t := range list {
				recurring := "-"
				if t.IsRecurring {
					recurring = strings.ToLower(string(t.RecurrenceInterval))
				}
				rows = append(rows, []string{
					strconv.FormatInt(t.ID, 10), formatDate(t.Date), string(t.Type),
					strconv.FormatFloat(t.Amount, 'f', 2, 64), truncate(t.Description, 40), recurring,
				})
			}
			renderTable(cmd.OutOrStdout(), []string{"ID", "DATE", "TYPE", "AMOUNT", "DESCRIPTION", "RECURS"}, rows, 1, 4)
			return nil
		},
	}

	var req TransactionRequest
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := checkDate(req.Date)
			if err != nil {
				return err
			}
			body := req
			body.Date = day
			body.Type = strings.ToUpper(body.Type)
			if body.RecurrenceEndDate != "" {
				if body.RecurrenceEndDate, err = checkDate(body.RecurrenceEndDate); err != nil {
					return err
				}
			}
			if body.RecurrenceInterval != "" {
				body.RecurrenceInterval = strings.ToUpper(body.RecurrenceInterval)
				body.IsRecurring = body.RecurrenceInterval != "NONE"
			}

			client, err := opts.client()
			if err != nil {
				return err
			}
			t, err := client.AddTransaction(cmd.Context(), body)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), t)
			}
			fprintf(cmd.OutOrStdout(), "Added %s %.2f (%s) as %d\n", t.Type, t.Amount, t.Description, t.ID)
			return nil
		},
	}
	addCmd.Flags().Float64VarP(&req.Amount, "amount", "a", 0, "Amount (positive)")
	addCmd.Flags().StringVar(&req.Description, "description", "", "Description")
	addCmd.Flags().StringVarP(&req.Type, "type", "t", "debit", "credit or debit")
	addCmd.Flags().StringVarP(&req.Date, "date", "d", "today", "Date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&req.RecurrenceInterval, "every", "", "Recurrence: daily, weekly, monthly or yearly")
	addCmd.Flags().StringVar(&req.RecurrenceEndDate, "until", "", "Last date of the recurrence (YYYY-MM-DD)")
	_ = addCmd.MarkFlagRequired("amount")
	_ = addCmd.MarkFlagRequired("description")

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Show totals and balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			sum, err := client.Summary(cmd.Context())
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), sum)
			}
			w := cmd.OutOrStdout()
			fprintf(w, "Credits:  %10.2f\n", sum.Credits)
			fprintf(w, "Debits:   %10.2f\n", sum.Debits)
			fprintf(w, "Balance:  %10.2f\n", sum.Balance)
			fprintf(w, "Count:    %10d\n", sum.Count)
			return nil
		},
	}

	financeCmd.AddCommand(listCmd, addCmd, summaryCmd, newRemoveCmd(opts, "transaction", func(c *Client, cmd *cobra.Command, id int64) error {
		return c.DeleteTransaction(cmd.Context(), id)
	}))
	return financeCmd
}
