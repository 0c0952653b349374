package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vmunix/controlroom/internal/library"
)

func newSyncCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "sync movies|shows",
		Short:     "Mirror the Plex library into local storage",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(library.KindMovies), string(library.KindShows)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := library.Kind(args[0])
			if !kind.Valid() {
				return fmt.Errorf("unknown kind %q (want movies or shows)", args[0])
			}
			client, err := opts.client()
			if err != nil {
				return err
			}
			resp, err := client.Sync(cmd.Context(), kind)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			fprintf(cmd.OutOrStdout(), "%s (%dms)\n", resp.Message, resp.DurationMS)
			if resp.Result != nil && len(resp.Result.SkippedIDs) > 0 {
				fprintf(cmd.OutOrStdout(), "Skipped: %v\n", resp.Result.SkippedIDs)
			}
			return nil
		},
	}
	return cmd
}

type pageFlags struct {
	query  string
	limit  int
	offset int
}

func (p *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&p.query, "query", "q", "", "Fuzzy title filter")
	cmd.Flags().IntVarP(&p.limit, "limit", "l", 50, "Maximum number of items to return")
	cmd.Flags().IntVar(&p.offset, "offset", 0, "Number of items to skip")
}

func newMoviesCmd(opts *options) *cobra.Command {
	var page pageFlags
	cmd := &cobra.Command{
		Use:   "movies",
		Short: "List mirrored movies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			resp, err := client.Movies(cmd.Context(), page.query, page.limit, page.offset)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			if len(resp.Items) == 0 {
				fprintf(cmd.OutOrStdout(), "No movies found\n")
				return nil
			}
			rows := make([][]string, 0, len(resp.Items))
			for _, m := range resp.Items {
				rows = append(rows, []string{
					m.PlexID, truncate(m.Title, 40), formatYear(m.Year),
					m.Resolution, m.DurationFormatted, formatBytes(m.FileSize),
				})
			}
			renderTable(cmd.OutOrStdout(), []string{"ID", "TITLE", "YEAR", "RES", "DURATION", "SIZE"}, rows, 6)
			fprintf(cmd.OutOrStdout(), "%d of %d movies\n", len(resp.Items), resp.Total)
			return nil
		},
	}
	page.register(cmd)
	return cmd
}

func newShowsCmd(opts *options) *cobra.Command {
	var page pageFlags
	cmd := &cobra.Command{
		Use:   "shows",
		Short: "List mirrored shows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			resp, err := client.Shows(cmd.Context(), page.query, page.limit, page.offset)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			if len(resp.Items) == 0 {
				fprintf(cmd.OutOrStdout(), "No shows found\n")
				return nil
			}
			rows := make([][]string, 0, len(resp.Items))
			for _, s := range resp.Items {
				rows = append(rows, []string{
					s.PlexID, truncate(s.Title, 40), formatYear(s.Year),
					strconv.Itoa(s.SeasonCount), strconv.Itoa(s.EpisodeCount), formatBytes(s.TotalFileSize),
				})
			}
			renderTable(cmd.OutOrStdout(), []string{"ID", "TITLE", "YEAR", "SEASONS", "EPISODES", "SIZE"}, rows, 4, 5, 6)
			fprintf(cmd.OutOrStdout(), "%d of %d shows\n", len(resp.Items), resp.Total)
			return nil
		},
	}
	page.register(cmd)
	return cmd
}

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the mirrored library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			stats, err := client.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), stats)
			}
			w := cmd.OutOrStdout()
			fprintf(w, "Movies:    %d (%s)\n", stats.MovieCount, formatBytes(stats.MovieBytes))
			fprintf(w, "Shows:     %d (%s)\n", stats.ShowCount, formatBytes(stats.ShowBytes))
			fprintf(w, "Seasons:   %d\n", stats.SeasonCount)
			fprintf(w, "Episodes:  %d\n", stats.EpisodeCount)
			return nil
		},
	}
}
