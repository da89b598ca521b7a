package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"shelf-go/internal/shelf"

	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the library summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService("Dashboard", func(svc *shelf.LibraryService) error {
			d, err := svc.Dashboard()
			if err != nil {
				return err
			}

			printWarnings(d.Warnings)
			printStats(d.Stats)

			fmt.Println("\n" + heading("Currently reading"))
			if len(d.CurrentlyReading) == 0 {
				fmt.Println(dimStyle.Render("  nothing"))
			}
			for _, b := range d.CurrentlyReading {
				fmt.Printf("  %-40s %s\n", b.Title, progressBar(b))
			}

			fmt.Println("\n" + heading("Recently added"))
			if len(d.RecentlyAdded) == 0 {
				fmt.Println(dimStyle.Render("  nothing"))
			}
			for _, b := range d.RecentlyAdded {
				fmt.Printf("  %-40s %s\n", b.Title, b.Status.Label())
			}
			return nil
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show reading statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService("Stats", func(svc *shelf.LibraryService) error {
			stats, err := svc.Stats()
			if err != nil {
				return err
			}
			printStats(stats)
			return nil
		})
	},
}

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show the reading streak",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService("Streak", func(svc *shelf.LibraryService) error {
			s, err := svc.Streak()
			if err != nil {
				return err
			}
			fmt.Printf("Current streak: %d day(s)\n", s.CurrentStreak)
			fmt.Printf("Longest streak: %d day(s)\n", s.LongestStreak)
			if s.LastReadDate != nil {
				fmt.Printf("Last completion: %s\n", s.LastReadDate)
			}
			return nil
		})
	},
}

var streakResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the reading streak to zero",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService("StreakReset", func(svc *shelf.LibraryService) error {
			if err := svc.ResetStreak(); err != nil {
				return err
			}
			fmt.Println("Reading streak reset.")
			return nil
		})
	},
}

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show detailed reading analytics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService("Analytics", func(svc *shelf.LibraryService) error {
			a, err := svc.Analytics()
			if err != nil {
				return err
			}

			printWarnings(a.Warnings)
			printStats(a.Stats)

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "\nCATEGORY\tBOOKS")
			for _, c := range a.Categories {
				fmt.Fprintf(w, "%s\t%d\n", c.Category, c.Count)
			}
			fmt.Fprintln(w, "\nSTATUS\tBOOKS")
			for _, s := range shelf.Statuses {
				fmt.Fprintf(w, "%s\t%d\n", s.Label(), a.Statuses[s])
			}
			w.Flush()

			fmt.Println("\n" + heading("Top rated"))
			for _, b := range a.TopRated {
				fmt.Printf("  %-5s %s\n", strings.Repeat("*", b.Rating), b.Title)
			}

			fmt.Println("\n" + heading("Recently completed"))
			for _, b := range a.RecentlyCompleted {
				fmt.Printf("  %s  %s\n", shelf.DateOf(b.EndDate.Local()), b.Title)
			}
			return nil
		})
	},
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Println(warningStyle.Render("warning: " + w + " (shown as empty)"))
	}
}

func printStats(s shelf.Stats) {
	fmt.Println(heading("Library"))
	fmt.Printf("Books:          %d\n", s.TotalBooks)
	fmt.Printf("Completed:      %d\n", s.BooksCompleted)
	fmt.Printf("Reading:        %d\n", s.BooksReading)
	fmt.Printf("Pages read:     %d\n", s.TotalPagesRead)
	fmt.Printf("Average rating: %.1f\n", s.AverageRating)
	fmt.Printf("Streak:         %d day(s), longest %d\n", s.ReadingStreak.CurrentStreak, s.ReadingStreak.LongestStreak)
}
