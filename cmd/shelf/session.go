package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"shelf-go/internal/shelf"

	"github.com/spf13/cobra"
)

// session command
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Log and view reading sessions",
}

var sessionAddCmd = &cobra.Command{
	Use:   "add BOOK_ID",
	Short: "Log a reading session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		pages, _ := flags.GetInt("pages")
		minutes, _ := flags.GetInt("minutes")
		notes, _ := flags.GetString("notes")
		dateStr, _ := flags.GetString("date")

		var date time.Time
		if dateStr != "" {
			d, err := shelf.ParseDate(dateStr)
			if err != nil {
				return err
			}
			date = d.In(time.Local)
		}

		return withService("LogSession", func(svc *shelf.LibraryService) error {
			rs, err := svc.LogSession(shelf.NewSession{
				BookID:    args[0],
				Date:      date,
				PagesRead: pages,
				Duration:  minutes,
				Notes:     notes,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Logged %d page(s) in %d minute(s) (%s)\n", rs.PagesRead, rs.Duration, rs.ID)
			return nil
		})
	},
}

var sessionListCmd = &cobra.Command{
	Use:   "list [BOOK_ID]",
	Short: "List reading sessions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bookID := ""
		if len(args) > 0 {
			bookID = args[0]
		}

		return withService("ListSessions", func(svc *shelf.LibraryService) error {
			sessions, err := svc.Sessions(bookID)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Println("No sessions logged.")
				return nil
			}
			printSessions(sessions)
			return nil
		})
	},
}

func printSessions(sessions []shelf.ReadingSession) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tBOOK\tPAGES\tMINUTES\tNOTES")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			shelf.DateOf(s.Date.Local()),
			s.BookID,
			s.PagesRead,
			s.Duration,
			s.Notes,
		)
	}
	w.Flush()
}

func init() {
	sessionCmd.AddCommand(sessionAddCmd)
	sessionCmd.AddCommand(sessionListCmd)

	flags := sessionAddCmd.Flags()
	flags.IntP("pages", "p", 0, "Pages read")
	flags.IntP("minutes", "m", 0, "Minutes spent reading")
	flags.String("notes", "", "Notes")
	flags.StringP("date", "d", "", "Session day as YYYY-MM-DD (default today)")
}
