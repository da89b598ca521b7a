package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"shelf-go/internal/shelf"

	"github.com/spf13/cobra"
)

// book command
var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Manage books",
}

var bookAddCmd = &cobra.Command{
	Use:   "add TITLE",
	Short: "Add a book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		author, _ := flags.GetString("author")
		categoryName, _ := flags.GetString("category")
		pages, _ := flags.GetInt("pages")
		page, _ := flags.GetInt("page")
		rating, _ := flags.GetInt("rating")
		statusName, _ := flags.GetString("status")
		notes, _ := flags.GetString("notes")
		color, _ := flags.GetString("color")

		category, err := shelf.ParseCategory(categoryName)
		if err != nil {
			return err
		}
		status, err := shelf.ParseStatus(statusName)
		if err != nil {
			return err
		}

		return withService("AddBook", func(svc *shelf.LibraryService) error {
			b, err := svc.AddBook(shelf.NewBook{
				Title:       args[0],
				Author:      author,
				Category:    category,
				TotalPages:  pages,
				CurrentPage: page,
				Rating:      rating,
				Status:      status,
				Notes:       notes,
				CoverColor:  color,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Added %s (%s)\n", b.Title, b.ID)
			return nil
		})
	},
}

var bookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List books",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}

		return withService("ListBooks", func(svc *shelf.LibraryService) error {
			books, err := svc.ListBooks(filter)
			if err != nil {
				return err
			}
			if len(books) == 0 {
				fmt.Println("No books found.")
				return nil
			}
			printBooks(books)
			return nil
		})
	},
}

var bookShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a book and its reading sessions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService("GetBook", func(svc *shelf.LibraryService) error {
			b, err := svc.GetBook(args[0])
			if err != nil {
				return err
			}
			sessions, err := svc.Sessions(b.ID)
			if err != nil {
				return err
			}

			fmt.Printf("%s\n", b.Title)
			if b.Author != "" {
				fmt.Printf("by %s\n", b.Author)
			}
			fmt.Println()
			fmt.Printf("ID:        %s\n", b.ID)
			fmt.Printf("Category:  %s\n", b.Category)
			fmt.Printf("Status:    %s\n", b.Status.Label())
			fmt.Printf("Progress:  %d/%d (%d%%)\n", b.CurrentPage, b.TotalPages, shelf.ProgressPercentage(b.CurrentPage, b.TotalPages))
			if b.Rating > 0 {
				fmt.Printf("Rating:    %s\n", strings.Repeat("*", b.Rating))
			}
			if b.StartDate != nil {
				fmt.Printf("Started:   %s\n", shelf.DateOf(b.StartDate.Local()))
			}
			if b.EndDate != nil {
				fmt.Printf("Finished:  %s\n", shelf.DateOf(b.EndDate.Local()))
			}
			fmt.Printf("Added:     %s\n", shelf.DateOf(b.DateAdded.Local()))
			if b.Notes != "" {
				fmt.Printf("\n%s\n", b.Notes)
			}

			if len(sessions) > 0 {
				fmt.Println("\nSessions:")
				printSessions(sessions)
			}
			return nil
		})
	},
}

var bookUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Update a book's progress or details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch, err := patchFromFlags(cmd)
		if err != nil {
			return err
		}
		if patch.IsEmpty() {
			return fmt.Errorf("nothing to update")
		}

		return withService("UpdateProgress", func(svc *shelf.LibraryService) error {
			b, err := svc.UpdateProgress(args[0], patch)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s, page %d/%d\n", b.Title, b.Status.Label(), b.CurrentPage, b.TotalPages)
			return nil
		})
	},
}

var bookDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService("DeleteBook", func(svc *shelf.LibraryService) error {
			if err := svc.DeleteBook(args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", args[0])
			return nil
		})
	},
}

func filterFromFlags(cmd *cobra.Command) (shelf.BookFilter, error) {
	var f shelf.BookFilter
	flags := cmd.Flags()

	if name, _ := flags.GetString("category"); name != "" {
		c, err := shelf.ParseCategory(name)
		if err != nil {
			return f, err
		}
		f.Category = c
	}
	if name, _ := flags.GetString("status"); name != "" {
		s, err := shelf.ParseStatus(name)
		if err != nil {
			return f, err
		}
		f.Status = s
	}
	f.Query, _ = flags.GetString("query")
	return f, nil
}

// patchFromFlags builds a patch from the flags the user actually set.
func patchFromFlags(cmd *cobra.Command) (shelf.BookPatch, error) {
	var p shelf.BookPatch
	flags := cmd.Flags()

	if flags.Changed("title") {
		v, _ := flags.GetString("title")
		p.Title = &v
	}
	if flags.Changed("author") {
		v, _ := flags.GetString("author")
		p.Author = &v
	}
	if flags.Changed("category") {
		v, _ := flags.GetString("category")
		c, err := shelf.ParseCategory(v)
		if err != nil {
			return p, err
		}
		p.Category = &c
	}
	if flags.Changed("pages") {
		v, _ := flags.GetInt("pages")
		p.TotalPages = &v
	}
	if flags.Changed("page") {
		v, _ := flags.GetInt("page")
		p.CurrentPage = &v
	}
	if flags.Changed("rating") {
		v, _ := flags.GetInt("rating")
		p.Rating = &v
	}
	if flags.Changed("status") {
		v, _ := flags.GetString("status")
		s, err := shelf.ParseStatus(v)
		if err != nil {
			return p, err
		}
		p.Status = &s
	}
	if flags.Changed("notes") {
		v, _ := flags.GetString("notes")
		p.Notes = &v
	}
	if flags.Changed("color") {
		v, _ := flags.GetString("color")
		p.CoverColor = &v
	}
	return p, nil
}

func printBooks(books []shelf.Book) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tPROGRESS\tTITLE\tAUTHOR\tCATEGORY")
	for _, b := range books {
		fmt.Fprintf(w, "%s\t%s\t%d%%\t%s\t%s\t%s\n",
			b.ID,
			b.Status.Label(),
			shelf.ProgressPercentage(b.CurrentPage, b.TotalPages),
			b.Title,
			b.Author,
			b.Category,
		)
	}
	w.Flush()
}

func init() {
	bookCmd.AddCommand(bookAddCmd)
	bookCmd.AddCommand(bookListCmd)
	bookCmd.AddCommand(bookShowCmd)
	bookCmd.AddCommand(bookUpdateCmd)
	bookCmd.AddCommand(bookDeleteCmd)

	addFlags := bookAddCmd.Flags()
	addFlags.StringP("author", "a", "", "Author")
	addFlags.StringP("category", "c", string(shelf.CategoryOther), "Philosophical tradition")
	addFlags.IntP("pages", "p", 0, "Total pages")
	addFlags.Int("page", 0, "Current page")
	addFlags.IntP("rating", "r", 0, "Rating from 1 to 5 (0 for unrated)")
	addFlags.StringP("status", "s", string(shelf.StatusWantToRead), "want-to-read, reading or completed")
	addFlags.String("notes", "", "Notes")
	addFlags.String("color", "", "Cover color")
	bookAddCmd.MarkFlagRequired("pages")

	listFlags := bookListCmd.Flags()
	listFlags.StringP("category", "c", "", "Only books in this category")
	listFlags.StringP("status", "s", "", "Only books with this status")
	listFlags.StringP("query", "q", "", "Match title or author")

	updateFlags := bookUpdateCmd.Flags()
	updateFlags.String("title", "", "Title")
	updateFlags.StringP("author", "a", "", "Author")
	updateFlags.StringP("category", "c", "", "Philosophical tradition")
	updateFlags.IntP("pages", "p", 0, "Total pages")
	updateFlags.Int("page", 0, "Current page")
	updateFlags.IntP("rating", "r", 0, "Rating from 1 to 5 (0 for unrated)")
	updateFlags.StringP("status", "s", "", "want-to-read, reading or completed")
	updateFlags.String("notes", "", "Notes")
	updateFlags.String("color", "", "Cover color")
}
