package main

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"lms/internal/catalog"
)

func newBooksCmd(a *app) *cobra.Command {
	books := &cobra.Command{
		Use:   "books",
		Short: "Read the catalog without the interactive menu",
	}
	books.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "output as JSON")

	books.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every book ordered by title",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer g.Close()

			list, err := catalog.NewSQLRepo(g).ListAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("list books: %w", err)
			}
			return a.writeBooks(cmd.OutOrStdout(), list)
		},
	})

	var by string
	search := &cobra.Command{
		Use:   "search <value>",
		Short: "Search by title substring or exact ISBN",
		Example: "  lms books search database\n" +
			"  lms books search --by isbn 9780987654321",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := catalog.SearchByTitle
			switch by {
			case "title":
			case "isbn":
				mode = catalog.SearchByISBN
			default:
				return fmt.Errorf("--by must be title or isbn, got %q", by)
			}

			g, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer g.Close()

			found, err := catalog.NewSQLRepo(g).Search(cmd.Context(), mode, args[0])
			if err != nil {
				return fmt.Errorf("search books: %w", err)
			}
			return a.writeBooks(cmd.OutOrStdout(), found)
		},
	}
	search.Flags().StringVar(&by, "by", "title", "search field: title or isbn")
	books.AddCommand(search)

	books.AddCommand(&cobra.Command{
		Use:   "count",
		Short: "Print the number of books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer g.Close()

			n, err := catalog.NewSQLRepo(g).Count(cmd.Context())
			if err != nil {
				return fmt.Errorf("count books: %w", err)
			}
			if a.jsonOut {
				return jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(cmd.OutOrStdout()).Encode(map[string]int{"count": n})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), n)
			return err
		},
	})

	return books
}

func (a *app) writeBooks(w io.Writer, books []catalog.Book) error {
	if !a.jsonOut {
		return catalog.RenderTable(w, books)
	}
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(books)
}
