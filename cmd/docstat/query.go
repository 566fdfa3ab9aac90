package main

import (
	"database/sql"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/michaelscutari/docstat/internal/catalog"
	"github.com/michaelscutari/docstat/internal/entry"
	"github.com/michaelscutari/docstat/internal/metrics"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query a catalog non-interactively",
	Long:  `List the subdirectories and documents of a directory for scripting.`,
	RunE:  runQuery,
}

var (
	queryDB    string
	queryPath  string
	querySort  string
	queryLimit int
)

func init() {
	addCatalogFlags(queryCmd, &queryDB)
	queryCmd.Flags().StringVarP(&queryPath, "path", "p", "", "Directory path to query (default is the run root)")
	queryCmd.Flags().StringVarP(&querySort, "sort", "s", "size", "Sort by: size, docs, words, name")
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 20, "Maximum number of results")
}

func runQuery(cmd *cobra.Command, args []string) error {
	database, err := openCatalog(queryDB)
	if err != nil {
		return err
	}
	defer closeCatalog(database)

	path := queryPath
	if path == "" {
		if path, err = rootPath(database); err != nil {
			return err
		}
	}

	dirRole, entries, err := queryDir(database, path, querySort, queryLimit)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n\n", path, dirRole)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SIZE\tDOCS\tWORDS\tROLE\tNAME\n")
	for _, e := range entries {
		name := e.Name
		if e.Kind == entry.KindDir {
			name += "/"
		}
		role := e.Role
		if role == "" {
			role = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			metrics.FormatSize(e.Bytes),
			humanize.Comma(e.Documents),
			humanize.Comma(e.Volume),
			role,
			name,
		)
	}
	return w.Flush()
}

// queryDir returns the recorded role of path and its children. A path that
// was not part of the run is an error rather than an empty listing.
func queryDir(database *sql.DB, path, sortBy string, limit int) (string, []catalog.DisplayEntry, error) {
	dirRole, err := catalog.GetRole(database, path)
	if err != nil {
		return "", nil, fmt.Errorf("directory not in catalog: %w", err)
	}
	entries, err := catalog.LoadChildren(database, path, sortBy, limit)
	if err != nil {
		return "", nil, fmt.Errorf("query failed: %w", err)
	}
	return dirRole, entries, nil
}
