// Package cli implements the sqlite command line tool over a local
// database file.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tguichaoua/promised-sqlite3/pkg/sqlite"
)

var dbPath string

// RootCmd is the root command of the sqlite tool
var RootCmd = &cobra.Command{
	Use:   "sqlite",
	Short: "Operate on a local SQLite database file",
	Long:  "Run queries, scripts and inserts against a local SQLite database file",
}

// QueryCmd executes a SELECT and prints the rows
var QueryCmd = &cobra.Command{
	Use:   "query <sql>",
	Short: "Execute a query and print the matching rows",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery,
}

// ExecCmd executes a script of semicolon-separated statements
var ExecCmd = &cobra.Command{
	Use:   "exec <script>",
	Short: "Execute one or more semicolon-separated statements",
	Args:  cobra.ExactArgs(1),
	RunE:  runExec,
}

// TablesCmd lists the tables of the database
var TablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the tables of the database",
	RunE:  runTables,
}

// InsertCmd inserts one JSON-encoded row
var InsertCmd = &cobra.Command{
	Use:   "insert <table> <json-row>",
	Short: "Insert a row given as a JSON object or array",
	Args:  cobra.ExactArgs(2),
	RunE:  runInsert,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file (required)")
	RootCmd.MarkPersistentFlagRequired("db")

	RootCmd.AddCommand(QueryCmd)
	RootCmd.AddCommand(ExecCmd)
	RootCmd.AddCommand(TablesCmd)
	RootCmd.AddCommand(InsertCmd)
}

func openDB(ctx context.Context) (*sqlite.DB, error) {
	db, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dbPath, err)
	}
	return db, nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := db.All(ctx, args[0])
	if err != nil {
		return err
	}
	printRows(rows)
	return nil
}

func runExec(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Exec(ctx, args[0]); err != nil {
		return err
	}
	fmt.Println("OK")
	return nil
}

func runTables(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	count, err := db.Each(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name",
		nil,
		func(r sqlite.Row) error {
			fmt.Println(r["name"])
			return nil
		})
	if err != nil {
		return err
	}
	if count == 0 {
		fmt.Println("(no tables)")
	}
	return nil
}

func runInsert(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	table, doc := args[0], args[1]

	var row any
	var named sqlite.Row
	if err := json.Unmarshal([]byte(doc), &named); err == nil {
		row = named
	} else {
		var positional sqlite.Values
		if err := json.Unmarshal([]byte(doc), &positional); err != nil {
			return fmt.Errorf("row must be a JSON object or array: %w", err)
		}
		row = positional
	}

	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := db.Insert(ctx, table, row)
	if err != nil {
		return err
	}
	fmt.Printf("inserted row %d (%d affected)\n", res.LastInsertID, res.RowsAffected)
	return nil
}

// printRows renders rows as a column-aligned table, columns in sorted
// order since Row is a map.
func printRows(rows []sqlite.Row) {
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return
	}

	cols := make([]string, 0, len(rows[0]))
	for c := range rows[0] {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for i, c := range cols {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, c)
	}
	fmt.Fprintln(w)

	for _, row := range rows {
		for i, c := range cols {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			v := row[c]
			if v == nil {
				v = "NULL"
			}
			fmt.Fprint(w, v)
		}
		fmt.Fprintln(w)
	}
	w.Flush()

	fmt.Printf("%d rows\n", len(rows))
}
