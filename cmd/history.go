package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// historyCmd inspects and edits the persisted command ring. Entry 1 is
// the most recently sent command.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the persisted command history",
	RunE:  runHistoryShow,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all history entries",
	RunE:  runHistoryClear,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <n>",
	Short: "Delete one history entry by its number",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyDeleteCmd)
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	ring, db, err := openRing(loadSettings())
	if err != nil {
		return err
	}
	defer db.Close()

	entries := ring.Load()
	if len(entries) == 0 {
		fmt.Println("No history entries.")
		return nil
	}
	for i, entry := range entries {
		fmt.Printf("%3d  %s\n", i+1, entry)
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	ring, db, err := openRing(loadSettings())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := ring.Clear(); err != nil {
		return err
	}
	fmt.Println("History cleared.")
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return fmt.Errorf("invalid entry number: %s", args[0])
	}

	ring, db, err := openRing(loadSettings())
	if err != nil {
		return err
	}
	defer db.Close()

	before := len(ring.Load())
	entries, err := ring.DeleteAt(n - 1)
	if err != nil {
		return err
	}
	if len(entries) == before {
		return fmt.Errorf("no history entry %d", n)
	}
	fmt.Printf("Deleted entry %d.\n", n)
	return nil
}
