package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"serterm/pkg/serialdev"
)

// configCmd manages the persisted settings file.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change settings",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one setting. Keys:

  baud         default baud rate for new sessions
  history-max  how many history entries are kept
  log-level    debug, info, warn, or error`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configForgetCmd = &cobra.Command{
	Use:   "forget <port>",
	Short: "Remove a port from the quick-connect list",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigForget,
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configForgetCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := configManager()
	settings := cfg.Load()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "config file\t%s\n", cfg.Path())
	fmt.Fprintf(w, "baud\t%d\n", settings.DefaultBaud)
	fmt.Fprintf(w, "history-max\t%d\n", settings.HistoryMax)
	fmt.Fprintf(w, "log-level\t%s\n", settings.LogLevel)
	for i, p := range settings.AuthorizedPorts {
		if i == 0 {
			fmt.Fprintf(w, "remembered ports\t%s\n", p)
		} else {
			fmt.Fprintf(w, "\t%s\n", p)
		}
	}
	return w.Flush()
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg := configManager()
	settings := cfg.Load()

	switch key {
	case "baud":
		baud, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid baud rate: %s", value)
		}
		if err := serialdev.ValidateBaud(baud); err != nil {
			return err
		}
		settings.DefaultBaud = baud
	case "history-max":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid history size: %s", value)
		}
		settings.HistoryMax = n
	case "log-level":
		settings.LogLevel = value
	default:
		return fmt.Errorf("unknown setting: %s", key)
	}

	if err := cfg.Save(settings); err != nil {
		return err
	}
	fmt.Printf("%s = %s\n", key, value)
	return nil
}

func runConfigForget(cmd *cobra.Command, args []string) error {
	cfg := configManager()
	if err := cfg.ForgetPort(args[0]); err != nil {
		return err
	}
	fmt.Printf("Forgot %s.\n", args[0])
	return nil
}
