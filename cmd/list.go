package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"serterm/pkg/serialdev"
)

// listCmd prints the serial ports present on the system. Ports that have
// been connected to before are marked; those are the quick-connect
// candidates.
var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List available serial ports",
	Aliases: []string{"ls", "ports"},
	RunE:    runList,
}

func runList(cmd *cobra.Command, args []string) error {
	ports, err := serialdev.ListPorts()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		fmt.Println("No serial ports found.")
		return nil
	}

	remembered := make(map[string]bool)
	for _, name := range configManager().AuthorizedPorts() {
		remembered[name] = true
	}

	fmt.Printf("Found %d serial port(s):\n", len(ports))
	for _, p := range ports {
		marker := " "
		if remembered[p] {
			marker = "*"
		}
		fmt.Printf("  %s %s\n", marker, p)
	}
	fmt.Println("\nPorts marked * were used before; 'serterm connect' reopens the most recent one.")
	return nil
}
