package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"serterm/pkg/app"
	"serterm/pkg/config"
	"serterm/pkg/history"
	"serterm/pkg/serialdev"
)

var connectBaud int

// connectCmd opens an interactive session. With a port argument it opens
// that port directly; without one it reopens the most recently used port,
// falling back to an interactive chooser.
var connectCmd = &cobra.Command{
	Use:   "connect [port]",
	Short: "Open an interactive session on a serial port",
	Long: `Open an interactive session on a serial port.

With a port argument the port is opened directly:

  serterm connect /dev/ttyUSB0 -b 9600

Without one, the most recently used port is reopened if it is present;
otherwise a chooser lists the ports on the system.`,
	Args:    cobra.MaximumNArgs(1),
	Aliases: []string{"open", "c"},
	RunE:    runConnect,
}

func init() {
	connectCmd.Flags().IntVarP(&connectBaud, "baud", "b", 0, "baud rate (default from config)")
}

func runConnect(cmd *cobra.Command, args []string) error {
	cfg := configManager()
	settings := cfg.Load()

	baud := connectBaud
	if baud == 0 {
		baud = settings.DefaultBaud
	}
	if err := serialdev.ValidateBaud(baud); err != nil {
		return err
	}

	ring, db, err := openRing(settings)
	if err != nil {
		return err
	}
	defer db.Close()

	bridge := &serialdev.PortBridge{
		Chooser:    choosePort,
		Authorized: cfg.AuthorizedPorts,
	}

	if len(args) == 1 {
		return runSession(cfg, serialdev.NamedDevice(args[0]), baud, ring)
	}

	devices, err := bridge.ListAuthorizedDevices()
	if err != nil {
		log.Debug().Err(err).Msg("listing authorized ports")
	}
	if len(devices) > 0 {
		return app.RunQuick(bridge, baud, ring, log.Logger)
	}

	device, err := bridge.RequestDevice()
	if err != nil {
		return err
	}
	return runSession(cfg, device, baud, ring)
}

func runSession(cfg *config.Manager, device serialdev.Device, baud int, ring *history.Ring) error {
	if err := app.Run(device, baud, ring, log.Logger); err != nil {
		return err
	}
	// Remembering only after a clean session keeps unopenable ports out
	// of the quick-connect list.
	if err := cfg.RememberPort(device.Name()); err != nil {
		log.Warn().Err(err).Msg("remembering port")
	}
	return nil
}

// choosePort prompts on the controlling terminal for one of the listed
// ports.
func choosePort(ports []string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("no port given and stdin is not a terminal")
	}

	fmt.Fprintln(os.Stderr, "Available ports:")
	for i, p := range ports {
		fmt.Fprintf(os.Stderr, "  %d) %s\n", i+1, p)
	}
	fmt.Fprintf(os.Stderr, "Port [1-%d]: ", len(ports))

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read choice: %w", err)
	}
	n, err := parseChoice(line, len(ports))
	if err != nil {
		return "", err
	}
	return ports[n-1], nil
}

// parseChoice parses a 1-based chooser index.
func parseChoice(line string, count int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 1 || n > count {
		return 0, serialdev.ErrNoDeviceChosen
	}
	return n, nil
}
