package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/fleetreport/internal/config"
	"github.com/rileyhilliard/fleetreport/internal/errors"
	"github.com/rileyhilliard/fleetreport/internal/ui"
	"github.com/rileyhilliard/fleetreport/pkg/sshutil"
)

// Init command flags
var (
	initHostFlag     string
	initUsernameFlag string
	initPortFlag     int
	initForce        bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a fleetreport.yaml config file",
	Long: `Create a new fleetreport.yaml in the current directory.

Prompts for the first server and default credentials; add more servers
by editing the file afterwards.

Examples:
  fleetreport init
  fleetreport init --host 192.168.1.10 --username ops`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(InitOptions{
			Host:      initHostFlag,
			Username:  initUsernameFlag,
			Port:      initPortFlag,
			Overwrite: initForce,
		})
	},
}

func init() {
	initCmd.Flags().StringVar(&initHostFlag, "host", "", "first server hostname or IP")
	initCmd.Flags().StringVar(&initUsernameFlag, "username", "", "default SSH username")
	initCmd.Flags().IntVar(&initPortFlag, "port", 22, "default SSH port")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")

	rootCmd.AddCommand(initCmd)
}

// InitOptions holds options for the init command.
type InitOptions struct {
	Host      string // Pre-specified server host
	Username  string // Pre-specified default username
	Password  string // Pre-specified default password
	Port      int    // Default SSH port
	Overwrite bool   // Overwrite existing config without asking
}

// initFile is the minimal config written by init. Collection and report
// settings are left to their defaults so the generated file stays small.
type initFile struct {
	DefaultCredentials config.Credentials `yaml:"default_credentials"`
	Servers            []config.Server    `yaml:"servers"`
}

// Init creates a new fleetreport.yaml configuration file.
func Init(opts InitOptions) error {
	configPath := filepath.Join(".", config.ConfigFileName)
	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if !interactive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	host := opts.Host
	username := opts.Username
	password := opts.Password
	port := opts.Port
	if port == 0 {
		port = 22
	}

	if interactive && (host == "" || username == "") {
		portStr := strconv.Itoa(port)
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Server host").
					Description("Hostname or IP of the first server to monitor").
					Placeholder("192.168.1.100").
					Value(&host).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return fmt.Errorf("server host is required")
						}
						return nil
					}),
			),
			huh.NewGroup(
				huh.NewInput().
					Title("SSH username").
					Description("Default username for all servers").
					Placeholder("ops").
					Value(&username).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return fmt.Errorf("username is required")
						}
						return nil
					}),
			),
			huh.NewGroup(
				huh.NewInput().
					Title("SSH password (optional)").
					Description("Leave empty to use SSH keys or the agent").
					EchoMode(huh.EchoModePassword).
					Value(&password),
			),
			huh.NewGroup(
				huh.NewInput().
					Title("SSH port").
					Value(&portStr).
					Validate(func(s string) error {
						n, err := strconv.Atoi(strings.TrimSpace(s))
						if err != nil || n < 1 || n > 65535 {
							return fmt.Errorf("port must be 1-65535")
						}
						return nil
					}),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Check terminal compatibility or pass --host and --username flags")
		}
		port, _ = strconv.Atoi(strings.TrimSpace(portStr))
	}

	if host == "" {
		return errors.New(errors.ErrConfig,
			"Server host is required in non-interactive mode",
			"Provide the --host flag or run from a terminal")
	}

	// Probe the connection before saving so typos surface immediately.
	if err := probeHost(host, username, password, port); err != nil {
		if !interactive {
			return err
		}

		var saveAnyway bool
		fmt.Printf("\n%s Connection to '%s' failed: %v\n", ui.SymbolFail, host, err)
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Save config anyway? (You can fix the connection later)").
					Value(&saveAnyway),
			),
		)
		if formErr := form.Run(); formErr != nil || !saveAnyway {
			return err
		}
	}

	cfg := initFile{
		DefaultCredentials: config.Credentials{
			Username: username,
			Password: password,
			Port:     port,
		},
		Servers: []config.Server{{Host: host}},
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to generate config",
			"This shouldn't happen - please report this bug")
	}

	header := `# fleetreport configuration
# Run 'fleetreport' to collect metrics from every server listed below.
# Per-server username/password/port override default_credentials.

`
	if err := os.WriteFile(configPath, []byte(header+string(data)), 0600); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", configPath),
			"Check directory permissions")
	}

	fmt.Printf("%s Created %s\n\n", ui.SymbolSuccess, configPath)
	fmt.Println("Next steps:")
	fmt.Println("  - add more servers under the servers: list")
	fmt.Println("  - run 'fleetreport' to collect and write the report")

	return nil
}

// probeHost opens and immediately closes an SSH connection.
func probeHost(host, username, password string, port int) error {
	client, err := sshutil.Dial(sshutil.Options{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
	}, 10*time.Second)
	if err != nil {
		return err
	}
	return client.Close()
}

// initCommand is the implementation called by the cobra command.
func initCommand(opts InitOptions) error {
	return Init(opts)
}
