package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pratham-8123/vaultbox/internal/api"
	"github.com/pratham-8123/vaultbox/internal/app"
	"github.com/pratham-8123/vaultbox/internal/config"
	"github.com/pratham-8123/vaultbox/internal/identity"
	"github.com/pratham-8123/vaultbox/internal/logging"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads and validates the config file; --config overrides the
// default location.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := config.ReadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w (run 'vaultbox config init' first)", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newClient builds the API client over the saved token. Commands that work
// pre-login pass requireToken=false.
func newClient(cfg *config.Config, requireToken bool) (*api.Client, *identity.TokenStore, error) {
	if err := logging.Init(logging.Config{Level: cfg.LogLevel, OutputPath: cfg.LogFile}); err != nil {
		return nil, nil, fmt.Errorf("initializing logging: %w", err)
	}

	store := identity.NewTokenStore(cfg.TokenPath)
	token, err := store.Load()
	if err != nil && (requireToken || err != identity.ErrNotLoggedIn) {
		return nil, nil, err
	}
	if requireToken && identity.TokenExpired(token) {
		return nil, nil, fmt.Errorf("session expired, run 'vaultbox login'")
	}

	client := api.NewClient(api.Config{
		BaseURL: cfg.ServerURL,
		Token:   func() string { return token },
	})
	return client, store, nil
}

var rootCmd = &cobra.Command{
	Use:   "vaultbox",
	Short: "Terminal client for VaultBox file storage",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init SERVER_URL",
	Short: "Initialize configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.DefaultDir()
		if err != nil {
			return err
		}
		path, err := config.DefaultPath()
		if err != nil {
			return err
		}

		cfg := config.NewConfig(strings.TrimRight(args[0], "/"), dir)
		if err := config.Init(path, cfg); err != nil {
			return fmt.Errorf("initializing config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", path)
		fmt.Printf("Server: %s\n", cfg.ServerURL)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.DefaultPath()
		if err != nil {
			return err
		}
		cfg, err := config.ReadFromFile(path)
		if err != nil {
			return fmt.Errorf("reading config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", path)
		fmt.Printf("Server:     %s\n", cfg.ServerURL)
		fmt.Printf("Token path: %s\n", cfg.TokenPath)
		fmt.Printf("Log file:   %s\n", cfg.LogFile)
		fmt.Printf("Log level:  %s\n", cfg.LogLevel)
		fmt.Printf("Page size:  %d\n", cfg.PageSize)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and save the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		client, store, err := newClient(cfg, false)
		if err != nil {
			return err
		}

		reader := bufio.NewReader(os.Stdin)
		fmt.Print("Email: ")
		email, _ := reader.ReadString('\n')
		email = strings.TrimSpace(email)

		fmt.Print("Password: ")
		passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}

		resp, err := client.Login(context.Background(), email, string(passwordBytes))
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		if err := store.Save(resp.Token); err != nil {
			return fmt.Errorf("saving token: %w", err)
		}

		fmt.Printf("Logged in as %s (%s)\n", resp.User.Username, resp.User.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the saved session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		store := identity.NewTokenStore(cfg.TokenPath)
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated user",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		client, store, err := newClient(cfg, true)
		if err != nil {
			return err
		}

		// Prefer the server's answer; fall back to the token claims when
		// the server is unreachable.
		me, err := client.CurrentUser(context.Background())
		if err != nil {
			token, loadErr := store.Load()
			if loadErr != nil {
				return err
			}
			me, loadErr = identity.FromToken(token)
			if loadErr != nil {
				return err
			}
			fmt.Println("(offline: from saved token)")
		}

		fmt.Printf("User:  %s\n", me.Username)
		fmt.Printf("Email: %s\n", me.Email)
		fmt.Printf("Role:  %s\n", me.Role)
		return nil
	},
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the interactive browser",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		client, store, err := newClient(cfg, true)
		if err != nil {
			return err
		}
		defer logging.Sync()

		me, err := client.CurrentUser(context.Background())
		if err != nil {
			if api.IsAuthError(err) {
				store.Clear()
				return fmt.Errorf("session rejected, run 'vaultbox login'")
			}
			return err
		}

		a, err := app.NewApplication(app.Config{
			Service:  client,
			Me:       me,
			PageSize: cfg.PageSize,
		})
		if err != nil {
			return err
		}
		a.Run()
		return nil
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download FILE_ID [DEST]",
	Short: "Download a file by id",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		client, _, err := newClient(cfg, true)
		if err != nil {
			return err
		}

		body, err := client.DownloadFile(context.Background(), args[0])
		if err != nil {
			return err
		}
		defer body.Close()

		dest := args[0]
		if len(args) > 1 {
			dest = args[1]
		}
		dest = filepath.Clean(dest)

		f, err := os.Create(dest)
		if err != nil {
			return err
		}
		defer f.Close()

		n, err := io.Copy(f, body)
		if err != nil {
			return fmt.Errorf("writing %s: %w", dest, err)
		}

		fmt.Printf("Downloaded %d bytes to %s\n", n, dest)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(downloadCmd)
}
