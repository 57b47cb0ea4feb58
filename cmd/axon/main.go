// cmd/axon/main.go
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/keshon/axon/internal/access"
	"github.com/keshon/axon/internal/config"
	"github.com/keshon/axon/internal/discord"
	"github.com/keshon/axon/internal/logging"
	"github.com/keshon/axon/internal/metrics"
	"github.com/keshon/axon/internal/storage"
	"github.com/keshon/axon/internal/version"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "axon",
		Short:         version.AppDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("env-file", "e", "", "Path to a .env file (default ./.env)")
	root.AddCommand(runCmd(), rosterCmd(), modsCmd(), versionCmd())
	return root
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if envFile == "" {
		return config.Load()
	}
	return config.Load(envFile)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (built: %s)\n", version.AppName, version.Version, version.BuildDate)
		},
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Connect to Discord and serve until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := logging.New(cfg.LogLevel, cfg.LogPretty)
			logger.Info().Msgf("Starting %v bot...", version.AppName)

			tpl, err := config.LoadTemplate(cfg.TemplatePath)
			if err != nil {
				return err
			}

			store, err := storage.New(cfg.StoragePath, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			m := metrics.New()
			if cfg.MetricsAddr != "" {
				go func() {
					if err := m.Serve(ctx, cfg.MetricsAddr); err != nil {
						logger.Error().Err(err).Str("addr", cfg.MetricsAddr).Msg("metrics server stopped")
					}
				}()
			}

			bot, err := discord.NewBot(cfg, store, tpl, logger, m)
			if err != nil {
				return err
			}
			if err := bot.Run(ctx); err != nil {
				return fmt.Errorf("bot run error: %w", err)
			}

			logger.Info().Msg("Discord bot exited cleanly")
			return nil
		},
	}
}

func rosterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roster <user-id>",
		Short: "Show the bot staff tier of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			r := access.NewResolver(access.StaticRoster(cfg.Roster()), nil)
			tier := r.Tier(args[0])
			if tier == "" {
				tier = "none"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tier: %s\n", tier)
			fmt.Fprintf(out, "owner: %t\nadmin: %t\nstaff: %t\n", r.IsBotOwner(args[0]), r.IsBotAdmin(args[0]), r.IsBotStaff(args[0]))
			return nil
		},
	}
}

func modsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mods",
		Short: "Manage per-guild moderator users and roles",
	}

	withStore := func(fn func(cmd *cobra.Command, s *storage.Storage, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			s, err := storage.New(cfg.StoragePath, zerolog.Nop())
			if err != nil {
				return err
			}
			return errors.Join(fn(cmd, s, args), s.Close())
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list [guild-id]",
		Short: "List moderator users and roles, or the configured guilds",
		Args:  cobra.MaximumNArgs(1),
		RunE: withStore(func(cmd *cobra.Command, s *storage.Storage, args []string) error {
			if len(args) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "guilds: %s\n", joinOrNone(s.Guilds()))
				return nil
			}
			mods, err := s.ModConfig(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "users: %s\n", joinOrNone(mods.Users))
			fmt.Fprintf(out, "roles: %s\n", joinOrNone(mods.Roles))
			return nil
		}),
	})

	mutations := []struct {
		use, short string
		apply      func(s *storage.Storage, guildID, id string) error
	}{
		{"add-user <guild-id> <user-id>", "Add a moderator user", (*storage.Storage).AddModUser},
		{"remove-user <guild-id> <user-id>", "Remove a moderator user", (*storage.Storage).RemoveModUser},
		{"add-role <guild-id> <role-id>", "Add a moderator role", (*storage.Storage).AddModRole},
		{"remove-role <guild-id> <role-id>", "Remove a moderator role", (*storage.Storage).RemoveModRole},
	}
	for _, mu := range mutations {
		mu := mu
		cmd.AddCommand(&cobra.Command{
			Use:   mu.use,
			Short: mu.short,
			Args:  cobra.ExactArgs(2),
			RunE: withStore(func(cmd *cobra.Command, s *storage.Storage, args []string) error {
				if err := mu.apply(s, args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "ok")
				return nil
			}),
		})
	}

	return cmd
}

func joinOrNone(ids []string) string {
	if len(ids) == 0 {
		return "none"
	}
	return strings.Join(ids, ", ")
}
