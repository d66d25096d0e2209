package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dentalcare/console/internal/agenda"
	"github.com/dentalcare/console/internal/config"
	"github.com/dentalcare/console/internal/gateway"
	"github.com/dentalcare/console/internal/platform/rest"
	"github.com/dentalcare/console/internal/repository"
	"github.com/dentalcare/console/internal/session"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "dental-console",
		Short: "Dental clinic admin console",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(agendaCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger
}

// bootstrap loads config and opens the session store and API client shared
// by every command.
func bootstrap() (*config.Config, *session.Store, *rest.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}
	store, err := session.Open(cfg.SessionFile)
	if err != nil {
		return nil, nil, nil, err
	}
	client, err := rest.New(cfg.APIBaseURL, time.Duration(cfg.APITimeoutSeconds)*time.Second, store)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, store, client, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the console gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	logger := newLogger()

	cfg, store, client, err := bootstrap()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to start")
	}

	srv := gateway.New(cfg, store, client, logger)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting gateway")
		if err := srv.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down gateway")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("shutdown failed")
	}
	logger.Info().Msg("gateway stopped")
	return nil
}

func loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the clinic API and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return fmt.Errorf("both --username and --password are required")
			}

			_, store, client, err := bootstrap()
			if err != nil {
				return err
			}

			var pair struct {
				Access  string `json:"access"`
				Refresh string `json:"refresh"`
			}
			creds := map[string]string{"username": username, "password": password}
			if err := client.DoJSON(cmd.Context(), http.MethodPost, "/token/", creds, &pair); err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			if err := store.SetTokens(pair.Access, pair.Refresh); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "logged in, session valid until %s\n",
				store.ExpiresAt().Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "API username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "API password")
	return cmd
}

func agendaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agenda [date]",
		Short: "Print the day's appointments and chair occupancy",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := time.Now().Format("2006-01-02")
			if len(args) == 1 {
				if _, err := time.Parse("2006-01-02", args[0]); err != nil {
					return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
				}
				date = args[0]
			}

			cfg, _, client, err := bootstrap()
			if err != nil {
				return err
			}

			appts, err := repository.Schedules(client, newLogger()).Fetch(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch schedules: %w", err)
			}

			out := cmd.OutOrStdout()
			day := agenda.DayAppointments(appts, date)
			fmt.Fprintf(out, "Agenda for %s\n", date)
			if len(day) == 0 {
				fmt.Fprintln(out, "  no appointments")
			}
			for _, a := range day {
				fmt.Fprintf(out, "  %s  %-24s %-24s %s\n", a.Time, a.PatientName, a.ProfessionalName, a.ProcedureName)
			}

			occ := agenda.ComputeOccupancy(appts, date, cfg.DaySlots())
			fmt.Fprintf(out, "Occupancy: %d/%d slots (%d%%), %d available\n",
				occ.Occupied, occ.Capacity, occ.Rate, occ.Available)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the console version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dental-console %s\n", version)
		},
	}
}
