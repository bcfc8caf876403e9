package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/taskvine/taskvine/internal/profile"
	"github.com/taskvine/taskvine/server"
	"github.com/taskvine/taskvine/store"
	"github.com/taskvine/taskvine/store/db"
)

const (
	version = "0.1.0"

	greetingBanner = `taskvine %s, mode %s, driver %s`
)

var (
	rootCmd = &cobra.Command{
		Use:   "taskvine",
		Short: "A task recurrence and productivity analytics service",
		Run: func(_ *cobra.Command, _ []string) {
			instanceProfile := &profile.Profile{
				Mode:            viper.GetString("mode"),
				Addr:            viper.GetString("addr"),
				Port:            viper.GetInt("port"),
				Data:            viper.GetString("data"),
				Driver:          viper.GetString("driver"),
				DSN:             viper.GetString("dsn"),
				DefaultTimezone: viper.GetString("default-timezone"),
				Version:         version,
			}
			instanceProfile.FromEnv()
			if err := instanceProfile.Validate(); err != nil {
				slog.Error("invalid configuration", slog.String("error", err.Error()))
				os.Exit(1)
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			dbDriver, err := db.NewDBDriver(instanceProfile)
			if err != nil {
				slog.Error("failed to create db driver", slog.String("error", err.Error()))
				os.Exit(1)
			}

			storeInstance := store.New(dbDriver, instanceProfile)
			s, err := server.NewServer(ctx, instanceProfile, storeInstance)
			if err != nil {
				slog.Error("failed to create server", slog.String("error", err.Error()))
				os.Exit(1)
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			go func() {
				sig := <-sigCh
				slog.Info("received signal, shutting down", slog.String("signal", sig.String()))
				s.Shutdown(ctx)
				cancel()
			}()

			fmt.Printf(greetingBanner+"\n", instanceProfile.Version, instanceProfile.Mode, instanceProfile.Driver)
			if err := s.Start(ctx); err != nil {
				if err != http.ErrServerClosed {
					slog.Error("failed to start server", slog.String("error", err.Error()))
				}
				cancel()
			}

			// Wait for the shutdown goroutine to finish its cleanup.
			<-ctx.Done()
		},
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	viper.AutomaticEnv()
	viper.SetEnvPrefix("taskvine")

	rootCmd.PersistentFlags().String("mode", "demo", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", `database driver, can be "sqlite" or "postgres"`)
	rootCmd.PersistentFlags().String("dsn", "", "database source name (aka. DSN)")
	rootCmd.PersistentFlags().String("default-timezone", "", "IANA timezone used for users without one")

	for _, flag := range []string{"mode", "addr", "port", "data", "driver", "dsn", "default-timezone"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}
}
