package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/studypal/internal/profile"
	"github.com/hrygo/studypal/server"
	"github.com/hrygo/studypal/store"
	"github.com/hrygo/studypal/store/db/file"
	"github.com/hrygo/studypal/store/db/memdb"
	"github.com/hrygo/studypal/store/db/sqlite"
)

const version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:   "studypal",
	Short: "A personal study companion with semantic dedup and forgetting-curve reviews",
	RunE: func(_ *cobra.Command, _ []string) error {
		instanceProfile := &profile.Profile{
			Mode:                viper.GetString("mode"),
			Addr:                viper.GetString("addr"),
			Port:                viper.GetInt("port"),
			Data:                viper.GetString("data"),
			Driver:              viper.GetString("driver"),
			DSN:                 viper.GetString("dsn"),
			Student:             viper.GetString("student"),
			SimilarityThreshold: viper.GetFloat64("similarity-threshold"),
			IdleTimeoutMinutes:  viper.GetInt("idle-timeout-minutes"),
			Version:             version,
		}
		instanceProfile.FromEnv()
		if err := instanceProfile.Validate(); err != nil {
			return fmt.Errorf("failed to validate profile: %w", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		driver, err := newDriver(instanceProfile)
		if err != nil {
			cancel()
			slog.Error("failed to create store driver", slog.String("error", err.Error()))
			return err
		}
		storeInstance := store.New(driver, instanceProfile)

		s := server.NewServer(instanceProfile, storeInstance)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		go func() {
			sig := <-sigChan
			slog.Info("received signal, shutting down", slog.String("signal", sig.String()))
			s.Shutdown(ctx)
			cancel()
		}()

		printGreeting(instanceProfile)
		if err := s.Start(ctx); err != nil {
			if ctx.Err() == nil {
				slog.Error("failed to start server", slog.String("error", err.Error()))
				cancel()
				return err
			}
		}

		<-ctx.Done()
		return nil
	},
}

func newDriver(p *profile.Profile) (store.Driver, error) {
	// Demo mode never touches disk.
	if p.Mode == "demo" {
		return memdb.NewDB(), nil
	}
	switch p.Driver {
	case "sqlite":
		return sqlite.NewDB(p)
	case "memory":
		return memdb.NewDB(), nil
	default:
		return file.NewDB(p), nil
	}
}

func printGreeting(p *profile.Profile) {
	fmt.Printf(`---
Version %s has been started on port %d
---
Data:    %s
Driver:  %s
Student: %s
Mode:    %s
---
`, p.Version, p.Port, p.Data, p.Driver, p.Student, p.Mode)
}

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("addr", "")
	viper.SetDefault("port", 8231)
	viper.SetDefault("data", "")
	viper.SetDefault("driver", "file")
	viper.SetDefault("student", "Sixi")
	viper.SetDefault("similarity-threshold", 0.6)
	viper.SetDefault("idle-timeout-minutes", 30)

	rootCmd.PersistentFlags().String("mode", "dev", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 8231, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "file", `storage driver, can be "file", "sqlite" or "memory"`)
	rootCmd.PersistentFlags().String("dsn", "", "database source name (sqlite driver)")
	rootCmd.PersistentFlags().String("student", "Sixi", "name of the learner")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}
	viper.SetEnvPrefix("studypal")
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
