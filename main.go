package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wabznasm/wabznasm/lib/config"
	"github.com/wabznasm/wabznasm/lib/kernel"
	"github.com/wabznasm/wabznasm/lib/repl"
	"github.com/wabznasm/wabznasm/lib/util/logger"
	"github.com/wabznasm/wabznasm/lib/util/signals"
)

var log = logger.GetLogger()

func main() {
	root := &cobra.Command{
		Use:   "wabznasm",
		Short: "A Q/KDB+ inspired expression language",
		RunE: func(cmd *cobra.Command, args []string) error {
			return repl.Run()
		},
	}
	root.AddCommand(jupyterCommand())
	if err := root.Execute(); err != nil {
		log.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}

func jupyterCommand() *cobra.Command {
	jupyter := &cobra.Command{
		Use:   "jupyter",
		Short: "Jupyter kernel commands",
	}

	start := &cobra.Command{
		Use:   "start <connection-file>",
		Short: "Start the kernel with a connection file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			runner, err := kernel.NewRunner(cfg)
			if err != nil {
				return err
			}
			go signals.Handle()
			defer signals.StopHandle()
			signals.RegisterInterruptHandler(runner.Stop)
			return runner.Run(context.Background())
		},
	}

	var prefix string
	install := &cobra.Command{
		Use:   "install",
		Short: "Install the kernelspec so notebook clients can find the kernel",
		RunE: func(cmd *cobra.Command, args []string) error {
			return installKernelSpec(prefix)
		},
	}
	install.Flags().StringVar(&prefix, "prefix", "", "kernelspec directory (default: the user's Jupyter kernels directory)")

	jupyter.AddCommand(start, install)
	return jupyter
}

// kernelSpec is the kernel.json contents notebook clients use to launch us.
type kernelSpec struct {
	Argv        []string `json:"argv"`
	DisplayName string   `json:"display_name"`
	Language    string   `json:"language"`
}

func installKernelSpec(prefix string) error {
	if prefix == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		prefix = filepath.Join(home, ".local", "share", "jupyter", "kernels")
	}
	exe, err := os.Executable()
	if err != nil {
		return err
	}
	spec := kernelSpec{
		Argv:        []string{exe, "jupyter", "start", "{connection_file}"},
		DisplayName: "wabznasm",
		Language:    "wabznasm",
	}
	raw, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Join(prefix, "wabznasm")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, "kernel.json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return err
	}
	log.WithField("path", path).Debug("Installed kernelspec")
	return nil
}
