/*
Copyright 2025 MilhasPix Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/milhaspix/milhas"
	"github.com/milhaspix/milhas/config"
	"github.com/milhaspix/milhas/internal/notification"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// MilhasCLI wraps the root Cobra command for the application.
type MilhasCLI struct {
	cmd *cobra.Command
}

// milhasInstance holds the runtime service and its configuration, shared by
// all subcommands after the persistent pre-run initializes them.
type milhasInstance struct {
	milhas *milhas.Milhas
	cnf    *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration and builds the Milhas service before any
// command runs.
func preRun(app *milhasInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("milhas.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newMilhas, err := milhas.NewMilhas()
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.milhas = newMilhas
		app.cnf = cnf

		return nil
	}
}

// NewCLI creates the command-line interface for the announcement service.
func NewCLI() *MilhasCLI {
	var configFile string
	m := &milhasInstance{}

	var rootCmd = &cobra.Command{
		Use:   "milhas",
		Short: "Mile announcement service",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./milhas.json", "Configuration file for the service")

	rootCmd.PersistentPreRunE = preRun(m)

	rootCmd.AddCommand(serverCommands(m))

	return &MilhasCLI{cmd: rootCmd}
}

func (w MilhasCLI) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
