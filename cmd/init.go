package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gnoswap-labs/nlc/internal/config"
)

// initCmd: nlc init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new compiler configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := initConfigurationFile(cfgFile)
		if err != nil {
			return fmt.Errorf("error initializing config file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created/updated: %s\n", path)
		return nil
	},
}

func initConfigurationFile(configurationPath string) (string, error) {
	if configurationPath == "" {
		configurationPath = config.FileName
	}

	cfg := config.Default()
	d, err := cfg.Marshal()
	if err != nil {
		return "", err
	}

	f, err := os.Create(configurationPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := f.Write(d); err != nil {
		return "", err
	}
	return configurationPath, nil
}
