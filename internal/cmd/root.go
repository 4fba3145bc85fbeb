package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jasonbender-c3x/coedit/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "coeditd",
	Short: "Real-time collaborative editing coordination server",
	Long: `Coedit coordinates real-time collaborative editing sessions between
human developers, AI agents, and read-only observers. It orders concurrent
text operations, arbitrates edit access through turn-based mutual
exclusion, and fans out presence over WebSocket.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/coedit/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/coedit")
		viper.AddConfigPath(".")
	}

	// e.g. COEDIT_SERVER_ADDR for server.addr
	config.BindEnv()

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
