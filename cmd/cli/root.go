package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/diabrisk/internal/bootstrap"
)

var (
	configFile string
	jsonOutput bool
)

// rootCmd represents the base command when the `diabrisk` binary is called without any subcommands.
// It provides the entry point for the entire CLI application.
// rootCmd 代表在没有任何子命令的情况下调用 `diabrisk` 二进制文件时的基本命令。
// 它为整个 CLI 应用程序提供入口点。
var rootCmd = &cobra.Command{
	Use:   "diabrisk",
	Short: "Diabetes risk assessment from a questionnaire and body measurements.",
	Long: `diabrisk scores a ten question diabetes risk questionnaire together with
height and weight, prints the risk report, and keeps population statistics
and an assessment history in the configured store.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config.yaml (default: /etc/diabrisk/config.yaml or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of text")
}

// openApp assembles the service for a one-shot command. Logs go to stderr so
// stdout only carries the command output.
func openApp(cmd *cobra.Command) (*bootstrap.App, error) {
	return bootstrap.New(cmd.Context(), bootstrap.Options{
		ConfigFile: configFile,
		LogOutput:  "stderr",
	})
}

// Execute is the main entry point for the CLI application.
// It adds all child commands to the root command, parses the command-line arguments,
// and executes the appropriate command. If an error occurs, it prints the error and exits.
// Execute 是 CLI 应用程序的主入口点。
// 它将所有子命令添加到根命令中，解析命令行参数，并执行相应的命令。
// 如果发生错误，它会打印错误并退出。
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
