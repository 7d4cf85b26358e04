package cmd

import (
	"os"

	internalApp "github.com/haierkeys/fast-note-pad/internal/app"
	"github.com/haierkeys/fast-note-pad/pkg/logger"

	"github.com/spf13/cobra"
)

// configDefault 内嵌的默认配置，首次运行时写出
var configDefault string

// bootstrapLogger 读取配置前使用，FNP_DEBUG 非空时输出 debug 日志
var bootstrapLogger = logger.NewBootstrap(os.Getenv("FNP_DEBUG") != "")

var rootCmd = &cobra.Command{
	Use:   "fast-note-pad",
	Short: internalApp.Name + ": a single-user note pad with an image per note",
	Long: `Notes are edited through intents (load, set_text, save, ...) against a single
editing state. "run" serves that state over HTTP and websocket, the note
subcommands drive the same state from the shell.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute 执行根命令，defaultConfig 为内嵌的默认配置内容
func Execute(defaultConfig string) {
	configDefault = defaultConfig
	if err := rootCmd.Execute(); err != nil {
		bootstrapLogger.Sugar().Error(err)
		os.Exit(1)
	}
}
