package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loictrobas/discogs-tool/config"
	"github.com/loictrobas/discogs-tool/logger"
)

// cfg 所有子命令共用的配置，PersistentPreRun里加载
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "discogs-tool",
	Short: "Discogs release到Instagram carousel的自动化工具",
	Long: `discogs-tool 把一张Discogs唱片变成可发布的Instagram carousel：
抓取release元数据和行情价格，用yt-dlp找音源、ffmpeg截片段并合成
方形预览视频，最后经对象存储签名URL走Graph API发布，并登记到
Google Sheets和本地数据库。`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		logger.InitLogger(logger.Config{
			Level:      logger.LogLevel(cfg.LogLevel),
			OutputPath: cfg.LogPath,
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     14,
			Compress:   true,
		})
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
