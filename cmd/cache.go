package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/loictrobas/discogs-tool/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Redis连接测试",
	Long:  `测试Redis连接是否成功，并进行基本读写操作。缓存不可用时fetch/generate会直连Discogs，不影响功能。`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("开始测试Redis连接...")

		fmt.Printf("Redis配置: %s:%s, DB: %d\n", cfg.RedisHost, cfg.RedisPort, cfg.RedisDB)

		if err := cache.ConnectRedis(cfg); err != nil {
			log.Fatalf("无法连接到Redis: %v", err)
		}
		fmt.Println("Redis连接成功！")

		fmt.Println("开始测试Redis基本操作...")
		if err := cache.TestRedis(); err != nil {
			log.Fatalf("Redis操作测试失败: %v", err)
		}
		fmt.Println("Redis基本操作测试成功！")

		if err := cache.CloseRedis(); err != nil {
			log.Printf("关闭Redis连接时发生错误: %v", err)
		}
		fmt.Println("Redis测试完成，连接已关闭。")
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
}
