package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/loictrobas/discogs-tool/storage"
)

var (
	storagePrefix string
	storageUpload string
)

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "MinIO存储桶管理",
	Long:  `查看存储桶里已上传的视频统计，或手动上传单个文件拿签名URL做连通性测试。`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		fmt.Println("开始连接MinIO服务器...")
		fmt.Printf("MinIO配置: %s, Bucket: %s\n", cfg.MinioEndpoint, cfg.MinioBucket)

		store, err := storage.NewStore(cfg)
		if err != nil {
			log.Fatalf("无法连接到MinIO: %v", err)
		}
		fmt.Println("MinIO连接成功！")

		if storageUpload != "" {
			ttl := time.Duration(cfg.SignedURLTTL) * time.Second
			url, err := store.UploadSigned(ctx, storageUpload, cfg.MinioPrefix, ttl)
			if err != nil {
				log.Fatalf("上传失败: %v", err)
			}
			fmt.Printf("\n签名URL (%s有效):\n%s\n", ttl, url)
			return
		}

		prefix := storagePrefix
		if prefix == "" {
			prefix = cfg.MinioPrefix
		}
		count, size, err := store.ObjectCount(ctx, prefix)
		if err != nil {
			log.Fatalf("统计对象失败: %v", err)
		}
		fmt.Printf("\n前缀 %q 下共 %d 个对象，%.1f MB\n", prefix, count, float64(size)/(1024*1024))
	},
}

func init() {
	rootCmd.AddCommand(storageCmd)

	storageCmd.Flags().StringVarP(&storagePrefix, "prefix", "p", "", "按前缀统计对象（默认用配置的前缀）")
	storageCmd.Flags().StringVarP(&storageUpload, "upload", "u", "", "上传单个文件并打印签名URL")

	storageCmd.Example = `  # 统计已上传的对象
  discogs-tool storage

  # 按前缀统计
  discogs-tool storage -p "discogs-posts/Some Release/"

  # 上传测试文件
  discogs-tool storage -u /tmp/test.mp4`
}
