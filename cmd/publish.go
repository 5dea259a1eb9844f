package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/loictrobas/discogs-tool/core/instagram"
	"github.com/loictrobas/discogs-tool/core/pipeline"
	"github.com/loictrobas/discogs-tool/core/sheets"
	"github.com/loictrobas/discogs-tool/db"
	"github.com/loictrobas/discogs-tool/model"
	"github.com/loictrobas/discogs-tool/repository"
	"github.com/loictrobas/discogs-tool/storage"
)

var (
	pubOwner string
	pubPrice string
	pubWatch bool
	pubForce bool
)

var publishCmd = &cobra.Command{
	Use:   "publish [folder...]",
	Short: "把已生成的release目录发布成Instagram carousel",
	Long: `不带参数时扫描输出目录下凑齐视频和txt的子目录；带目录参数时
只发布指定目录。每个目录走发布流程：
上传MinIO取签名URL → 创建child容器并轮询就绪 → 至少一个child
就绪才建parent → 发布 → 登记Google Sheets和本地数据库。
本地库里已有同标题记录的目录会跳过，--force强制重发。
--watch模式下持续监听目录，新目录就绪后自动发布。`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		pub := buildPublisher()
		pub.Owner = pubOwner
		pub.Price = pubPrice
		pub.Force = pubForce
		defer db.CloseGormDB()

		if pubWatch {
			if len(args) > 0 {
				log.Fatal("--watch监听整个输出目录，不能再指定目录参数")
			}
			runWatch(ctx, pub)
			return
		}

		var units []model.PublishUnit
		var err error
		if len(args) > 0 {
			units, err = pipeline.ResolveUnits(cfg.OutputDir, args)
		} else {
			units, err = pipeline.ScanReady(cfg.OutputDir)
		}
		if err != nil {
			log.Fatalf("扫描输出目录失败: %v", err)
		}
		if len(units) == 0 {
			fmt.Println("没有可发布的目录")
			return
		}
		fmt.Printf("找到 %d 个可发布目录\n", len(units))

		outcomes := pub.PublishAll(ctx, units)
		printOutcomes(outcomes)
	},
}

// buildPublisher 组装发布依赖。Sheets和本地库是可选的，
// 缺配置就降级跳过；MinIO和Instagram是硬依赖。
func buildPublisher() *pipeline.Publisher {
	store, err := storage.NewStore(cfg)
	if err != nil {
		log.Fatalf("初始化对象存储失败: %v", err)
	}

	if cfg.IGUserID == "" || cfg.IGToken == "" {
		log.Fatal("缺少IG_USER_ID / IG_ACCESS_TOKEN")
	}
	ig := instagram.NewClient(cfg.GraphBase, cfg.IGUserID, cfg.IGToken)

	var sheet pipeline.RowAppender
	if cfg.GoogleCredentialsJSON != "" && cfg.SheetID != "" {
		c, err := sheets.NewClient(cfg.GoogleCredentialsJSON, cfg.SheetID, cfg.SheetRange)
		if err != nil {
			log.Printf("Sheets客户端初始化失败，跳过表格登记: %v", err)
		} else {
			sheet = c
		}
	} else {
		fmt.Println("未配置Google Sheets，跳过表格登记")
	}

	var repo repository.PublishedRepository
	if err := db.ConnectGormDB(cfg); err != nil {
		log.Printf("本地数据库不可用，跳过本地登记: %v", err)
	} else {
		repo = repository.NewGormPublishedRepository(db.GormDB)
	}

	return pipeline.NewPublisher(cfg, store, ig, sheet, repo)
}

func runWatch(ctx context.Context, pub *pipeline.Publisher) {
	fmt.Printf("监听 %s，Ctrl+C 退出\n", cfg.OutputDir)

	w := pipeline.NewWatcher(cfg.OutputDir, func(unit model.PublishUnit) {
		out := pub.PublishUnit(ctx, unit)
		printOutcomes([]model.PublishOutcome{out})
	})

	// 重启watch时先把已发布过的目录标记成已处理，避免重发
	if units, err := pipeline.ScanReady(cfg.OutputDir); err == nil {
		for _, u := range units {
			if pub.AlreadyPublished(ctx, u) {
				w.MarkSeen(u.Folder)
			}
		}
	}

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("监听失败: %v", err)
	}
}

func printOutcomes(outcomes []model.PublishOutcome) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Release", "Post", "Children", "Estado"})
	for _, o := range outcomes {
		t.AppendRow(table.Row{o.Unit, o.PostID, len(o.Children), outcomeState(o)})
	}
	t.Render()

	for _, o := range outcomes {
		fmt.Printf("\n── %s ──\n", o.Unit)
		for _, line := range o.Log {
			fmt.Println("  " + line)
		}
	}
}

func outcomeState(o model.PublishOutcome) string {
	switch {
	case o.Skipped:
		return "OMITIDO"
	case o.Ambiguous:
		return "AMBIGUO"
	case o.PostID != "":
		if o.FailedAny {
			return "PARCIAL"
		}
		return "OK"
	default:
		return "FALLIDO"
	}
}

func init() {
	rootCmd.AddCommand(publishCmd)

	publishCmd.Flags().StringVar(&pubOwner, "owner", "", "Sheets归属人列的值")
	publishCmd.Flags().StringVar(&pubPrice, "price", "", "售价，追加到caption并写入登记")
	publishCmd.Flags().BoolVar(&pubWatch, "watch", false, "持续监听输出目录，新目录就绪后自动发布")
	publishCmd.Flags().BoolVar(&pubForce, "force", false, "已发布过的目录也重新发布")

	publishCmd.Example = `  # 发布所有就绪目录
  discogs-tool publish --owner "Loic" --price "25 EUR"

  # 只发布指定目录（输出目录下的子目录名或完整路径）
  discogs-tool publish "Artista - Mi Release" --price "25 EUR"

  # 持续监听，新生成的release自动发布
  discogs-tool publish --watch --owner "Loic"`
}
