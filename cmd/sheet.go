package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/loictrobas/discogs-tool/core/pipeline"
	"github.com/loictrobas/discogs-tool/core/sheets"
	"github.com/loictrobas/discogs-tool/core/text"
	"github.com/loictrobas/discogs-tool/db"
	"github.com/loictrobas/discogs-tool/repository"
)

var (
	sheetOwner  string
	sheetPrice  string
	sheetRecent int
)

var sheetCmd = &cobra.Command{
	Use:   "sheet",
	Short: "Google Sheets登记管理",
	Long: `把输出目录下的release批量补登记到Google Sheets（发布流程中断后
重新补账用），或用--recent查看本地数据库里最近的发布记录。`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		if sheetRecent > 0 {
			listRecent(ctx, sheetRecent)
			return
		}

		if cfg.GoogleCredentialsJSON == "" || cfg.SheetID == "" {
			log.Fatal("缺少GCS_CREDENTIALS_JSON / SHEET_ID")
		}
		client, err := sheets.NewClient(cfg.GoogleCredentialsJSON, cfg.SheetID, cfg.SheetRange)
		if err != nil {
			log.Fatalf("Sheets客户端初始化失败: %v", err)
		}

		units, err := pipeline.ScanReady(cfg.OutputDir)
		if err != nil {
			log.Fatalf("扫描输出目录失败: %v", err)
		}
		if len(units) == 0 {
			fmt.Println("没有可登记的目录")
			return
		}

		for _, u := range units {
			header := text.ParseReleaseHeader(u.CaptionFile)
			title := header.Title
			if title == "" {
				title = u.Name
			}
			row := []string{title, header.Artists, header.Country, header.Year, sheetPrice, "No", "Sí", sheetOwner}
			if err := client.AppendRow(ctx, row); err != nil {
				fmt.Printf("ERROR %s: %v\n", title, err)
				continue
			}
			fmt.Printf("OK: %s\n", title)
		}
	},
}

// listRecent 打印本地库里最近n条发布记录
func listRecent(ctx context.Context, n int) {
	if err := db.ConnectGormDB(cfg); err != nil {
		log.Fatalf("打开本地数据库失败: %v", err)
	}
	defer db.CloseGormDB()

	repo := repository.NewGormPublishedRepository(db.GormDB)
	recs, err := repo.ListRecent(ctx, n)
	if err != nil {
		log.Fatalf("读取发布记录失败: %v", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Fecha", "Release", "Artistas", "Precio", "Owner", "Ambiguo"})
	for _, r := range recs {
		t.AppendRow(table.Row{r.CreatedAt.Format("2006-01-02 15:04"), r.Title, r.Artists, r.Price, r.Owner, r.Ambiguous})
	}
	t.Render()
}

func init() {
	rootCmd.AddCommand(sheetCmd)

	sheetCmd.Flags().StringVar(&sheetOwner, "owner", "", "归属人列的值")
	sheetCmd.Flags().StringVar(&sheetPrice, "price", "", "价格列的值")
	sheetCmd.Flags().IntVar(&sheetRecent, "recent", 0, "只查看本地库最近N条记录，不写表格")

	sheetCmd.Example = `  # 把所有就绪目录补登记到表格
  discogs-tool sheet --owner "Loic" --price "25 EUR"

  # 查看最近10条本地发布记录
  discogs-tool sheet --recent 10`
}
