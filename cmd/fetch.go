package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/loictrobas/discogs-tool/cache"
	"github.com/loictrobas/discogs-tool/core/pipeline"
	"github.com/loictrobas/discogs-tool/model"
)

var fetchNoCache bool

var fetchCmd = &cobra.Command{
	Use:   "fetch <release-url>",
	Short: "抓取Discogs release并准备输出目录",
	Long: `抓取release（或master）的元数据和marketplace价格，建好输出子目录，
写入release txt并下载封面，然后在终端打印曲目表和价格表。`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := cache.ConnectRedis(cfg); err != nil {
			fmt.Println("Redis不可用，本次不走缓存")
		}
		defer cache.CloseRedis()

		gen := pipeline.NewGenerator(cfg)
		gen.UseCache = !fetchNoCache && cache.Enabled()

		sess, err := gen.LoadRelease(ctx, args[0])
		if err != nil {
			log.Fatalf("抓取release失败: %v", err)
		}

		rel := sess.Release
		fmt.Printf("\n%s - %s (%s, %d)\n", rel.Title, strings.Join(rel.Artists, ", "), rel.Country, rel.Year)
		fmt.Printf("目录: %s\n\n", sess.Folder)

		printTracklist(rel)
		printPrices(rel)

		if sess.CoverAt == "" {
			fmt.Println("\n警告: 封面图缺失，generate之前需要手动放一张cover.jpg")
		}
	},
}

func printTracklist(rel *model.Release) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Pos", "Título", "Duración", "Artistas"})
	for i, tr := range rel.Tracks {
		t.AppendRow(table.Row{i + 1, tr.Position, tr.Title, tr.Duration, tr.DisplayArtists(rel.Artists)})
	}
	t.Render()
}

func printPrices(rel *model.Release) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Mínimo", "Mediana", "Máximo", "Moneda"})
	if rel.Prices.Empty() {
		t.AppendRow(table.Row{"—", "—", "—", "—"})
	} else {
		t.AppendRow(table.Row{
			fmtPrice(rel.Prices.Min),
			fmtPrice(rel.Prices.Median),
			fmtPrice(rel.Prices.Max),
			rel.Prices.Currency,
		})
	}
	t.Render()
}

func fmtPrice(v *float64) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("%.2f", *v)
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().BoolVar(&fetchNoCache, "no-cache", false, "跳过Redis缓存，强制重新请求Discogs")

	fetchCmd.Example = `  # 抓取一张release
  discogs-tool fetch https://www.discogs.com/release/123456-Artist-Title

  # master链接会先解析到main release
  discogs-tool fetch https://www.discogs.com/master/7890-Artist-Title

  # 不走缓存
  discogs-tool fetch --no-cache https://www.discogs.com/release/123456`
}
