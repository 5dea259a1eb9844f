package cmd

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/loictrobas/discogs-tool/cache"
	"github.com/loictrobas/discogs-tool/core/pipeline"
	"github.com/loictrobas/discogs-tool/model"
)

var (
	genStart    int
	genDuration int
	genManual   []string
	genLocal    []string
	genPick     []string
	genNoCache  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <release-url>",
	Short: "为release的每条曲目生成方形预览视频",
	Long: `抓取release后逐曲目走完整流水线：yt-dlp搜索音源（或使用--manual/
--local指定的来源），截取片段，打ID3标签，和封面合成1080x1080视频。
单曲失败只跳过，不中断整批。`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := cache.ConnectRedis(cfg); err != nil {
			fmt.Println("Redis不可用，本次不走缓存")
		}
		defer cache.CloseRedis()

		if genStart >= 0 {
			cfg.ClipStartSec = genStart
		}
		if genDuration > 0 {
			cfg.ClipDurationSec = genDuration
		}

		// 同一输出目录同时只跑一个generate，避免ffmpeg互相踩文件
		lock := flock.New(filepath.Join(cfg.OutputDir, ".generate.lock"))
		locked, err := lock.TryLock()
		if err != nil {
			log.Fatalf("获取目录锁失败: %v", err)
		}
		if !locked {
			log.Fatal("另一个generate正在运行，稍后再试")
		}
		defer lock.Unlock()

		gen := pipeline.NewGenerator(cfg)
		gen.UseCache = !genNoCache && cache.Enabled()

		sess, err := gen.LoadRelease(ctx, args[0])
		if err != nil {
			log.Fatalf("加载release失败: %v", err)
		}
		fmt.Printf("Release: %s (%d 曲目)\n", sess.Release.Title, len(sess.Release.Tracks))

		if err := applySelections(ctx, gen, sess); err != nil {
			log.Fatalf("%v", err)
		}

		logs, err := gen.Generate(ctx, sess)
		if err != nil {
			log.Fatalf("生成失败: %v", err)
		}
		for _, line := range logs {
			fmt.Println(line)
		}
		fmt.Printf("\n输出目录: %s\n", sess.Folder)
	},
}

// applySelections 把--manual/--local/--pick翻译成会话里的选择
func applySelections(ctx context.Context, gen *pipeline.Generator, sess *pipeline.Session) error {
	for _, arg := range genManual {
		pos, val, err := splitAssignment(arg)
		if err != nil {
			return fmt.Errorf("--manual %q: %w", arg, err)
		}
		idx, err := trackIndex(sess.Release, pos)
		if err != nil {
			return err
		}
		sess.Select(idx, model.ManualSelection(val))
	}

	for _, arg := range genLocal {
		pos, val, err := splitAssignment(arg)
		if err != nil {
			return fmt.Errorf("--local %q: %w", arg, err)
		}
		idx, err := trackIndex(sess.Release, pos)
		if err != nil {
			return err
		}
		sess.Select(idx, model.LocalSelection(val))
	}

	for _, arg := range genPick {
		pos, val, err := splitAssignment(arg)
		if err != nil {
			return fmt.Errorf("--pick %q: %w", arg, err)
		}
		n, err := strconv.Atoi(val)
		if err != nil || n < 1 {
			return fmt.Errorf("--pick %q: 候选序号必须是正整数", arg)
		}
		idx, err := trackIndex(sess.Release, pos)
		if err != nil {
			return err
		}
		cands, err := gen.ResolveTrack(ctx, sess, idx)
		if err != nil {
			return fmt.Errorf("搜索曲目 %s 失败: %w", pos, err)
		}
		if n > len(cands) {
			return fmt.Errorf("--pick %q: 只有 %d 个候选", arg, len(cands))
		}
		sess.Select(idx, model.AutoSelection(cands[n-1]))
	}

	return nil
}

// splitAssignment 解析 "A1=值" 形式的参数
func splitAssignment(arg string) (pos, val string, err error) {
	i := strings.Index(arg, "=")
	if i <= 0 || i == len(arg)-1 {
		return "", "", fmt.Errorf("格式应为 位置=值")
	}
	return strings.TrimSpace(arg[:i]), strings.TrimSpace(arg[i+1:]), nil
}

// trackIndex 按曲目位置找下标，大小写不敏感
func trackIndex(rel *model.Release, pos string) (int, error) {
	for i, t := range rel.Tracks {
		if strings.EqualFold(t.Position, pos) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("release里没有位置为 %q 的曲目", pos)
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().IntVar(&genStart, "start", -1, "片段起始秒数（默认90）")
	generateCmd.Flags().IntVar(&genDuration, "duration", 0, "片段时长秒数（默认30）")
	generateCmd.Flags().StringArrayVar(&genManual, "manual", nil, "手动指定音源URL，格式 位置=URL，可重复")
	generateCmd.Flags().StringArrayVar(&genLocal, "local", nil, "使用本地音频文件，格式 位置=路径，可重复")
	generateCmd.Flags().StringArrayVar(&genPick, "pick", nil, "选第N个搜索候选，格式 位置=N，可重复")
	generateCmd.Flags().BoolVar(&genNoCache, "no-cache", false, "跳过Redis缓存")

	generateCmd.Example = `  # 整张release全自动生成
  discogs-tool generate https://www.discogs.com/release/123456

  # A2用手动URL，B1用本地文件
  discogs-tool generate https://www.discogs.com/release/123456 \
    --manual "A2=https://www.youtube.com/watch?v=xxxx" \
    --local "B1=/tmp/b1.mp3"

  # A1用第3个搜索候选，片段改成从60秒开始取20秒
  discogs-tool generate https://www.discogs.com/release/123456 \
    --pick A1=3 --start 60 --duration 20`
}
