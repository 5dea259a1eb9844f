package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/loictrobas/discogs-tool/logger"
	"github.com/loictrobas/discogs-tool/model"
)

// settleDelay 目录有动静后等写入稳定的时间，ffmpeg写mp4不是原子的
const settleDelay = 10 * time.Second

// Watcher 盯着输出根目录，子目录凑齐视频和txt后回调发布。
// 已处理过的目录记在seen里，同一目录只发一次。
type Watcher struct {
	root    string
	onReady func(model.PublishUnit)
	seen    map[string]bool
}

// NewWatcher 创建目录监听器
func NewWatcher(root string, onReady func(model.PublishUnit)) *Watcher {
	return &Watcher{
		root:    root,
		onReady: onReady,
		seen:    make(map[string]bool),
	}
}

// MarkSeen 把已发布过的目录预先登记掉，启动时用
func (w *Watcher) MarkSeen(folder string) {
	w.seen[filepath.Clean(folder)] = true
}

// Run 阻塞运行直到ctx取消。
// 事件只当作"该重扫了"的信号，真正的判定交给目录扫描，
// 所以错过单个事件也不会漏发布。
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建文件监听器失败: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.root); err != nil {
		return fmt.Errorf("监听目录失败 %s: %w", w.root, err)
	}
	// 已有的子目录也要监听，mp4是写在子目录里的
	if units, err := ScanReady(w.root); err == nil {
		for _, u := range units {
			w.dispatch(u)
		}
	}
	w.watchSubdirs(fw)

	logger.Info("目录监听已启动", logger.String("root", w.root))

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				w.watchSubdirs(fw)
			}
			// 重置稳定窗口，连续写入只触发一次重扫
			if timer == nil {
				timer = time.NewTimer(settleDelay)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(settleDelay)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			units, err := ScanReady(w.root)
			if err != nil {
				logger.Warn("重扫输出目录失败", logger.ErrorField(err))
				continue
			}
			for _, u := range units {
				w.dispatch(u)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("文件监听出错", logger.ErrorField(err))
		}
	}
}

func (w *Watcher) dispatch(unit model.PublishUnit) {
	key := filepath.Clean(unit.Folder)
	if w.seen[key] {
		return
	}
	w.seen[key] = true
	logger.Info("发现可发布目录", logger.String("folder", unit.Name))
	w.onReady(unit)
}

func (w *Watcher) watchSubdirs(fw *fsnotify.Watcher) {
	entries, err := os.ReadDir(w.root)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		// Add对已监听路径是幂等的，重复加不报错
		_ = fw.Add(filepath.Join(w.root, e.Name()))
	}
}
