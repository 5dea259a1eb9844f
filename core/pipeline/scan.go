package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/loictrobas/discogs-tool/model"
)

// ScanReady 扫描输出根目录，找出可发布的release子目录。
// 判定标准：至少一个.mp4加一个.txt。目录和目录里的视频都按名字排序，
// 发布顺序稳定可预期。
func ScanReady(root string) ([]model.PublishUnit, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("读取输出目录失败: %w", err)
	}

	var units []model.PublishUnit
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		folder := filepath.Join(root, e.Name())
		unit, ok := inspectFolder(folder, e.Name())
		if ok {
			units = append(units, unit)
		}
	}

	sort.Slice(units, func(i, j int) bool { return units[i].Name < units[j].Name })
	return units, nil
}

// ResolveUnits 把命令行给的目录参数解析成publish unit。
// 参数可以是任意路径，也可以只写输出根目录下的子目录名。
// 有一个目录不可发布就整体报错，不发半截。
func ResolveUnits(root string, names []string) ([]model.PublishUnit, error) {
	units := make([]model.PublishUnit, 0, len(names))
	for _, name := range names {
		if unit, ok := InspectFolder(name); ok {
			units = append(units, unit)
			continue
		}
		if unit, ok := InspectFolder(filepath.Join(root, name)); ok {
			units = append(units, unit)
			continue
		}
		return nil, fmt.Errorf("目录 %q 不可发布，需要至少一个mp4和一个txt", name)
	}
	return units, nil
}

// InspectFolder 单个目录是否构成publish unit
func InspectFolder(folder string) (model.PublishUnit, bool) {
	return inspectFolder(folder, filepath.Base(folder))
}

func inspectFolder(folder, name string) (model.PublishUnit, bool) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return model.PublishUnit{}, false
	}

	var videos []string
	var txt string
	for _, f := range entries {
		if f.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(f.Name())) {
		case ".mp4":
			videos = append(videos, filepath.Join(folder, f.Name()))
		case ".txt":
			if txt == "" {
				txt = filepath.Join(folder, f.Name())
			}
		}
	}

	if len(videos) == 0 || txt == "" {
		return model.PublishUnit{}, false
	}

	sort.Strings(videos)
	return model.PublishUnit{
		Folder:      folder,
		Name:        name,
		Videos:      videos,
		CaptionFile: txt,
	}, true
}
