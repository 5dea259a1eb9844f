package model

// Candidate YouTube搜索候选结果，选定后即丢弃
type Candidate struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Duration  *int   `json:"duration,omitempty"` // 秒，可能未知
	Channel   string `json:"channel,omitempty"`
}

// SelectionKind 每条曲目的音源选择方式
type SelectionKind int

const (
	// SelectionAuto 使用搜索候选结果
	SelectionAuto SelectionKind = iota
	// SelectionManual 手动粘贴的URL
	SelectionManual
	// SelectionLocal 本地音频文件
	SelectionLocal
)

// Selection 曲目音源的带标签选择，三种变体各自只带需要的数据。
// 同一曲目后写入的选择覆盖先前的。
type Selection struct {
	Kind      SelectionKind
	Candidate *Candidate // SelectionAuto
	URL       string     // SelectionManual
	LocalPath string     // SelectionLocal
}

// AutoSelection 自动候选选择
func AutoSelection(c Candidate) Selection {
	return Selection{Kind: SelectionAuto, Candidate: &c}
}

// ManualSelection 手动URL选择
func ManualSelection(url string) Selection {
	return Selection{Kind: SelectionManual, URL: url}
}

// LocalSelection 本地文件选择
func LocalSelection(path string) Selection {
	return Selection{Kind: SelectionLocal, LocalPath: path}
}

// SourceURL 返回需要下载的URL，本地文件选择返回空串
func (s Selection) SourceURL() string {
	switch s.Kind {
	case SelectionAuto:
		if s.Candidate != nil {
			return s.Candidate.URL
		}
		return ""
	case SelectionManual:
		return s.URL
	default:
		return ""
	}
}
