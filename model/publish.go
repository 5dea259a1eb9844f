package model

// ContainerStatus Instagram媒体容器的处理状态
type ContainerStatus string

const (
	StatusInProgress ContainerStatus = "IN_PROGRESS"
	StatusFinished   ContainerStatus = "FINISHED"
	StatusPublished  ContainerStatus = "PUBLISHED"
	StatusError      ContainerStatus = "ERROR"
	StatusExpired    ContainerStatus = "EXPIRED"
	StatusUnknown    ContainerStatus = "UNKNOWN"
)

// Ready 容器是否可以进入下一阶段
func (s ContainerStatus) Ready() bool {
	return s == StatusFinished || s == StatusPublished
}

// Failed 容器是否进入终态失败（区别于超时）
func (s ContainerStatus) Failed() bool {
	return s == StatusError || s == StatusExpired
}

// Terminal 终态：就绪或失败
func (s ContainerStatus) Terminal() bool {
	return s.Ready() || s.Failed()
}

// PublishUnit 一个待发布的release目录：若干mp4加一个txt，对应一条carousel
type PublishUnit struct {
	Folder      string   // release子目录
	Name        string   // 目录名
	Videos      []string // 排序后的mp4绝对路径
	CaptionFile string   // caption来源txt
}

// PublishOutcome 单个publish unit的结果
type PublishOutcome struct {
	Unit       string
	ParentID   string
	PostID     string   // media_publish返回的id，歧义失败时可能为空
	Children   []string // 确认就绪的child容器id
	FailedAny  bool     // 有child失败，carousel不完整
	Ambiguous  bool     // publish阶段出错但children已就绪，结果不确定
	Skipped    bool     // 本地库里已有同标题记录，跳过发布
	LoggedToDB bool
	Log        []string // 按发生顺序的人类可读日志行
}
