package pipeline

import (
	"github.com/google/uuid"

	"github.com/loictrobas/discogs-tool/model"
)

// Session 单个release的批处理上下文。
// 搜索结果和选择都按曲目下标存，加载新release时整体换新，
// 不搞全局单例。
type Session struct {
	ID       string
	Release  *model.Release
	Folder   string // release输出目录
	TxtPath  string
	CoverAt  string // cover.jpg路径，可能为空
	results  map[int][]model.Candidate
	selected map[int]model.Selection
}

// NewSession 为一个release开新会话
func NewSession(rel *model.Release) *Session {
	return &Session{
		ID:       uuid.NewString(),
		Release:  rel,
		results:  make(map[int][]model.Candidate),
		selected: make(map[int]model.Selection),
	}
}

// SetResults 存某条曲目的搜索结果
func (s *Session) SetResults(trackIdx int, cands []model.Candidate) {
	s.results[trackIdx] = cands
}

// Results 取某条曲目的搜索结果，没搜过返回nil
func (s *Session) Results(trackIdx int) []model.Candidate {
	return s.results[trackIdx]
}

// HasResults 是否已经搜索过该曲目
func (s *Session) HasResults(trackIdx int) bool {
	_, ok := s.results[trackIdx]
	return ok
}

// Select 记录曲目的音源选择，后写的覆盖先写的
func (s *Session) Select(trackIdx int, sel model.Selection) {
	s.selected[trackIdx] = sel
}

// Selection 取曲目当前的选择
func (s *Session) Selection(trackIdx int) (model.Selection, bool) {
	sel, ok := s.selected[trackIdx]
	return sel, ok
}
