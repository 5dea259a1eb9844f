package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/loictrobas/discogs-tool/config"
	"github.com/loictrobas/discogs-tool/core/instagram"
	"github.com/loictrobas/discogs-tool/core/text"
	"github.com/loictrobas/discogs-tool/logger"
	"github.com/loictrobas/discogs-tool/model"
	"github.com/loictrobas/discogs-tool/repository"
)

// ObjectStore 发布流程需要的对象存储能力
type ObjectStore interface {
	UploadSigned(ctx context.Context, localPath, keyPrefix string, expiry time.Duration) (string, error)
}

// Graph 发布流程需要的Instagram Graph能力
type Graph interface {
	CreateCarouselChild(ctx context.Context, videoURL string) (string, error)
	CreateCarouselParent(ctx context.Context, childrenIDs []string, caption string) (string, error)
	CreateReel(ctx context.Context, videoURL, caption string, thumbOffsetSec int) (string, error)
	Publish(ctx context.Context, creationID string) (string, error)
	WaitReady(ctx context.Context, creationID string, cfg instagram.PollConfig) (model.ContainerStatus, error)
}

// RowAppender Google Sheets登记能力
type RowAppender interface {
	AppendRow(ctx context.Context, row []string) error
}

// Publisher 把扫描出的release目录发成Instagram carousel并登记。
// sheets和repo都允许为nil，缺哪个就跳过哪个登记，发布本身照常走。
type Publisher struct {
	cfg    *config.Config
	store  ObjectStore
	ig     Graph
	sheets RowAppender
	repo   repository.PublishedRepository

	Owner string // sheets归属人列
	Price string // 运营填的售价，追加到caption末尾
	Force bool   // 跳过已发布检查，强制重发
}

// NewPublisher 组装发布器
func NewPublisher(cfg *config.Config, store ObjectStore, ig Graph, sheets RowAppender, repo repository.PublishedRepository) *Publisher {
	return &Publisher{cfg: cfg, store: store, ig: ig, sheets: sheets, repo: repo}
}

func (p *Publisher) childPoll() instagram.PollConfig {
	return instagram.PollConfig{
		Interval: time.Duration(p.cfg.PollSec) * time.Second,
		Timeout:  time.Duration(p.cfg.ChildWait) * time.Second,
	}
}

func (p *Publisher) parentPoll() instagram.PollConfig {
	return instagram.PollConfig{
		Interval: time.Duration(p.cfg.PollSec) * time.Second,
		Timeout:  time.Duration(p.cfg.ParentWait) * time.Second,
	}
}

// AlreadyPublished 查本地库里是否已经有同标题的发布记录。
// 没接数据库时查不了，一律当作未发布。
func (p *Publisher) AlreadyPublished(ctx context.Context, unit model.PublishUnit) bool {
	if p.repo == nil {
		return false
	}
	header := text.ParseReleaseHeader(unit.CaptionFile)
	title := header.Title
	if title == "" {
		title = unit.Name
	}
	exists, err := p.repo.ExistsByTitle(ctx, title)
	if err != nil {
		logger.Warn("查询发布记录失败", logger.ErrorField(err))
		return false
	}
	return exists
}

// PublishAll 逐个发布，单个unit失败不影响后面的
func (p *Publisher) PublishAll(ctx context.Context, units []model.PublishUnit) []model.PublishOutcome {
	outcomes := make([]model.PublishOutcome, 0, len(units))
	for _, u := range units {
		out := p.PublishUnit(ctx, u)
		outcomes = append(outcomes, out)
		if ctx.Err() != nil {
			break
		}
	}
	return outcomes
}

// PublishUnit 发布单个release目录。
// 多视频走carousel：逐个上传→child容器→等就绪，凑够至少一个就绪child
// 才建parent；单视频直接走REELS。publish本身出错但容器已就绪时结果
// 不确定，按乐观路径登记并打上Ambiguous标记，留给人工核对。
func (p *Publisher) PublishUnit(ctx context.Context, unit model.PublishUnit) model.PublishOutcome {
	out := model.PublishOutcome{Unit: unit.Name}
	logf := func(format string, args ...interface{}) {
		line := fmt.Sprintf(format, args...)
		out.Log = append(out.Log, line)
		logger.Info(line, logger.String("unit", unit.Name))
	}

	// 重复发布靠本地库兜底，watch重启或重复扫描都不会发第二遍
	if !p.Force && p.AlreadyPublished(ctx, unit) {
		out.Skipped = true
		logf("Ya publicado, se omite (usa --force para republicar)")
		return out
	}

	caption, _ := text.BuildCaptionFromTxt(unit.CaptionFile)
	caption = text.AppendPrice(caption, p.Price)

	ttl := time.Duration(p.cfg.SignedURLTTL) * time.Second
	prefix := p.cfg.MinioPrefix + "/" + unit.Name

	// 单视频不够凑carousel，直接发REELS
	if len(unit.Videos) == 1 {
		return p.publishSingle(ctx, unit, caption, prefix, ttl, out, logf)
	}

	var ready []string
	for _, video := range unit.Videos {
		name := filepath.Base(video)

		signedURL, err := p.store.UploadSigned(ctx, video, prefix, ttl)
		if err != nil {
			out.FailedAny = true
			logf("Child ERROR (upload): %s → %v", name, err)
			continue
		}

		childID, err := p.ig.CreateCarouselChild(ctx, signedURL)
		if err != nil {
			out.FailedAny = true
			logf("Child ERROR (create): %s → %v", name, err)
			continue
		}

		status, err := p.ig.WaitReady(ctx, childID, p.childPoll())
		if err != nil {
			out.FailedAny = true
			logf("Child ERROR [%s]: %s → %v", status, name, err)
			continue
		}

		ready = append(ready, childID)
		logf("Child OK [%s]: %s → %s", status, name, childID)
	}

	if len(ready) == 0 {
		logf("没有就绪的child容器，放弃发布")
		return out
	}
	out.Children = ready

	parentID, err := p.ig.CreateCarouselParent(ctx, ready, caption)
	if err != nil {
		logf("Parent ERROR (create): %v", err)
		out.FailedAny = true
		return out
	}
	out.ParentID = parentID

	status, err := p.ig.WaitReady(ctx, parentID, p.parentPoll())
	if err != nil {
		var procErr *instagram.ProcessingError
		if errors.As(err, &procErr) {
			logf("Parent ERROR [%s]: %v", status, err)
			out.FailedAny = true
			return out
		}
		// 超时不等于失败，parent可能还在处理，发布结果不确定
		logf("Parent超时 [%s]，按乐观路径继续: %v", status, err)
		out.Ambiguous = true
	} else {
		logf("Parent OK [%s]: %s", status, parentID)
	}

	postID, err := p.ig.Publish(ctx, parentID)
	if err != nil {
		// children都就绪了才走到这里，发布可能其实成功了
		logf("Publish歧义失败，按已发布记账: %v", err)
		out.Ambiguous = true
	} else {
		out.PostID = postID
		logf("Publicado: %s", postID)
	}

	p.bookkeep(ctx, unit, &out, logf)
	return out
}

// publishSingle 单视频REELS路径
func (p *Publisher) publishSingle(ctx context.Context, unit model.PublishUnit, caption, prefix string, ttl time.Duration, out model.PublishOutcome, logf func(string, ...interface{})) model.PublishOutcome {
	video := unit.Videos[0]
	name := filepath.Base(video)

	signedURL, err := p.store.UploadSigned(ctx, video, prefix, ttl)
	if err != nil {
		out.FailedAny = true
		logf("Reel ERROR (upload): %s → %v", name, err)
		return out
	}

	creationID, err := p.ig.CreateReel(ctx, signedURL, caption, 0)
	if err != nil {
		out.FailedAny = true
		logf("Reel ERROR (create): %s → %v", name, err)
		return out
	}
	out.ParentID = creationID

	status, err := p.ig.WaitReady(ctx, creationID, p.parentPoll())
	if err != nil {
		var procErr *instagram.ProcessingError
		if errors.As(err, &procErr) {
			logf("Reel ERROR [%s]: %v", status, err)
			out.FailedAny = true
			return out
		}
		logf("Reel超时 [%s]，按乐观路径继续: %v", status, err)
		out.Ambiguous = true
	} else {
		logf("Reel OK [%s]: %s", status, creationID)
	}

	postID, err := p.ig.Publish(ctx, creationID)
	if err != nil {
		logf("Publish歧义失败，按已发布记账: %v", err)
		out.Ambiguous = true
	} else {
		out.PostID = postID
		logf("Publicado: %s", postID)
	}

	p.bookkeep(ctx, unit, &out, logf)
	return out
}

// bookkeep 发布后的登记：Sheets追加一行，本地库写一条记录。
// 登记失败只记日志，发布已经完成，不能回滚。
func (p *Publisher) bookkeep(ctx context.Context, unit model.PublishUnit, out *model.PublishOutcome, logf func(string, ...interface{})) {
	header := text.ParseReleaseHeader(unit.CaptionFile)
	title := header.Title
	if title == "" {
		title = unit.Name
	}

	if p.sheets != nil {
		row := []string{title, header.Artists, header.Country, header.Year, p.Price, "No", "Sí", p.Owner}
		if err := p.sheets.AppendRow(ctx, row); err != nil {
			logf("Sheets登记失败: %v", err)
		} else {
			logf("Sheets登记完成: %s", title)
		}
	}

	if p.repo != nil {
		rec := &model.PublishedRelease{
			Title:      title,
			Artists:    header.Artists,
			Country:    header.Country,
			Year:       header.Year,
			Price:      p.Price,
			Sold:       "No",
			OnIG:       "Sí",
			Owner:      p.Owner,
			CreationID: out.ParentID,
			Ambiguous:  out.Ambiguous,
		}
		if err := p.repo.Create(ctx, rec); err != nil {
			logf("本地记录写入失败: %v", err)
		} else {
			out.LoggedToDB = true
		}
	}
}
