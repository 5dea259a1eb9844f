package audio

import (
	"fmt"

	"github.com/bogem/id3v2"

	"github.com/loictrobas/discogs-tool/logger"
)

// TagClip 给截好的片段写基础ID3标签：标题、艺术家、专辑(release标题)。
// 打标签失败不影响片段本身，只记warning。
func TagClip(clipPath, title, artist, album string) error {
	tag, err := id3v2.Open(clipPath, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("打开ID3标签失败: %w", err)
	}
	defer tag.Close()

	if title != "" {
		tag.SetTitle(title)
	}
	if artist != "" {
		tag.SetArtist(artist)
	}
	if album != "" {
		tag.SetAlbum(album)
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("保存ID3标签失败: %w", err)
	}

	logger.Debug("片段已打标签", logger.String("clip", clipPath), logger.String("title", title))
	return nil
}
