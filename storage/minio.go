package storage

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/loictrobas/discogs-tool/config"
	"github.com/loictrobas/discogs-tool/logger"
)

// Store 对象存储封装，上传视频并签出限时读URL
type Store struct {
	client *minio.Client
	bucket string
}

// NewStore 初始化MinIO客户端并确认bucket存在
func NewStore(cfg *config.Config) (*Store, error) {
	if cfg.MinioAccessKey == "" || cfg.MinioSecretKey == "" {
		return nil, fmt.Errorf("缺少MINIO_ACCESS_KEY / MINIO_SECRET_KEY")
	}

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("创建MinIO客户端失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("检查存储桶失败: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: cfg.MinioRegion}); err != nil {
			return nil, fmt.Errorf("创建存储桶失败: %w", err)
		}
		logger.Info("存储桶已创建", logger.String("bucket", cfg.MinioBucket))
	}

	return &Store{client: client, bucket: cfg.MinioBucket}, nil
}

// UploadSigned 上传本地文件到 keyPrefix/<文件名>，返回限时签名GET URL。
// 只用预签名URL，不碰对象ACL，开了UBLA的bucket也能用。
func (s *Store) UploadSigned(ctx context.Context, localPath, keyPrefix string, expiry time.Duration) (string, error) {
	name := filepath.Base(localPath)
	objectName := name
	if keyPrefix != "" {
		objectName = strings.TrimSuffix(keyPrefix, "/") + "/" + name
	}

	contentType := inferContentType(name)
	info, err := s.client.FPutObject(ctx, s.bucket, objectName, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("上传文件失败 %s: %w", name, err)
	}
	logger.Info("文件已上传",
		logger.String("object", objectName),
		logger.Int64("size", info.Size))

	// 签名URL里让浏览器inline播放
	reqParams := make(url.Values)
	reqParams.Set("response-content-disposition", fmt.Sprintf(`inline; filename="%s"`, name))

	signed, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, expiry, reqParams)
	if err != nil {
		return "", fmt.Errorf("生成签名URL失败 %s: %w", objectName, err)
	}
	return signed.String(), nil
}

// ObjectCount 统计某个前缀下的对象数，storage子命令用
func (s *Store) ObjectCount(ctx context.Context, prefix string) (int, int64, error) {
	var count int
	var size int64
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return count, size, fmt.Errorf("列举对象失败: %w", obj.Err)
		}
		count++
		size += obj.Size
	}
	return count, size, nil
}

// inferContentType 按扩展名推断Content-Type，视频默认video/mp4
func inferContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mp4":
		return "video/mp4"
	case ".mp3":
		return "audio/mpeg"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".txt":
		return "text/plain"
	default:
		return "video/mp4"
	}
}
