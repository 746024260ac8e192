package api

import (
	"fmt"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dutchcoders/go-clamd"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"phPortfolio/internal/storage"
)

var assetContentTypes = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// AssetHandler 负责站点图片资产的上传、浏览与删除。
type AssetHandler struct {
	Storage        *storage.Client
	Redis          redis.UniversalClient
	Logger         *slog.Logger
	ClamdAddr      string
	MaxUploadBytes int64
	UploadsPerDay  int
}

// NewAssetHandler 返回 AssetHandler 实例。
func NewAssetHandler(storageClient *storage.Client, redisClient redis.UniversalClient, logger *slog.Logger, clamdAddr string, maxUploadBytes int64, uploadsPerDay int) *AssetHandler {
	return &AssetHandler{
		Storage:        storageClient,
		Redis:          redisClient,
		Logger:         logger,
		ClamdAddr:      clamdAddr,
		MaxUploadBytes: maxUploadBytes,
		UploadsPerDay:  uploadsPerDay,
	}
}

// UploadAsset 处理图片上传，配置了 clamd 时先扫描再入库。
func (h *AssetHandler) UploadAsset(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "missing file")
		return
	}

	if h.MaxUploadBytes > 0 && file.Size > h.MaxUploadBytes {
		Error(c, http.StatusRequestEntityTooLarge, "file too large")
		return
	}

	contentType := file.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}
	ext, allowed := assetContentTypes[contentType]
	if !allowed {
		BadRequest(c, "unsupported content type")
		return
	}
	if suffix := strings.ToLower(filepath.Ext(file.Filename)); suffix == ".jpeg" {
		ext = ".jpg"
	}

	ctx := c.Request.Context()

	// 每日上传配额
	if h.UploadsPerDay > 0 {
		quotaKey := fmt.Sprintf("rate:asset-upload:%d:%s", userID, time.Now().UTC().Format("20060102"))
		count, err := incrWithTTL(ctx, h.Redis, quotaKey, 24*time.Hour)
		if err == nil && count > int64(h.UploadsPerDay) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "daily upload limit reached"})
			return
		}
	}

	if h.ClamdAddr != "" {
		clean, err := h.scanUpload(file)
		if err != nil {
			h.Logger.Error("scan file", slog.String("error", err.Error()))
			Internal(c, "failed to scan file")
			return
		}
		if !clean {
			BadRequest(c, "malicious file detected")
			return
		}
	}

	fileReader, err := file.Open()
	if err != nil {
		Internal(c, "failed to open file")
		return
	}
	defer fileReader.Close()

	objectKey := contentAssetPrefix + uuid.NewString() + ext
	if _, err := h.Storage.UploadFile(ctx, objectKey, fileReader, file.Size, contentType); err != nil {
		h.Logger.Error("upload file", slog.String("error", err.Error()))
		Internal(c, "failed to upload file")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"objectKey": objectKey})
}

func (h *AssetHandler) scanUpload(file *multipart.FileHeader) (bool, error) {
	clamdClient := clamd.NewClamd(h.ClamdAddr)

	fileReader, err := file.Open()
	if err != nil {
		return false, err
	}

	abortChan := make(chan bool)
	scanChan, err := clamdClient.ScanStream(fileReader, abortChan)
	fileReader.Close()
	if err != nil {
		return false, err
	}
	defer close(abortChan)

	for result := range scanChan {
		if result.Status != clamd.RES_OK {
			return false, nil
		}
	}
	return true, nil
}

// ListAssets 列出已上传的资产及其临时预览链接。
func (h *AssetHandler) ListAssets(c *gin.Context) {
	if _, ok := userIDFromContext(c); !ok {
		AbortUnauthorized(c)
		return
	}

	limitStr := c.DefaultQuery("limit", "60")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 60
	}
	if limit > 200 {
		limit = 200
	}

	objects, err := h.Storage.ListObjects(c.Request.Context(), contentAssetPrefix, limit)
	if err != nil {
		h.Logger.Error("list assets", slog.String("error", err.Error()))
		Internal(c, "failed to list assets")
		return
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].LastModified.After(objects[j].LastModified)
	})

	items := make([]gin.H, 0, len(objects))
	for _, obj := range objects {
		url, err := h.Storage.GeneratePresignedURL(c.Request.Context(), obj.Key, 10*time.Minute)
		if err != nil {
			h.Logger.Error("generate asset url", slog.String("objectKey", obj.Key), slog.String("error", err.Error()))
			continue
		}
		items = append(items, gin.H{
			"objectKey":    obj.Key,
			"previewUrl":   url,
			"size":         obj.Size,
			"lastModified": obj.LastModified,
		})
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetAssetURL 返回资产的临时预签名 URL。
func (h *AssetHandler) GetAssetURL(c *gin.Context) {
	if _, ok := userIDFromContext(c); !ok {
		AbortUnauthorized(c)
		return
	}

	objectKey := c.Query("key")
	if !isValidContentAssetObjectKey(objectKey) {
		BadRequest(c, "invalid object key")
		return
	}

	signedURL, err := h.Storage.GeneratePresignedURL(c.Request.Context(), objectKey, 15*time.Minute)
	if err != nil {
		h.Logger.Error("generate presigned url", slog.String("error", err.Error()))
		Internal(c, "failed to generate url")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": signedURL})
}

// DeleteAsset 删除指定资产，对已不存在的对象保持幂等。
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	if _, ok := userIDFromContext(c); !ok {
		AbortUnauthorized(c)
		return
	}

	objectKey := c.Query("key")
	if !isValidContentAssetObjectKey(objectKey) {
		BadRequest(c, "invalid object key")
		return
	}

	if err := h.Storage.DeleteObject(c.Request.Context(), objectKey); err != nil {
		h.Logger.Error("delete asset", slog.String("objectKey", objectKey), slog.String("error", err.Error()))
		Internal(c, "failed to delete asset")
		return
	}

	c.Status(http.StatusNoContent)
}
