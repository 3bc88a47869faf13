package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/ai798/checkin_go_server/config"
	"github.com/ai798/checkin_go_server/internal/database"
	"github.com/ai798/checkin_go_server/internal/model/dto"
	"github.com/ai798/checkin_go_server/internal/pkg/oss"
	"github.com/ai798/checkin_go_server/internal/repository"
)

var (
	dryRun   = flag.Bool("dry-run", true, "Dry run mode, don't actually delete files")
	keepDays = flag.Int("keep-days", 7, "Only delete orphaned files older than N days")
)

// 清理不再被任何打卡引用的图片。
// 图片先上传后提交，用户放弃提交时文件会残留。
// 配置了 OSS 时清理 checkins/ 前缀下的对象，否则清理本地上传目录。
func main() {
	flag.Parse()

	log.Println("🧹 Starting cleanup task...")
	log.Printf("Mode: dry-run=%v, keep-days=%d", *dryRun, *keepDays)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	checkinRepo := repository.NewCheckinRepository(db)
	urls, err := referencedURLs(checkinRepo)
	if err != nil {
		log.Fatalf("Failed to collect referenced images: %v", err)
	}
	log.Printf("Found %d referenced image URLs", len(urls))

	var deletedSize int64
	var deletedFiles int
	switch {
	case cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "":
		ossClient, err := oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Fatalf("Failed to init OSS client: %v", err)
		}
		deletedSize, deletedFiles = cleanOSSOrphans(ossClient, urls, *keepDays, *dryRun)
	case cfg.Upload.LocalDir != "":
		deletedSize, deletedFiles = cleanOrphans(cfg.Upload.LocalDir, localFilenames(urls), *keepDays, *dryRun)
	default:
		log.Println("Neither OSS nor local upload dir configured, nothing to clean")
		return
	}

	log.Println(strings.Repeat("=", 60))
	log.Printf("Deleted files: %d", deletedFiles)
	log.Printf("Freed space: %s", formatSize(deletedSize))
	if *dryRun {
		log.Println("⚠️  DRY RUN MODE - No files were actually deleted")
		log.Println("   Run with -dry-run=false to actually delete files")
	} else {
		log.Println("✅ Cleanup completed!")
	}
	log.Println(strings.Repeat("=", 60))
}

// referencedURLs 汇总所有打卡引用的图片 URL
func referencedURLs(checkinRepo *repository.CheckinRepository) ([]string, error) {
	raws, err := checkinRepo.ListImageURLs()
	if err != nil {
		return nil, err
	}

	var urls []string
	for _, raw := range raws {
		urls = append(urls, parseImageURLs(raw)...)
	}
	return urls, nil
}

// parseImageURLs 解析 image_url 字段，兼容早期的裸数组格式
func parseImageURLs(raw string) []string {
	var images dto.ImageData
	if err := json.Unmarshal([]byte(raw), &images); err == nil {
		return append(images.Insight, images.Confusion...)
	}

	var legacy []string
	if err := json.Unmarshal([]byte(raw), &legacy); err == nil {
		return legacy
	}
	return nil
}

// localFilenames URL 集合转成本地文件名集合
func localFilenames(urls []string) map[string]struct{} {
	referenced := make(map[string]struct{})
	for _, url := range urls {
		referenced[path.Base(url)] = struct{}{}
	}
	return referenced
}

// cleanOSSOrphans 删除 OSS 上未被引用且超过保留期的打卡图片
func cleanOSSOrphans(client *oss.Client, urls []string, keepDays int, dryRun bool) (int64, int) {
	referenced := make(map[string]struct{})
	for _, url := range urls {
		referenced[client.ExtractObjectKey(url)] = struct{}{}
	}

	objects, err := client.ListObjects("checkins/")
	if err != nil {
		log.Printf("Failed to list OSS objects: %v", err)
		return 0, 0
	}
	log.Printf("Found %d objects under checkins/", len(objects))

	expireTime := time.Now().Add(-time.Duration(keepDays) * 24 * time.Hour)

	var totalSize int64
	var count int
	for _, obj := range objects {
		if _, ok := referenced[obj.Key]; ok {
			continue
		}
		// 只删除超过保留期的对象，避免误删刚上传还没提交的图片
		if !obj.LastModified.Before(expireTime) {
			continue
		}

		totalSize += obj.Size
		log.Printf("  - %s (%s, %s old)",
			obj.Key,
			formatSize(obj.Size),
			time.Since(obj.LastModified).Round(time.Hour))

		if !dryRun {
			if err := client.Delete(obj.Key); err != nil {
				log.Printf("    ❌ Failed to delete: %v", err)
				continue
			}
		}
		count++
	}

	return totalSize, count
}

// cleanOrphans 删除本地目录里未被引用且超过保留期的文件
func cleanOrphans(dir string, referenced map[string]struct{}, keepDays int, dryRun bool) (int64, int) {
	expireTime := time.Now().Add(-time.Duration(keepDays) * 24 * time.Hour)

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("Failed to read upload dir %s: %v", dir, err)
		return 0, 0
	}

	var totalSize int64
	var count int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := referenced[entry.Name()]; ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		// 只删除超过保留期的文件，避免误删刚上传还没提交的图片
		if !info.ModTime().Before(expireTime) {
			continue
		}

		totalSize += info.Size()
		log.Printf("  - %s (%s, %s old)",
			entry.Name(),
			formatSize(info.Size()),
			time.Since(info.ModTime()).Round(time.Hour))

		if !dryRun {
			if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
				log.Printf("    ❌ Failed to delete: %v", err)
				continue
			}
		}
		count++
	}

	return totalSize, count
}

// formatSize 格式化文件大小
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
