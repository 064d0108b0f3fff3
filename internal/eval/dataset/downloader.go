package dataset

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DefaultCacheDir holds downloaded datasets.
const DefaultCacheDir = "~/.cache/bookmatch/datasets"

// DownloadConfig configures dataset downloading
type DownloadConfig struct {
	CacheDir      string
	ForceDownload bool
	Token         string // bearer token for private datasets
	HTTPClient    *http.Client
}

// Downloader fetches remote datasets into a local cache.
type Downloader struct {
	config DownloadConfig
}

// NewDownloader creates a new dataset downloader
func NewDownloader(config DownloadConfig) *Downloader {
	if config.CacheDir == "" {
		config.CacheDir = DefaultCacheDir
	}
	if config.HTTPClient == nil {
		config.HTTPClient = http.DefaultClient
	}

	if strings.HasPrefix(config.CacheDir, "~") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			config.CacheDir = filepath.Join(homeDir, config.CacheDir[1:])
		}
	}

	return &Downloader{
		config: config,
	}
}

// IsRemote reports whether a dataset location must be downloaded first.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Download returns a local path for the dataset at rawURL, fetching it
// unless a cached copy exists.
func (d *Downloader) Download(ctx context.Context, rawURL string) (string, error) {
	cachedPath, err := d.CachePath(rawURL)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(cachedPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	if !d.config.ForceDownload {
		if _, err := os.Stat(cachedPath); err == nil {
			slog.Info("Using cached dataset", "path", cachedPath)
			return cachedPath, nil
		}
	}

	slog.Info("Downloading dataset", "url", rawURL)
	if err := d.downloadFile(ctx, rawURL, cachedPath); err != nil {
		return "", fmt.Errorf("failed to download dataset: %w", err)
	}

	slog.Info("Dataset downloaded successfully", "path", cachedPath)
	return cachedPath, nil
}

// CachePath returns where the dataset at rawURL is cached. The file keeps its
// extension so the loader can detect the format.
func (d *Downloader) CachePath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid dataset url: %w", err)
	}
	sum := sha256.Sum256([]byte(rawURL))
	name := hex.EncodeToString(sum[:8]) + "-" + path.Base(u.Path)
	return filepath.Join(d.config.CacheDir, name), nil
}

func (d *Downloader) downloadFile(ctx context.Context, rawURL, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if d.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+d.config.Token)
	}

	resp, err := d.config.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status: %d", resp.StatusCode)
	}

	tempPath := destPath + ".tmp"
	out, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	written, err := io.Copy(out, resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("download failed: %w", err)
	}
	slog.Debug("Download complete", "bytes", written)

	if err := os.Rename(tempPath, destPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to move file: %w", err)
	}

	return nil
}

// Open returns a loader for location, downloading it first when remote.
func Open(ctx context.Context, location string, config DownloadConfig) (*Loader, error) {
	if !IsRemote(location) {
		return NewLoader(location), nil
	}

	datasetPath, err := NewDownloader(config).Download(ctx, location)
	if err != nil {
		return nil, err
	}
	return NewLoader(datasetPath), nil
}
