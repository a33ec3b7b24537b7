// Package snapshot captures a full-page PNG of a running dashboard with a
// headless Chrome driven by chromedp.
package snapshot

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Config holds configuration for a capture.
type Config struct {
	// URL is the dashboard page to capture, state query included.
	URL string

	// Width and Height size the browser window in pixels.
	Width  int
	Height int

	// Quality is passed to the screenshot. 100 captures a PNG; lower values
	// make chromedp encode a JPEG at that quality.
	Quality int

	// Settle is how long to wait after load for chart images to arrive.
	Settle time.Duration

	// Timeout bounds the whole capture.
	Timeout time.Duration

	// ExecPath selects a Chrome binary; empty lets chromedp find one.
	ExecPath string

	// Logger receives browser diagnostics. Nil means no logging.
	Logger *zap.Logger
}

// PNGQuality is the screenshot quality that keeps the capture lossless PNG.
const PNGQuality = 100

// DefaultConfig returns a 1280x900 capture of the local dashboard.
func DefaultConfig() Config {
	return Config{
		URL:     "http://127.0.0.1:8080/",
		Width:   1280,
		Height:  900,
		Quality: PNGQuality,
		Settle:  2 * time.Second,
		Timeout: 60 * time.Second,
	}
}

// Extension returns the file extension matching the captured image format.
func (config Config) Extension() string {
	if config.Quality == PNGQuality {
		return ".png"
	}
	return ".jpg"
}

// Validate checks the capture settings.
func (config Config) Validate() error {
	parsed, err := url.Parse(config.URL)
	if err != nil {
		return fmt.Errorf("invalid snapshot url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("snapshot url must be http or https, got %q", config.URL)
	}
	if config.Width <= 0 || config.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", config.Width, config.Height)
	}
	if config.Quality < 0 || config.Quality > 100 {
		return fmt.Errorf("quality must be between 0 and 100, got %d", config.Quality)
	}
	if config.Settle < 0 || config.Timeout <= 0 {
		return fmt.Errorf("settle must not be negative and timeout must be positive")
	}
	return nil
}

// AllocatorOptions returns the headless Chrome flags for config.
func AllocatorOptions(config Config) []chromedp.ExecAllocatorOption {
	options := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.WindowSize(config.Width, config.Height),
	)
	if config.ExecPath != "" {
		options = append(options, chromedp.ExecPath(config.ExecPath))
	}
	return options
}

// Tasks returns the capture steps; the image lands in buffer.
func Tasks(config Config, buffer *[]byte) chromedp.Tasks {
	return chromedp.Tasks{
		chromedp.Navigate(config.URL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.Sleep(config.Settle),
		chromedp.FullScreenshot(buffer, config.Quality),
	}
}

// Capture loads config.URL in headless Chrome and returns a full-page
// screenshot.
func Capture(ctx context.Context, config Config) ([]byte, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, AllocatorOptions(config)...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(logger.Sugar().Debugf))
	defer cancelBrowser()

	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, config.Timeout)
	defer cancelTimeout()

	var buffer []byte
	started := time.Now()
	if err := chromedp.Run(timeoutCtx, Tasks(config, &buffer)); err != nil {
		return nil, fmt.Errorf("failed to capture %s: %w", config.URL, err)
	}

	logger.Info("snapshot captured",
		zap.String("url", config.URL),
		zap.Int("bytes", len(buffer)),
		zap.Duration("duration", time.Since(started)))
	return buffer, nil
}
