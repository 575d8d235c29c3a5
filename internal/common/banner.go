package common

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ternarybob/banner"
)

// bannerOut is where banners are written. Swappable for tests.
var bannerOut io.Writer = os.Stderr

// PrintBanner displays the application startup banner to stderr.
func PrintBanner(config *Config, logger *Logger) {
	version := GetVersion()
	build := GetBuild()
	commit := GetGitCommit()
	serviceURL := fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)
	storagePath := config.Storage.Users.Path

	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	width := 94
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	art := []string{
		` 888b    888 8888888888 Y88b   d88P 88888888888 8888888b.      d8888    8888888b.  8888888888`,
		` 8888b   888 888         Y88b d88P      888     888   Y88b    d88888    888  "Y88b 888`,
		` 88888b  888 888          Y88o88P       888     888    888   d88P888    888    888 888`,
		` 888Y88b 888 8888888       Y888P        888     888   d88P  d88P 888    888    888 8888888`,
		` 888 Y88b888 888           d888b        888     8888888P"  d88P  888    888    888 888`,
		` 888  Y88888 888          d88888b       888     888 T88b   d88P   888   888    888 888`,
		` 888   Y8888 888         d88P Y88b      888     888  T88b  d8888888888  888  .d88P 888`,
		` 888    Y888 8888888888 d88P   Y88b     888     888   T88b d88P     888 8888888P"  8888888888`,
	}

	fmt.Fprintf(bannerOut, "\n")
	fmt.Fprintf(bannerOut, "%s\n", hr)
	fmt.Fprintf(bannerOut, "\n")
	for _, line := range art {
		fmt.Fprintf(bannerOut, "%s%s%s\n", textColor, line, banner.ColorReset)
	}
	fmt.Fprintf(bannerOut, "\n")
	fmt.Fprintf(bannerOut, "%s  Trading & Portfolio Platform%s\n", textColor, banner.ColorReset)
	fmt.Fprintf(bannerOut, "\n")
	fmt.Fprintf(bannerOut, "%s\n", hr)
	fmt.Fprintf(bannerOut, "\n")

	kvPad := 16
	kvLines := [][2]string{
		{"Version", version},
		{"Build", build},
		{"Commit", commit},
		{"Environment", config.Environment},
		{"Service URL", serviceURL},
		{"Storage", storagePath},
	}
	for _, kv := range kvLines {
		fmt.Fprintf(bannerOut, "%s  %-*s %s%s\n", textColor, kvPad, kv[0], kv[1], banner.ColorReset)
	}

	fmt.Fprintf(bannerOut, "\n")
	fmt.Fprintf(bannerOut, "%s\n", hr)
	fmt.Fprintf(bannerOut, "\n")

	logger.Info().
		Str("version", version).
		Str("build", build).
		Str("commit", commit).
		Str("environment", config.Environment).
		Str("service_url", serviceURL).
		Str("storage_path", storagePath).
		Msg("Application started")
}

// PrintShutdownBanner displays the application shutdown banner to stderr.
func PrintShutdownBanner(logger *Logger) {
	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	width := 42
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	fmt.Fprintf(bannerOut, "\n")
	fmt.Fprintf(bannerOut, "%s\n", hr)
	fmt.Fprintf(bannerOut, "%s  NEXTRADE - SHUTTING DOWN%s\n", textColor, banner.ColorReset)
	fmt.Fprintf(bannerOut, "%s\n", hr)
	fmt.Fprintf(bannerOut, "\n")

	logger.Info().Msg("Application shutting down")
}
