package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/hashicorp/go-version"
	"github.com/huy11113/cinetaste-ai/internal/cli"
)

// AppVersion is overridden at build time with -ldflags "-X".
var AppVersion = "v0.1.0"

const releasesURL = "https://api.github.com/repos/huy11113/cinetaste-ai/releases/latest"

type GitHubRelease struct {
	TagName string `json:"tag_name"`
}

// LatestRelease fetches the newest published release tag.
func LatestRelease(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("release lookup returned %d", resp.StatusCode)
	}

	var release GitHubRelease
	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}
	return release.TagName, nil
}

// IsOutdated reports whether latest is a newer semantic version than current.
func IsOutdated(current, latest string) (bool, error) {
	cur, err := version.NewVersion(current)
	if err != nil {
		return false, err
	}
	lat, err := version.NewVersion(latest)
	if err != nil {
		return false, err
	}
	return cur.LessThan(lat), nil
}

// CheckForUpdates prints a notice when a newer release exists. Failures are
// silent; the check must never delay or break startup.
func CheckForUpdates(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	latest, err := LatestRelease(ctx, &http.Client{}, releasesURL)
	if err != nil {
		return
	}
	outdated, err := IsOutdated(AppVersion, latest)
	if err != nil || !outdated {
		return
	}

	fmt.Println(cli.Style("---------------------------------------------------------", cli.DimCode))
	fmt.Printf("%s You are running an outdated version (%s).\n", cli.Style("!", cli.Yellow), AppVersion)
	fmt.Printf("  The latest version is %s.\n", cli.Bold(latest))
	fmt.Println(cli.Style("---------------------------------------------------------", cli.DimCode))
}
