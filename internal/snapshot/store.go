package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nfnt/resize"
	"github.com/rs/zerolog"
)

const (
	htmlFile       = "index.html"
	screenshotFile = "screenshot.png"
	thumbnailFile  = "thumbnail.png"
	stampLayout    = "20060102-150405.000"
)

// ErrNoSnapshot is returned by Latest when a host has no stored snapshot
var ErrNoSnapshot = errors.New("no snapshot")

// Snapshot describes the files written for one captured page
type Snapshot struct {
	Dir            string
	HTMLPath       string
	ScreenshotPath string
	ThumbnailPath  string
}

// Store lays snapshots out as <dir>/<host>/<timestamp>/
type Store struct {
	dir        string
	thumbWidth uint
	files      *Files
	logger     zerolog.Logger
	now        func() time.Time
}

// NewStore creates a snapshot store rooted at dir.
// thumbWidth is the thumbnail width in pixels, 0 means 320.
func NewStore(dir string, thumbWidth uint, logger zerolog.Logger) *Store {
	if thumbWidth == 0 {
		thumbWidth = 320
	}
	return &Store{
		dir:        dir,
		thumbWidth: thumbWidth,
		files:      NewFiles(logger),
		logger:     logger,
		now:        time.Now,
	}
}

// Take stores the page markup and, when given, its PNG screenshot plus a thumbnail
func (s *Store) Take(pageURL, html string, screenshot []byte) (*Snapshot, error) {
	dir, err := s.newSnapshotDir(pageURL)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Dir: dir, HTMLPath: filepath.Join(dir, htmlFile)}
	if !s.files.Save(snap.HTMLPath, html) {
		return nil, fmt.Errorf("write %s", snap.HTMLPath)
	}

	if len(screenshot) == 0 {
		return snap, nil
	}

	snap.ScreenshotPath = filepath.Join(dir, screenshotFile)
	if err := os.WriteFile(snap.ScreenshotPath, screenshot, 0o644); err != nil {
		return nil, fmt.Errorf("write screenshot: %w", err)
	}

	thumb, err := Thumbnail(screenshot, s.thumbWidth)
	if err != nil {
		s.logger.Warn().Err(err).Str("dir", dir).Msg("skipping thumbnail")
		return snap, nil
	}
	snap.ThumbnailPath = filepath.Join(dir, thumbnailFile)
	if err := os.WriteFile(snap.ThumbnailPath, thumb, 0o644); err != nil {
		return nil, fmt.Errorf("write thumbnail: %w", err)
	}
	return snap, nil
}

// newSnapshotDir creates a fresh directory named after the capture time.
// Captures within the same millisecond get a -1, -2, ... suffix.
func (s *Store) newSnapshotDir(pageURL string) (string, error) {
	hostPath := filepath.Join(s.dir, hostDir(pageURL))
	if err := os.MkdirAll(hostPath, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	stamp := s.now().UTC().Format(stampLayout)
	name := stamp
	for i := 1; ; i++ {
		dir := filepath.Join(hostPath, name)
		err := os.Mkdir(dir, 0o755)
		if err == nil {
			return dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("create snapshot dir: %w", err)
		}
		name = fmt.Sprintf("%s-%d", stamp, i)
	}
}

// Latest returns the markup of the newest snapshot taken for the host of pageURL
func (s *Store) Latest(pageURL string) (string, error) {
	hostPath := filepath.Join(s.dir, hostDir(pageURL))
	entries, err := os.ReadDir(hostPath)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w for %s", ErrNoSnapshot, pageURL)
	}
	if err != nil {
		return "", fmt.Errorf("list snapshots: %w", err)
	}

	var stamps []string
	for _, e := range entries {
		if e.IsDir() {
			stamps = append(stamps, e.Name())
		}
	}
	if len(stamps) == 0 {
		return "", fmt.Errorf("%w for %s", ErrNoSnapshot, pageURL)
	}
	sort.Slice(stamps, func(i, j int) bool {
		return stampBefore(stamps[i], stamps[j])
	})

	data, err := os.ReadFile(filepath.Join(hostPath, stamps[len(stamps)-1], htmlFile))
	if err != nil {
		return "", fmt.Errorf("read snapshot: %w", err)
	}
	return string(data), nil
}

// stampBefore orders snapshot names by capture time, then by collision suffix
func stampBefore(a, b string) bool {
	baseA, seqA := splitStamp(a)
	baseB, seqB := splitStamp(b)
	if baseA != baseB {
		return baseA < baseB
	}
	return seqA < seqB
}

func splitStamp(name string) (string, int) {
	if len(name) <= len(stampLayout) || name[len(stampLayout)] != '-' {
		return name, 0
	}
	seq, err := strconv.Atoi(name[len(stampLayout)+1:])
	if err != nil {
		return name, 0
	}
	return name[:len(stampLayout)], seq
}

// Thumbnail scales a PNG down to width pixels, keeping the aspect ratio.
// Images already narrower than width are re-encoded unchanged.
func Thumbnail(pngData []byte, width uint) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}

	var out image.Image = img
	if uint(img.Bounds().Dx()) > width {
		out = resize.Resize(width, 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// hostDir maps a URL to a filesystem-safe directory name
func hostDir(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return "local"
	}
	return strings.NewReplacer(":", "_", "/", "_").Replace(u.Host)
}
