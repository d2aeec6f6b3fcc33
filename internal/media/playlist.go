package media

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Entry is one local track named by a playlist. Title is empty when the
// playlist gives no display name for it.
type Entry struct {
	Path  string
	Title string
}

// ReadPlaylist loads a .m3u, .m3u8 or .pls file. Relative paths resolve
// against the playlist's directory. Remote URLs are dropped because only
// local files can be analysed.
func ReadPlaylist(path string) ([]Entry, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsPlaylistExt(ext) {
		return nil, fmt.Errorf("unsupported playlist format %s", ext)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading playlist: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("playlist %s is not valid UTF-8", filepath.Base(path))
	}

	sc := bufio.NewScanner(strings.NewReader(strings.TrimPrefix(string(data), "\uFEFF")))
	dir := filepath.Dir(abs)
	if ext == ".pls" {
		return readPLS(sc, dir), nil
	}
	return readM3U(sc, dir), nil
}

// Playable drops entries that are missing, are directories or have an
// extension the decoder does not handle. Kept paths are made absolute.
func Playable(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !IsSupportedExt(filepath.Ext(e.Path)) {
			continue
		}
		if info, err := os.Stat(e.Path); err != nil || info.IsDir() {
			continue
		}
		if abs, err := filepath.Abs(e.Path); err == nil {
			e.Path = abs
		}
		out = append(out, e)
	}
	return out
}

// readM3U attaches the title of an #EXTINF line to the entry that follows it.
func readM3U(sc *bufio.Scanner, dir string) []Entry {
	var entries []Entry
	var title string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
		case strings.HasPrefix(line, "#EXTINF:"):
			if _, t, ok := strings.Cut(line, ","); ok {
				title = strings.TrimSpace(t)
			}
		case strings.HasPrefix(line, "#"):
		default:
			if loc := strings.Trim(line, `"`); !isRemote(loc) {
				entries = append(entries, Entry{Path: resolveEntry(loc, dir), Title: title})
			}
			title = ""
		}
	}
	return entries
}

// readPLS pairs FileN with TitleN and keeps entries in N order.
func readPLS(sc *bufio.Scanner, dir string) []Entry {
	files := map[int]string{}
	titles := map[int]string{}
	var order []int
	for sc.Scan() {
		key, val, ok := strings.Cut(strings.TrimSpace(sc.Text()), "=")
		if !ok {
			continue
		}
		key, val = strings.TrimSpace(key), strings.TrimSpace(val)
		if n, ok := plsIndex(key, "File"); ok && val != "" && !isRemote(val) {
			if _, seen := files[n]; !seen {
				order = append(order, n)
			}
			files[n] = resolveEntry(val, dir)
		} else if n, ok := plsIndex(key, "Title"); ok {
			titles[n] = val
		}
	}

	slices.Sort(order)
	entries := make([]Entry, 0, len(order))
	for _, n := range order {
		entries = append(entries, Entry{Path: files[n], Title: titles[n]})
	}
	return entries
}

// plsIndex parses keys such as "File3" or "title3", ignoring case.
func plsIndex(key, prefix string) (int, bool) {
	if len(key) <= len(prefix) || !strings.EqualFold(key[:len(prefix)], prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(key[len(prefix):])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func isRemote(loc string) bool {
	lower := strings.ToLower(loc)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func resolveEntry(raw, dir string) string {
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw)
	}
	return filepath.Join(dir, raw)
}
