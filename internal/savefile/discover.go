package savefile

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// Info describes one save folder found on disk.
type Info struct {
	Path         string
	Organisation string
	Folder       string
	GameVersion  string
	SteamID      string
}

type gameHeader struct {
	OrganisationName string `json:"OrganisationName"`
	GameVersion      string `json:"GameVersion"`
}

// DefaultRoot returns the game's Saves directory under the user profile when
// it exists.
func DefaultRoot() (string, bool) {
	profile := os.Getenv("USERPROFILE")
	if profile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false
		}
		profile = home
	}
	root := filepath.Join(profile, "AppData", "LocalLow", "TVGS", "Schedule I", "Saves")
	if info, err := os.Stat(root); err == nil && info.IsDir() {
		return root, true
	}
	return "", false
}

// Discover lists the saves reachable from root. root may be the Saves
// directory, a single steam id folder or one save folder. Saves whose
// Game.json cannot be read are skipped with a warning.
func Discover(root string, logger *slog.Logger) ([]Info, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	var found []Info
	collect := func(savePath, steamID string) {
		hdr, err := readHeader(filepath.Join(savePath, gameFile))
		if err != nil {
			logger.Warn("skip unreadable save", "path", savePath, "error", err)
			return
		}
		found = append(found, Info{
			Path:         savePath,
			Organisation: orUnknown(hdr.OrganisationName),
			Folder:       filepath.Base(savePath),
			GameVersion:  orUnknown(hdr.GameVersion),
			SteamID:      steamID,
		})
	}

	if hasGameFile(root) {
		collect(root, filepath.Base(filepath.Dir(root)))
		return found, nil
	}
	children, err := subdirs(root)
	if err != nil {
		return nil, err
	}
	saves := make([]string, 0)
	for _, c := range children {
		if hasGameFile(c) {
			saves = append(saves, c)
		}
	}
	if len(saves) > 0 {
		for _, s := range saves {
			collect(s, filepath.Base(root))
		}
		return found, nil
	}
	for _, steamDir := range children {
		nested, err := subdirs(steamDir)
		if err != nil {
			logger.Warn("skip unreadable folder", "path", steamDir, "error", err)
			continue
		}
		for _, s := range nested {
			if hasGameFile(s) {
				collect(s, filepath.Base(steamDir))
			}
		}
	}
	return found, nil
}

func readHeader(path string) (gameHeader, error) {
	// #nosec G304 -- path is a Game.json inside a discovered save folder
	raw, err := os.ReadFile(path)
	if err != nil {
		return gameHeader{}, err
	}
	var hdr gameHeader
	if err := json.Unmarshal(raw, &hdr); err != nil {
		return gameHeader{}, err
	}
	return hdr, nil
}

func hasGameFile(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, gameFile))
	return err == nil && !info.IsDir()
}

func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

func orUnknown(v string) string {
	if v == "" {
		return unknownAttribute
	}
	return v
}
