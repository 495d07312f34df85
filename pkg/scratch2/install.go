// Package scratch2 registers an extension with the Scratch 2 offline editor.
package scratch2

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/teslashibe/go-botblocks/internal/log"
)

const (
	// DefaultRoot is where Raspbian installs the editor.
	DefaultRoot = "/usr/lib/scratch2"

	// BackupLayout is appended to the registry path for the backup.
	BackupLayout = "2006-01-02_15-04-05"

	extensionsDir = "scratch_extensions"
	mediaDir      = "medialibrarythumbnails"
	registryFile  = "extensions.json"
)

// ErrMissingSource is returned when the script or thumbnail is not set.
var ErrMissingSource = errors.New("scratch2: script and thumbnail are required")

// Entry is one extension in extensions.json.
type Entry struct {
	Name string   `json:"name"`
	Type string   `json:"type"`
	File string   `json:"file"`
	MD5  string   `json:"md5"`
	URL  string   `json:"url"`
	Tags []string `json:"tags"`
}

// Installer copies an extension into the editor and registers it.
type Installer struct {
	// Root is the editor installation directory.
	Root string

	// Name is the extension name; an existing entry with it is replaced.
	Name string

	// Script and Thumbnail are the source files to copy.
	Script    string
	Thumbnail string

	// URL is the robot server the extension talks to.
	URL string

	Now    func() time.Time
	Logger *slog.Logger
}

// Result reports what Install did.
type Result struct {
	Registry string
	Backup   string
	Kept     []string
	Replaced bool
}

// RegistryPath returns the path of extensions.json.
func (in Installer) RegistryPath() string {
	return filepath.Join(in.root(), extensionsDir, registryFile)
}

func (in Installer) root() string {
	if in.Root == "" {
		return DefaultRoot
	}
	return in.Root
}

// Entry returns the registry entry Install writes.
func (in Installer) Entry() Entry {
	return Entry{
		Name: in.Name,
		Type: "extension",
		File: filepath.Base(in.Script),
		MD5:  filepath.Base(in.Thumbnail),
		URL:  in.URL,
		Tags: []string{"hardware"},
	}
}

// Install checks both source files exist, then rewrites the registry with every existing entry except one named
// in.Name, followed by the new entry. The old registry is moved to a
// timestamped backup, then the script and thumbnail are copied into place.
func (in Installer) Install() (Result, error) {
	if in.Script == "" || in.Thumbnail == "" {
		return Result{}, ErrMissingSource
	}
	for _, src := range []string{in.Script, in.Thumbnail} {
		if _, err := os.Stat(src); err != nil {
			return Result{}, fmt.Errorf("scratch2: %w", err)
		}
	}
	logger := in.Logger
	if logger == nil {
		logger = log.L()
	}
	now := time.Now
	if in.Now != nil {
		now = in.Now
	}

	res := Result{Registry: in.RegistryPath()}

	logger.Info("reading registry", "path", res.Registry)
	raw, err := os.ReadFile(res.Registry)
	if err != nil {
		return res, fmt.Errorf("scratch2: read registry: %w", err)
	}
	var existing []json.RawMessage
	if err := json.Unmarshal(raw, &existing); err != nil {
		return res, fmt.Errorf("scratch2: parse registry: %w", err)
	}

	updated := make([]any, 0, len(existing)+1)
	for _, item := range existing {
		var head struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(item, &head); err != nil {
			return res, fmt.Errorf("scratch2: parse registry entry: %w", err)
		}
		if head.Name == in.Name {
			logger.Info("skipping existing extension", "name", head.Name)
			res.Replaced = true
			continue
		}
		logger.Debug("keeping extension", "name", head.Name)
		res.Kept = append(res.Kept, head.Name)
		updated = append(updated, item)
	}
	updated = append(updated, in.Entry())

	data, err := json.Marshal(updated)
	if err != nil {
		return res, fmt.Errorf("scratch2: encode registry: %w", err)
	}

	res.Backup = res.Registry + ".backup_" + now().Format(BackupLayout)
	logger.Info("creating backup", "path", res.Backup)
	if err := os.Rename(res.Registry, res.Backup); err != nil {
		return res, fmt.Errorf("scratch2: backup registry: %w", err)
	}

	logger.Info("writing registry", "path", res.Registry)
	if err := os.WriteFile(res.Registry, data, 0o644); err != nil {
		return res, fmt.Errorf("scratch2: write registry: %w", err)
	}

	script := filepath.Join(in.root(), extensionsDir, filepath.Base(in.Script))
	if err := copyFile(in.Script, script); err != nil {
		return res, err
	}
	logger.Info("wrote extension script", "path", script)

	thumb := filepath.Join(in.root(), mediaDir, filepath.Base(in.Thumbnail))
	if err := copyFile(in.Thumbnail, thumb); err != nil {
		return res, err
	}
	logger.Info("wrote thumbnail", "path", thumb)

	return res, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("scratch2: open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("scratch2: create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("scratch2: copy to %s: %w", dst, err)
	}
	return out.Close()
}
