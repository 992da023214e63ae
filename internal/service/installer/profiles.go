package installer

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	defaultPersona = "sam"
	defaultHuman   = "basic"
)

//go:embed profiles
var profilesFS embed.FS

// writeProfiles copies the bundled persona and human profiles into the
// runtime directory. Existing files are left alone.
func writeProfiles(runtimePath string) ([]string, error) {
	var written []string

	err := fs.WalkDir(profilesFS, "profiles", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		rel, err := filepath.Rel("profiles", filepath.FromSlash(path))
		if err != nil {
			return err
		}
		dst := filepath.Join(runtimePath, rel)

		if _, err := os.Stat(dst); err == nil {
			return nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}

		data, err := profilesFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read embedded %s: %w", path, err)
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", dst, err)
		}
		written = append(written, dst)
		return nil
	})
	return written, err
}
