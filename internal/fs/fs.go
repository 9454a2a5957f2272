// Package fs writes, links and removes unit files with atomic semantics.
package fs

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/mkunit/mkunit/internal/log"
)

// Permissions for generated files and the directories that hold them.
const (
	UnitFileMode iofs.FileMode = 0644
	UnitDirMode  iofs.FileMode = 0755
)

// ErrSymlinkUnsupported is returned when the filesystem cannot create symlinks.
var ErrSymlinkUnsupported = errors.New("filesystem does not support symlinks")

// Service provides file operations on unit files.
type Service struct {
	fs     afero.Fs
	logger log.Logger
}

// NewService creates a new filesystem service operating on fs.
func NewService(fs afero.Fs, logger log.Logger) *Service {
	return &Service{fs: fs, logger: logger}
}

// Fs returns the underlying filesystem.
func (s *Service) Fs() afero.Fs {
	return s.fs
}

// HasUnitChanged reports whether content differs from what is on disk at unitPath.
func (s *Service) HasUnitChanged(unitPath string, content []byte) bool {
	existing, err := afero.ReadFile(s.fs, unitPath)
	if err != nil {
		return true
	}

	s.logger.Debug("Content hash comparison",
		"existing", fmt.Sprintf("%x", ContentHash(existing)),
		"new", fmt.Sprintf("%x", ContentHash(content)),
		"path", unitPath)

	return !bytes.Equal(existing, content)
}

// WriteUnitFile atomically writes content to unitPath (temp file, fsync, rename)
// and reports whether anything changed on disk.
func (s *Service) WriteUnitFile(unitPath string, content []byte) (bool, error) {
	if !s.HasUnitChanged(unitPath, content) {
		s.logger.Debug("Unit unchanged, skipping", "path", unitPath)
		return false, nil
	}

	s.logger.Debug("Writing unit", "path", unitPath)
	if err := s.atomicWrite(unitPath, content, UnitFileMode); err != nil {
		return false, fmt.Errorf("writing unit %s: %w", unitPath, err)
	}
	return true, nil
}

func (s *Service) atomicWrite(targetPath string, content []byte, mode iofs.FileMode) error {
	parentDir := filepath.Dir(targetPath)
	if err := s.fs.MkdirAll(parentDir, UnitDirMode); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}

	tempFile, err := afero.TempFile(s.fs, parentDir, ".mkunit-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := tempFile.Name()

	cleanup := func() {
		_ = tempFile.Close()
		_ = s.fs.Remove(tempPath)
	}

	if _, err := tempFile.Write(content); err != nil {
		cleanup()
		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("syncing temp file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		_ = s.fs.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := s.fs.Chmod(tempPath, mode); err != nil {
		_ = s.fs.Remove(tempPath)
		return fmt.Errorf("setting permissions: %w", err)
	}

	if err := s.fs.Rename(tempPath, targetPath); err != nil {
		_ = s.fs.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// RemoveUnitFile deletes unitPath. A file that is already gone is not an error.
func (s *Service) RemoveUnitFile(unitPath string) error {
	if err := s.fs.Remove(unitPath); err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			s.logger.Debug("Unit already deleted", "path", unitPath)
			return nil
		}
		return fmt.Errorf("deleting unit %s: %w", unitPath, err)
	}
	s.logger.Debug("Unit deleted", "path", unitPath)
	return nil
}

// Readlink returns the target of the symlink at path.
func (s *Service) Readlink(path string) (string, error) {
	reader, ok := s.fs.(afero.LinkReader)
	if !ok {
		return "", ErrSymlinkUnsupported
	}
	return reader.ReadlinkIfPossible(path)
}

// Lexists reports whether anything, including a dangling symlink, exists at path.
func (s *Service) Lexists(path string) bool {
	if lstater, ok := s.fs.(afero.Lstater); ok {
		_, _, err := lstater.LstatIfPossible(path)
		return err == nil
	}
	_, err := s.fs.Stat(path)
	return err == nil
}

// Symlink creates link pointing at target, creating the parent directory first.
// With replace set an existing file or link at link is removed beforehand.
func (s *Service) Symlink(target, link string, replace bool) error {
	linker, ok := s.fs.(afero.Linker)
	if !ok {
		return ErrSymlinkUnsupported
	}

	if err := s.fs.MkdirAll(filepath.Dir(link), UnitDirMode); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}

	if replace && s.Lexists(link) {
		if err := s.fs.Remove(link); err != nil {
			return fmt.Errorf("removing existing %s: %w", link, err)
		}
	}

	s.logger.Debug("Linking unit", "target", target, "link", link)
	if err := linker.SymlinkIfPossible(target, link); err != nil {
		return fmt.Errorf("linking %s: %w", link, err)
	}
	return nil
}

// ModTime returns the modification time of path.
func (s *Service) ModTime(path string) (time.Time, error) {
	info, err := s.fs.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// ReadFile returns the content of path.
func (s *Service) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(s.fs, path)
}

// Exists reports whether path exists.
func (s *Service) Exists(path string) bool {
	ok, err := afero.Exists(s.fs, path)
	return err == nil && ok
}

// IsNotExist reports whether err means the file is missing.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

// ContentHash calculates a SHA256 hash for change detection.
func ContentHash(content []byte) []byte {
	hash := sha256.Sum256(content)
	return hash[:]
}
