// Package archive implements the Archive Codec component (spec §4.D): it
// writes and reads a ZIP-format container with per-file compression,
// preserving relative paths (with '/' separators regardless of host OS)
// and a fixed POSIX permission of 0o755.
package archive

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/fonsecajr/blk-engine/pkg/logging"
	"github.com/fonsecajr/blk-engine/pkg/must"
	"github.com/fonsecajr/blk-engine/pkg/pathutil"
)

// storedPermissions is the fixed permission recorded for every directory
// and file entry, per spec §4.D/§6.
const storedPermissions = 0o755

// largeFileThreshold is the size above which an entry needs the ZIP64
// format (spec §4.D, boundary behavior #9).
const largeFileThreshold = 1<<32 - 1

// Write walks sourceDir and stores its contents into a new ZIP archive at
// archivePath. Directories are stored as empty entries (except the source
// root itself); files are stored with per-file compression. Unreadable
// entries are skipped with a warning on logger rather than failing the
// write.
func Write(archivePath, sourceDir string, logger *logging.Logger) error {
	out, err := os.Create(archivePath)
	if err != nil {
		return errors.Wrap(err, "unable to create archive file")
	}
	defer must.Close(out, logger)

	writer := zip.NewWriter(out)
	defer must.Close(writer, logger)

	err = filepath.Walk(sourceDir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			logger.Warnf("unable to access %q while archiving: %s", path, walkErr.Error())
			return nil
		}
		if path == sourceDir {
			return nil
		}
		relPath, relErr := filepath.Rel(sourceDir, path)
		if relErr != nil {
			logger.Warnf("unable to relativize %q: %s", path, relErr.Error())
			return nil
		}
		name := pathutil.ToSlash(relPath)

		if info.IsDir() {
			return writeDirEntry(writer, name, info)
		}
		return writeFileEntry(writer, name, path, info, logger)
	})
	if err != nil {
		return errors.Wrap(err, "unable to walk source directory")
	}
	return nil
}

func writeDirEntry(writer *zip.Writer, name string, info os.FileInfo) error {
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return errors.Wrap(err, "unable to build directory header")
	}
	header.Name = name + "/"
	header.Method = zip.Store
	header.SetMode(storedPermissions | os.ModeDir)
	_, err = writer.CreateHeader(header)
	return err
}

func writeFileEntry(writer *zip.Writer, name, path string, info os.FileInfo, logger *logging.Logger) error {
	file, err := os.Open(path)
	if err != nil {
		logger.Warnf("unable to open %q while archiving: %s", path, err.Error())
		return nil
	}
	defer must.Close(file, logger)

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		logger.Warnf("unable to build header for %q: %s", path, err.Error())
		return nil
	}
	header.Name = name
	header.Method = zip.Deflate
	header.SetMode(storedPermissions)
	header.Modified = info.ModTime()
	if info.Size() > largeFileThreshold {
		// Bit 3 (0x8) is the data-descriptor flag, which archive/zip also
		// sets on every file entry it writes; the writer itself switches an
		// entry to the ZIP64 format once its sizes no longer fit in 32 bits.
		header.Flags |= 0x8
	}

	writerEntry, err := writer.CreateHeader(header)
	if err != nil {
		logger.Warnf("unable to create archive entry for %q: %s", path, err.Error())
		return nil
	}
	if _, err := io.Copy(writerEntry, file); err != nil {
		logger.Warnf("unable to copy %q into archive: %s", path, err.Error())
	}
	return nil
}

// Read extracts every entry in the archive at archivePath into destDir,
// creating parent directories as needed and reapplying the stored
// permission on POSIX systems. Entries whose name doesn't resolve to a
// path safely enclosed within destDir are skipped (guard against path
// escape, spec §4.D).
func Read(archivePath, destDir string, logger *logging.Logger) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return errors.Wrap(err, "unable to open archive")
	}
	defer must.Close(reader, logger)

	for _, entry := range reader.File {
		if err := extractEntry(entry, destDir, logger); err != nil {
			logger.Warnf("unable to extract %q: %s", entry.Name, err.Error())
		}
	}
	return nil
}

func extractEntry(entry *zip.File, destDir string, logger *logging.Logger) error {
	destPath, ok := safeJoin(destDir, entry.Name)
	if !ok {
		logger.Warnf("skipping archive entry with unsafe path %q", entry.Name)
		return nil
	}

	if strings.HasSuffix(entry.Name, "/") {
		return os.MkdirAll(destPath, storedPermissions)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), storedPermissions); err != nil {
		return errors.Wrap(err, "unable to create parent directory")
	}

	reader, err := entry.Open()
	if err != nil {
		return errors.Wrap(err, "unable to open archive entry")
	}
	defer must.Close(reader, logger)

	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, storedPermissions)
	if err != nil {
		return errors.Wrap(err, "unable to create destination file")
	}
	defer must.Close(out, logger)

	if _, err := io.Copy(out, reader); err != nil {
		return errors.Wrap(err, "unable to write destination file")
	}

	applyPermissions(destPath, storedPermissions, logger)
	return nil
}

// safeJoin joins destDir with name (a '/'-separated archive entry name)
// and reports ok=false if the resulting path would escape destDir.
func safeJoin(destDir, name string) (string, bool) {
	cleanName := filepath.Clean(filepath.FromSlash(name))
	if strings.HasPrefix(name, "/") || filepath.IsAbs(cleanName) {
		return "", false
	}
	joined := filepath.Join(destDir, cleanName)
	destDirClean := filepath.Clean(destDir)
	if joined != destDirClean && !strings.HasPrefix(joined, destDirClean+string(filepath.Separator)) {
		return "", false
	}
	return joined, true
}
