package utils

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/types"
)

// DefaultUtils provides a default implementation for the types.Utils interface.
// It includes a standard logger and generates paths for journals and snapshots.
type DefaultUtils struct {
	logger      *slog.Logger
	journalDir  string
	snapshotDir string
}

var _ types.Utils = (*DefaultUtils)(nil)

// NewDefaultUtils creates a new DefaultUtils.
// It takes the base directories for journal and snapshot files as arguments.
func NewDefaultUtils(journalDir, snapshotDir string, logLevel slog.Level, writer io.Writer) *DefaultUtils {
	if writer == nil {
		writer = os.Stdout
	}
	return &DefaultUtils{
		logger:      slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{Level: logLevel})),
		journalDir:  journalDir,
		snapshotDir: snapshotDir,
	}
}

// GetLogger returns the logger instance.
func (u *DefaultUtils) GetLogger() *slog.Logger {
	return u.logger
}

// GenSnapshotPath returns the fixed snapshot path, or nil when snapshots are disabled.
func (u *DefaultUtils) GenSnapshotPath() *string {
	if u.snapshotDir == "" {
		return nil
	}
	path := filepath.Join(u.snapshotDir, "snapshot.json")
	return &path
}

// GenRotatedJournalPath returns the path of the next journal file, or nil
// when rotation is disabled.
func (u *DefaultUtils) GenRotatedJournalPath() *string {
	if u.journalDir == "" {
		return nil
	}
	path, _, err := u.GenNextJournalPath()
	if err != nil {
		if u.logger != nil {
			u.logger.Error("failed to generate rotated journal path", "error", err)
		}
		return nil
	}
	return &path
}

// GetJournalFiles scans the journal directory and returns the journal paths sorted by sequence number.
func (u *DefaultUtils) GetJournalFiles() ([]string, error) {
	if u.journalDir == "" {
		return []string{}, nil
	}

	files, err := os.ReadDir(u.journalDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal directory: %w", err)
	}

	var journalFiles []string
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		if strings.HasPrefix(file.Name(), types.JournalBaseName+".") {
			journalFiles = append(journalFiles, file.Name())
		}
	}

	sort.Slice(journalFiles, func(i, j int) bool {
		return seqOf(journalFiles[i]) < seqOf(journalFiles[j])
	})

	for i, file := range journalFiles {
		journalFiles[i] = filepath.Join(u.journalDir, file)
	}
	return journalFiles, nil
}

// GenNextJournalPath determines the next journal sequence number and returns the corresponding path.
func (u *DefaultUtils) GenNextJournalPath() (string, uint64, error) {
	journalFiles, err := u.GetJournalFiles()
	if err != nil {
		return "", 0, err
	}

	if len(journalFiles) == 0 {
		return JournalPath(u.journalDir, 0), 0, nil
	}

	lastFile := journalFiles[len(journalFiles)-1]
	ext := strings.TrimPrefix(filepath.Ext(lastFile), ".")
	lastSeq, err := strconv.ParseUint(ext, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid journal file name format: %s", lastFile)
	}

	nextSeq := lastSeq + 1
	return JournalPath(u.journalDir, nextSeq), nextSeq, nil
}

// JournalPath is <dir>/journal.log.<seq>.
func JournalPath(dir string, seq uint64) string {
	return filepath.Join(dir, fmt.Sprintf("%s.%03d", types.JournalBaseName, seq))
}

// SeqFromJournalPath parses the sequence suffix of a journal file name.
func SeqFromJournalPath(path string) (uint64, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	return strconv.ParseUint(ext, 10, 64)
}

func seqOf(name string) uint64 {
	seq, _ := SeqFromJournalPath(name)
	return seq
}

// ReadFileContent reads a file and trims the zero padding left by mmap storage.
func ReadFileContent(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(data, "\x00"), nil
}
