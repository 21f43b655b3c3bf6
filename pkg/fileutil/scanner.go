package fileutil

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/grendel/noprints/internal/logging"
)

// Extensions of files worth classifying
var supportedExts = map[string]bool{
	".txt":  true,
	".md":   true,
	".rtf":  true,
	".csv":  true,
	".json": true,
	".xml":  true,
	".html": true,
	".htm":  true,
	".log":  true,
	".cfg":  true,
	".conf": true,
	".ini":  true,
	".env":  true,
	".yaml": true,
	".yml":  true,
	".toml": true,
	".pem":  true,
	".key":  true,
	".pub":  true,
}

// Scanner collects the text files under a set of paths
type Scanner struct {
	isRecursive     bool
	numWorkers      int
	maxFileSize     int64 // bytes
	skipHiddenFiles bool
	excludePatterns []string
}

// NewScanner creates a Scanner. Non-positive workers use one per CPU.
func NewScanner(isRecursive bool, numWorkers int, maxFileSize int64) *Scanner {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Scanner{
		isRecursive:     isRecursive,
		numWorkers:      numWorkers,
		maxFileSize:     maxFileSize,
		skipHiddenFiles: true,
	}
}

// SetExcludePatterns sets base name globs to skip
func (s *Scanner) SetExcludePatterns(patterns []string) {
	s.excludePatterns = patterns
}

// SetSkipHiddenFiles configures whether dot files and directories are skipped
func (s *Scanner) SetSkipHiddenFiles(skip bool) {
	s.skipHiddenFiles = skip
}

func (s *Scanner) isExcluded(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range s.excludePatterns {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return s.skipHiddenFiles && strings.HasPrefix(base, ".") && base != "." && base != ".."
}

// Collect returns the sorted text files found under paths. Files named
// explicitly are taken as long as they are text, whatever their extension.
func (s *Scanner) Collect(paths ...string) ([]string, error) {
	var candidates []string
	explicit := make(map[string]bool)

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("error accessing %s: %w", root, err)
		}
		if !info.IsDir() {
			candidates = append(candidates, root)
			explicit[root] = true
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				logging.Warnf("error accessing %s: %v", path, err)
				return nil
			}
			if path != root && s.isExcluded(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if path != root && !s.isRecursive {
					return filepath.SkipDir
				}
				return nil
			}
			if supportedExts[strings.ToLower(filepath.Ext(path))] {
				candidates = append(candidates, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error walking %s: %w", root, err)
		}
	}

	return s.filter(candidates, explicit), nil
}

// filter keeps the candidates that are small enough and look like text
func (s *Scanner) filter(paths []string, explicit map[string]bool) []string {
	var (
		valid = make([]string, 0, len(paths))
		mu    sync.Mutex
		wg    sync.WaitGroup
		jobs  = make(chan string)
	)

	workers := min(s.numWorkers, len(paths))
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				ok, err := s.validateFile(path, explicit[path])
				if err != nil {
					logging.Warnf("skipping %s: %v", path, err)
					continue
				}
				if ok {
					mu.Lock()
					valid = append(valid, path)
					mu.Unlock()
				}
			}
		}()
	}
	for _, path := range paths {
		jobs <- path
	}
	close(jobs)
	wg.Wait()

	sort.Strings(valid)
	return valid
}

func (s *Scanner) validateFile(path string, explicit bool) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}
	if s.maxFileSize > 0 && info.Size() > s.maxFileSize {
		logging.Debugf("skipping file larger than size limit: %s (%d bytes)", path, info.Size())
		return false, nil
	}
	if !explicit && !supportedExts[strings.ToLower(filepath.Ext(path))] {
		return false, nil
	}
	return IsTextFile(path)
}

// IsTextFile samples the first 8KB of a file and reports whether it looks
// like text. Bytes above 0x7f count as text so UTF-8 content passes.
func IsTextFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	sample := make([]byte, 8*1024)
	n, err := f.Read(sample)
	if n == 0 {
		if err != nil && err != io.EOF {
			return false, err
		}
		return false, nil
	}
	sample = sample[:n]

	nulls, control := 0, 0
	for _, b := range sample {
		switch {
		case b == 0:
			nulls++
		case b < 32 && (b < 8 || b > 13), b == 127:
			control++
		}
	}
	if nulls > n/20 {
		return false, nil
	}
	return control <= n*3/10, nil
}
