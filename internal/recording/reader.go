package recording

import (
	"fmt"
	"sort"
	"sync"

	"github.com/m-wu/EMDAT/internal/fsutil"
	"github.com/m-wu/EMDAT/internal/gaze"
)

// Reader parses the three raw streams of one eye tracker format.
type Reader interface {
	ReadAllData(path string) ([]gaze.Datapoint, error)
	ReadFixationData(path string) ([]gaze.Fixation, error)
	ReadEventData(path string) ([]gaze.Event, error)
}

// ReaderFactory builds a Reader on top of a filesystem.
type ReaderFactory func(fsys fsutil.FileSystem) Reader

var (
	readersMu sync.RWMutex
	readers   = map[string]ReaderFactory{
		"tsv": func(fsys fsutil.FileSystem) Reader { return &TSVReader{FS: fsys} },
	}
)

// RegisterReader makes a reader format selectable by name. A format with
// the same name is replaced.
func RegisterReader(name string, f ReaderFactory) {
	readersMu.Lock()
	defer readersMu.Unlock()
	readers[name] = f
}

// NewReader returns the reader registered under name.
func NewReader(name string, fsys fsutil.FileSystem) (Reader, error) {
	readersMu.RLock()
	defer readersMu.RUnlock()
	f, ok := readers[name]
	if !ok {
		return nil, fmt.Errorf("unknown reader %q (have %v)", name, readerNames())
	}
	return f(fsys), nil
}

// ReaderNames lists the registered formats.
func ReaderNames() []string {
	readersMu.RLock()
	defer readersMu.RUnlock()
	return readerNames()
}

func readerNames() []string {
	names := make([]string, 0, len(readers))
	for n := range readers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
