package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/materia/engine/core"
)

/**
 * @brief One named shader source: opaque vertex/fragment program text.
 * The generation increments every time the text is (re)loaded, so effects
 * compiled from an older generation can be detected as stale.
 */
type ShaderSource struct {
	Name           string
	VertexSource   string
	FragmentSource string
	Generation     uint64
	LastLoaded     time.Time
}

/**
 * @brief ShaderStore is the shader source provider. Sources are either
 * registered in code or loaded from a watched directory, where editing a
 * .vert/.frag pair hot-reloads the text and bumps its generation.
 */
type ShaderStore struct {
	sources map[string]*ShaderSource

	mutex sync.RWMutex

	done     chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
}

func NewShaderStore() (*ShaderStore, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ss := &ShaderStore{
		sources:  make(map[string]*ShaderSource),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}
	go ss.start()

	return ss, nil
}

// RegisterSource stores (or replaces) a named source from in-memory text,
// bumping its generation.
func (ss *ShaderStore) RegisterSource(name, vertexSource, fragmentSource string) error {
	if ss.isClosed {
		return core.ErrStoreClosed
	}
	ss.mutex.Lock()
	defer ss.mutex.Unlock()

	src, exists := ss.sources[name]
	if !exists {
		src = &ShaderSource{Name: name}
		ss.sources[name] = src
	}
	src.VertexSource = vertexSource
	src.FragmentSource = fragmentSource
	src.Generation++
	src.LastLoaded = time.Now()
	return nil
}

// WatchDirectory loads every .vert/.frag pair under dir and keeps
// watching it for changes.
func (ss *ShaderStore) WatchDirectory(dir string) error {
	if ss.isClosed {
		return core.ErrStoreClosed
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := ss.loadFile(filepath.Join(dir, entry.Name())); err != nil {
			core.LogWarn("shader store: skipping '%s': %s", entry.Name(), err.Error())
		}
	}

	return ss.fsnotify.Add(dir)
}

// Get returns a snapshot of the named source.
func (ss *ShaderStore) Get(name string) (ShaderSource, error) {
	ss.mutex.RLock()
	defer ss.mutex.RUnlock()

	src, exists := ss.sources[name]
	if !exists {
		return ShaderSource{}, fmt.Errorf("shader source '%s' not registered", name)
	}
	return *src, nil
}

// Generation returns the current generation of the named source, or 0 if
// the source is unknown.
func (ss *ShaderStore) Generation(name string) uint64 {
	ss.mutex.RLock()
	defer ss.mutex.RUnlock()

	if src, exists := ss.sources[name]; exists {
		return src.Generation
	}
	return 0
}

func (ss *ShaderStore) Shutdown() error {
	if ss.isClosed {
		return core.ErrStoreClosed
	}
	ss.isClosed = true
	close(ss.done)
	return nil
}

func (ss *ShaderStore) start() {
	for {
		select {
		case e := <-ss.fsnotify.Events:
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				if err := ss.loadFile(e.Name); err != nil {
					core.LogError("shader store: reload of '%s' failed: %s", e.Name, err.Error())
				}
			}

		case e := <-ss.fsnotify.Errors:
			if e != nil {
				core.LogError(e.Error())
			}

		case <-ss.done:
			ss.fsnotify.Close()
			return
		}
	}
}

// loadFile (re)loads one stage of a named source from disk. The stage is
// derived from the file extension; the sibling stage keeps its text.
func (ss *ShaderStore) loadFile(path string) error {
	ext := filepath.Ext(path)
	if ext != ".vert" && ext != ".frag" {
		return fmt.Errorf("unsupported shader file extension '%s'", ext)
	}
	name := strings.TrimSuffix(filepath.Base(path), ext)

	text, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	ss.mutex.Lock()
	defer ss.mutex.Unlock()

	src, exists := ss.sources[name]
	if !exists {
		src = &ShaderSource{Name: name}
		ss.sources[name] = src
	}
	if ext == ".vert" {
		src.VertexSource = string(text)
	} else {
		src.FragmentSource = string(text)
	}
	src.Generation++
	src.LastLoaded = time.Now()

	core.LogDebug("shader store: loaded '%s' stage '%s' (generation %d)", name, ext, src.Generation)
	return nil
}
