package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/modelrenderer/engine/assets/loaders"
	"github.com/spaghettifunk/modelrenderer/engine/core"
	"github.com/spaghettifunk/modelrenderer/engine/renderer/model"
)

type AssetInfo struct {
	Path       string
	Type       loaders.ResourceType
	LastLoaded time.Time
}

/**
 * @brief Indexes model definition files under a directory, caches loaded
 * definitions and reloads them when the files change on disk.
 *
 * The watcher goroutine only records changed paths. Cache invalidation and
 * events happen in ProcessEvents, which runs on the render thread.
 */
type AssetManager struct {
	events *core.EventSystem

	assets  map[string]AssetInfo
	loaders map[loaders.ResourceType]Loader
	loaded  map[string]*model.Definition
	changed map[string]struct{}

	mutex sync.RWMutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
}

func NewAssetManager(events *core.EventSystem) *AssetManager {
	am := &AssetManager{
		events:  events,
		assets:  make(map[string]AssetInfo),
		loaders: make(map[loaders.ResourceType]Loader),
		loaded:  make(map[string]*model.Definition),
		changed: make(map[string]struct{}),
	}
	am.registerLoader(loaders.ResourceTypeModelDefinition, &loaders.ModelDefinitionLoader{})
	return am
}

// Initialize indexes assetsDir and, when watch is set, starts watching it.
func (am *AssetManager) Initialize(assetsDir string, watch bool) error {
	if !watch {
		return am.watchRecursive(assetsDir, false)
	}

	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	am.fsnotify = fsWatch
	am.done = make(chan struct{})
	am.stopped = make(chan struct{})
	if err := am.watchRecursive(assetsDir, true); err != nil {
		fsWatch.Close()
		am.fsnotify = nil
		return err
	}
	go am.start()
	return nil
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType loaders.ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

// LoadModelDefinition returns the cached definition called name, loading it
// from disk on first request.
func (am *AssetManager) LoadModelDefinition(name string) (*model.Definition, error) {
	am.mutex.RLock()
	def, cached := am.loaded[name]
	am.mutex.RUnlock()
	if cached {
		return def, nil
	}

	res, err := am.loadAsset(name, loaders.ResourceTypeModelDefinition, nil)
	if err != nil {
		return nil, err
	}
	def = res.Data.(*model.Definition)

	am.mutex.Lock()
	am.loaded[name] = def
	am.mutex.Unlock()
	core.LogInfo("loaded model definition '%s' from %s", name, res.FullPath)
	return def, nil
}

func (am *AssetManager) loadAsset(name string, resourceType loaders.ResourceType, params interface{}) (*loaders.Resource, error) {
	am.mutex.Lock()
	asset, exists := am.assets[name]
	if exists {
		asset.LastLoaded = time.Now()
		am.assets[name] = asset
	}
	am.mutex.Unlock()
	if !exists || asset.Type != resourceType {
		return nil, fmt.Errorf("%w: %s", core.ErrAssetNotFound, name)
	}

	loader, ok := am.loaders[asset.Type]
	if !ok {
		return nil, fmt.Errorf("no loader registered for asset type: %d", asset.Type)
	}
	return loader.Load(asset.Path, params)
}

// UnloadModelDefinition drops name from the cache and fires
// EVENT_CODE_MODELDEF_UNLOADED. It reports whether name was loaded.
func (am *AssetManager) UnloadModelDefinition(name string) bool {
	am.mutex.Lock()
	def, ok := am.loaded[name]
	delete(am.loaded, name)
	am.mutex.Unlock()
	if !ok {
		return false
	}
	if am.events != nil {
		am.events.Fire(core.EVENT_CODE_MODELDEF_UNLOADED, am, core.EventContext{Name: name, Payload: def})
	}
	return true
}

// ProcessEvents applies file changes seen since the last call. Changed
// definitions that were loaded are unloaded and, if the file still exists,
// loaded again and announced with EVENT_CODE_MODELDEF_RELOADED. It returns
// the number of changed assets.
func (am *AssetManager) ProcessEvents() int {
	am.mutex.Lock()
	changed := am.changed
	am.changed = make(map[string]struct{})
	am.mutex.Unlock()

	for name := range changed {
		if !am.UnloadModelDefinition(name) {
			continue
		}
		def, err := am.LoadModelDefinition(name)
		if err != nil {
			if !errors.Is(err, core.ErrAssetNotFound) {
				core.LogError("failed to reload model definition '%s': %s", name, err.Error())
			}
			continue
		}
		if am.events != nil {
			am.events.Fire(core.EVENT_CODE_MODELDEF_RELOADED, am, core.EventContext{Name: name, Payload: def})
		}
	}
	return len(changed)
}

// Names returns the indexed asset names.
func (am *AssetManager) Names() []string {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	names := make([]string, 0, len(am.assets))
	for name := range am.assets {
		names = append(names, name)
	}
	return names
}

func (am *AssetManager) Shutdown() error {
	if am.fsnotify == nil || am.isClosed {
		return nil
	}
	am.isClosed = true
	close(am.done)
	<-am.stopped
	return nil
}

func (am *AssetManager) start() {
	defer close(am.stopped)
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					am.watchRecursive(e.Name, true)
				}
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				am.handleFileEvent(e.Name)
			}
			// a rename away looks like a remove to the watched dir
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				am.removeAsset(e.Name)
			}

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(err.Error())

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

// watchRecursive indexes every file under path and, if watch is set, adds
// every directory to the watch list.
func (am *AssetManager) watchRecursive(path string, watch bool) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if watch {
				return am.fsnotify.Add(walkPath)
			}
			return nil
		}
		am.indexAsset(walkPath)
		return nil
	})
}

// indexAsset records path in the asset index and returns its name. It
// reports false for files that are not assets.
func (am *AssetManager) indexAsset(path string) (string, bool) {
	assetType := determineAssetType(path)
	if assetType == loaders.ResourceTypeNone {
		return "", false
	}
	name := loaders.NameFromPath(path)

	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.assets[name] = AssetInfo{
		Path: path,
		Type: assetType,
	}
	return name, true
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) {
	name, ok := am.indexAsset(path)
	if !ok {
		return
	}
	am.mutex.Lock()
	am.changed[name] = struct{}{}
	am.mutex.Unlock()
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	if determineAssetType(path) == loaders.ResourceTypeNone {
		return
	}
	name := loaders.NameFromPath(path)

	am.mutex.Lock()
	defer am.mutex.Unlock()
	if info, ok := am.assets[name]; ok && info.Path == path {
		delete(am.assets, name)
	}
	am.changed[name] = struct{}{}
}

func determineAssetType(path string) loaders.ResourceType {
	if strings.HasSuffix(path, loaders.ModelDefinitionExt) {
		return loaders.ResourceTypeModelDefinition
	}
	return loaders.ResourceTypeNone
}
