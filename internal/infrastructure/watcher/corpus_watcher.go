package watcher

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bookchat/backend/internal/domain/events"
	"github.com/bookchat/backend/internal/infrastructure/config"
	"github.com/bookchat/backend/internal/infrastructure/log"
)

// WatchConfig CorpusWatcher 配置
type WatchConfig struct {
	// CorpusDir 语料根目录
	CorpusDir string
	// DebounceDelay 防抖延迟，爬虫逐行追加 CSV 时避免每次写入都触发
	DebounceDelay time.Duration
}

// NewWatchConfig 从应用配置构建监听配置
func NewWatchConfig(cfg *config.CorpusConfig) WatchConfig {
	debounce := time.Duration(cfg.WatchDebounceMs) * time.Millisecond
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	return WatchConfig{
		CorpusDir:     cfg.Dir,
		DebounceDelay: debounce,
	}
}

// CorpusWatcher 语料目录监听器
// 监听语料根目录及各类目子目录下的 CSV 变更，防抖后发布事件
type CorpusWatcher struct {
	config   WatchConfig
	eventBus events.EventBus
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewCorpusWatcher 创建语料监听器
func NewCorpusWatcher(config WatchConfig, eventBus events.EventBus) (*CorpusWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &CorpusWatcher{
		config:         config,
		eventBus:       eventBus,
		watcher:        watcher,
		logger:         log.NewModuleLogger("watcher", "corpus_watcher"),
		debounceTimers: make(map[string]*time.Timer),
		stopCh:         make(chan struct{}),
	}, nil
}

// Start 启动监听
func (cw *CorpusWatcher) Start() error {
	cw.logger.Info("Starting corpus watcher",
		"corpus_dir", cw.config.CorpusDir,
		"debounce", cw.config.DebounceDelay,
	)

	if err := cw.addWatchDirs(); err != nil {
		return err
	}

	cw.wg.Add(1)
	go cw.watchLoop()

	return nil
}

// Stop 停止监听
func (cw *CorpusWatcher) Stop() {
	cw.logger.Info("Stopping corpus watcher")

	close(cw.stopCh)
	cw.watcher.Close()
	cw.wg.Wait()

	cw.debounceMu.Lock()
	for _, timer := range cw.debounceTimers {
		timer.Stop()
	}
	cw.debounceMu.Unlock()

	cw.logger.Info("Corpus watcher stopped")
}

// addWatchDirs 添加语料根目录及各类目子目录
func (cw *CorpusWatcher) addWatchDirs() error {
	if err := cw.watcher.Add(cw.config.CorpusDir); err != nil {
		return err
	}

	entries, err := os.ReadDir(cw.config.CorpusDir)
	if err != nil {
		// 根目录已加监听，子目录读不到时等创建事件补上
		cw.logger.Warn("Failed to read corpus directory", "error", err)
		return nil
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(cw.config.CorpusDir, entry.Name())
		if err := cw.watcher.Add(path); err != nil {
			cw.logger.Debug("Failed to add category directory to watch",
				"path", path,
				"error", err,
			)
		} else {
			cw.logger.Debug("Added category directory to watch", "path", path)
		}
	}

	return nil
}

// watchLoop 事件监听循环
func (cw *CorpusWatcher) watchLoop() {
	defer cw.wg.Done()

	for {
		select {
		case <-cw.stopCh:
			return

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			cw.handleFsEvent(event)

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Error("Watcher error", "error", err)
		}
	}
}

// handleFsEvent 处理文件系统事件
func (cw *CorpusWatcher) handleFsEvent(event fsnotify.Event) {
	if isCSVFile(event.Name) {
		cw.handleCorpusFileEvent(event)
		return
	}

	// 新建的类目子目录需要补充监听
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := cw.watcher.Add(event.Name); err != nil {
				cw.logger.Debug("Failed to watch new category directory",
					"path", event.Name,
					"error", err,
				)
			}
		}
	}
}

// isCSVFile 判断是否为语料 CSV 文件
func isCSVFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

// handleCorpusFileEvent 处理语料文件事件（带防抖）
func (cw *CorpusWatcher) handleCorpusFileEvent(fsEvent fsnotify.Event) {
	cw.debounceMu.Lock()
	defer cw.debounceMu.Unlock()

	if timer, exists := cw.debounceTimers[fsEvent.Name]; exists {
		timer.Stop()
	}

	cw.debounceTimers[fsEvent.Name] = time.AfterFunc(cw.config.DebounceDelay, func() {
		cw.emitCorpusFileEvent(fsEvent)

		cw.debounceMu.Lock()
		delete(cw.debounceTimers, fsEvent.Name)
		cw.debounceMu.Unlock()
	})
}

// emitCorpusFileEvent 发送语料文件事件
func (cw *CorpusWatcher) emitCorpusFileEvent(fsEvent fsnotify.Event) {
	var eventType events.EventType
	switch {
	case fsEvent.Has(fsnotify.Create):
		eventType = events.CorpusFileCreated
	case fsEvent.Has(fsnotify.Write):
		eventType = events.CorpusFileModified
	case fsEvent.Has(fsnotify.Remove), fsEvent.Has(fsnotify.Rename):
		eventType = events.CorpusFileDeleted
	default:
		return
	}

	var modTime time.Time
	if fileInfo, err := os.Stat(fsEvent.Name); err == nil {
		modTime = fileInfo.ModTime()
	}

	cw.eventBus.Publish(&events.CorpusFileEvent{
		EventType: eventType,
		Category:  filepath.Base(filepath.Dir(fsEvent.Name)),
		FilePath:  fsEvent.Name,
		ModTime:   modTime,
		EventTime: time.Now(),
	})

	cw.logger.Debug("Corpus file event emitted",
		"type", eventType,
		"path", fsEvent.Name,
	)
}
