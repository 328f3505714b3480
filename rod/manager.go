package rod

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/fwojciec/sitecrawl"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the default number of pages before browser recycling.
const DefaultMaxPages = 75

// BrowserManager hands out a shared headless Chrome to concurrent crawl
// workers and replaces it after a number of pages, since Chrome's memory
// use only grows over a long crawl.
//
// A replaced browser stays open until the last page acquired from it is
// released, so recycling never interrupts a fetch in flight.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	current  *instance
	maxPages int
	bin      string
	logger   *slog.Logger
	closed   bool
}

// instance is one launched browser process.
type instance struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	pages    int
	inflight int
	retired  bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets the number of pages served by one browser before it is
// replaced. Defaults to DefaultMaxPages.
func WithMaxPages(n int) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// WithBrowserBin launches the Chrome binary at path instead of the one
// found or downloaded by the launcher.
func WithBrowserBin(path string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.bin = path
	}
}

// WithManagerLogger logs browser launches and recycling.
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(bm *BrowserManager) {
		bm.logger = logger
	}
}

// NewBrowserManager launches a headless Chrome browser.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		maxPages: DefaultMaxPages,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(bm)
	}
	if bm.maxPages <= 0 {
		bm.maxPages = DefaultMaxPages
	}
	if bm.logger == nil {
		bm.logger = slog.New(slog.DiscardHandler)
	}

	inst, err := launch(bm.bin)
	if err != nil {
		return nil, err
	}
	bm.current = inst
	bm.logger.Debug("browser launched", "pid", inst.launcher.PID())

	return bm, nil
}

// Acquire returns the browser to open one page on and a release func that
// must be called once the page is closed. The browser is replaced first if
// it has already served maxPages pages.
func (bm *BrowserManager) Acquire() (*rod.Browser, func(), error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil, nil, sitecrawl.Errorf(sitecrawl.EINVALID, "browser manager is closed")
	}

	if bm.current.pages >= bm.maxPages {
		bm.recycle()
	}

	inst := bm.current
	inst.pages++
	inst.inflight++

	var once sync.Once
	release := func() {
		once.Do(func() { bm.release(inst) })
	}
	return inst.browser, release, nil
}

// Close shuts down the current browser, including pages still in flight.
// Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true
	bm.current.retired = true
	return bm.current.shutdown()
}

// LauncherPID returns the process ID of the current browser launcher.
// It returns 0 after Close.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.current == nil || bm.current.launcher == nil {
		return 0
	}
	return bm.current.launcher.PID()
}

func (bm *BrowserManager) release(inst *instance) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	inst.inflight--
	if inst.retired && inst.inflight == 0 {
		_ = inst.shutdown()
	}
}

// recycle replaces the current browser. If the new browser cannot be
// launched the current one is kept and recycling is retried on the next
// Acquire. Must be called with mu held.
func (bm *BrowserManager) recycle() {
	next, err := launch(bm.bin)
	if err != nil {
		bm.logger.Warn("browser recycle failed, keeping current browser", "err", err)
		return
	}

	old := bm.current
	bm.current = next
	old.retired = true
	if old.inflight == 0 {
		_ = old.shutdown()
	}
	bm.logger.Debug("browser recycled", "pages", old.pages, "inflight", old.inflight, "pid", next.launcher.PID())
}

// launch starts a browser with flags that keep background pages from being
// throttled.
func launch(bin string) (*instance, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)
	if bin != "" {
		l = l.Bin(bin)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &instance{browser: browser, launcher: l}, nil
}

// shutdown closes the browser and kills its launcher. It is a no-op once
// the instance is down.
func (i *instance) shutdown() error {
	var err error
	if i.browser != nil {
		err = i.browser.Close()
		i.browser = nil
	}
	if i.launcher != nil {
		i.launcher.Kill()
		i.launcher = nil
	}
	return err
}
