package rod

import (
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// browser is one launched Chrome process and the pages it has served.
// Its fields are guarded by the owning Fetcher's mutex.
type browser struct {
	rod      *rod.Browser
	launcher *launcher.Launcher

	served   int64
	inflight int
	retired  bool
}

// launch starts headless Chrome with background throttling disabled, so
// results pages opened in parallel tabs render at full speed.
func launch() (*browser, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return &browser{rod: b, launcher: l}, nil
}

// close shuts the browser down and kills its process. Safe to call twice.
func (b *browser) close() error {
	var err error
	if b.rod != nil {
		err = b.rod.Close()
		b.rod = nil
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher = nil
	}
	return err
}

func (b *browser) pid() int {
	if b == nil || b.launcher == nil {
		return 0
	}
	return b.launcher.PID()
}
