package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

// ErrNoBrowser is returned when no Chromium executable can be found.
var ErrNoBrowser = errors.New("rod browser dependency not found")

// BrowserStore implements Store on a web page's window.localStorage, driven
// through a headless browser. It lets the CLI read and write the data a
// browser-only deployment of the boards app keeps on the client.
type BrowserStore struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	url      string
	log      logrus.FieldLogger
}

// OpenBrowserStore launches a headless browser, opens url and waits for the
// page to load. localStorage is scoped to the page's origin.
func OpenBrowserStore(ctx context.Context, url string, timeout time.Duration, logger logrus.FieldLogger) (s *BrowserStore, err error) {
	log := logger.WithFields(logrus.Fields{
		"component": "browser_store",
		"url":       url,
	})

	path, exists := launcher.LookPath()
	if !exists {
		log.Error("Cannot find browser executable for rod")
		return nil, ErrNoBrowser
	}

	l := launcher.New().Bin(path).Headless(true)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		log.WithError(err).Error("Failed to connect to rod browser")
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	// Tear everything down if the page never becomes usable
	defer func() {
		if err != nil {
			if closeErr := browser.Close(); closeErr != nil {
				log.WithError(closeErr).Error("Error closing rod browser instance")
			}
			l.Kill()
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		log.WithError(err).Error("Failed to create rod page")
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	loadCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := page.Context(loadCtx).WaitLoad(); err != nil {
		if errors.Is(loadCtx.Err(), context.DeadlineExceeded) {
			log.WithError(loadCtx.Err()).Warn("Page load timed out")
			return nil, fmt.Errorf("loading %s timed out: %w", url, loadCtx.Err())
		}
		log.WithError(err).Error("Failed to wait for page load")
		return nil, fmt.Errorf("failed waiting for page load: %w", err)
	}

	log.Info("Browser storage page ready")
	return &BrowserStore{
		launcher: l,
		browser:  browser,
		page:     page,
		url:      url,
		log:      log,
	}, nil
}

func (s *BrowserStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	res, err := s.page.Context(ctx).Eval(`(k) => window.localStorage.getItem(k)`, key)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Error("Failed to read localStorage")
		return nil, false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	if res.Value.Nil() {
		return nil, false, nil
	}
	return []byte(res.Value.Str()), true, nil
}

func (s *BrowserStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.page.Context(ctx).Eval(`(k, v) => window.localStorage.setItem(k, v)`, key, string(value))
	if err != nil {
		s.log.WithError(err).WithField("key", key).Error("Failed to write localStorage")
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Close closes the page and the browser and kills the launched process.
func (s *BrowserStore) Close() error {
	var errs []error
	if err := s.page.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing page: %w", err))
	}
	if err := s.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing browser: %w", err))
	}
	s.launcher.Kill()
	s.log.Debug("Browser storage closed")
	return errors.Join(errs...)
}
