package render

import (
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/playwright-community/playwright-go"
)

// Install downloads the chromium build playwright drives.
func Install() error {
	log.Info("Installing Playwright browsers...")
	err := playwright.Install(&playwright.RunOptions{
		Browsers: []string{"chromium"},
	})
	if err != nil {
		return fmt.Errorf("could not install browsers: %w", err)
	}
	log.Info("Playwright browsers installed successfully")
	return nil
}

// Launch starts playwright and a headless chromium. The caller owns both and
// must close the browser and stop playwright on shutdown.
func Launch() (*playwright.Playwright, playwright.Browser, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, nil, fmt.Errorf("could not start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless:        playwright.Bool(true),
		Args:            []string{"--disable-gpu", "--no-sandbox", "--no-zygote"},
		ChromiumSandbox: playwright.Bool(false),
	})
	if err != nil {
		pw.Stop()
		return nil, nil, fmt.Errorf("could not launch browser: %w", err)
	}

	return pw, browser, nil
}

// PlaywrightBrowser adapts a running playwright browser. Each session is a
// fresh browser context, so cookies and storage never leak between renders.
type PlaywrightBrowser struct {
	browser playwright.Browser
	quality int
}

func NewPlaywrightBrowser(browser playwright.Browser, jpegQuality int) *PlaywrightBrowser {
	return &PlaywrightBrowser{browser: browser, quality: jpegQuality}
}

func (p *PlaywrightBrowser) NewSession(viewport Viewport) (Session, error) {
	context, err := p.browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  viewport.Width,
			Height: viewport.Height,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not create context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		return nil, fmt.Errorf("could not create page: %w", err)
	}

	return &playwrightSession{context: context, page: page, quality: p.quality}, nil
}

type playwrightSession struct {
	context playwright.BrowserContext
	page    playwright.Page
	quality int
}

func (s *playwrightSession) Navigate(url string) error {
	// The renderer owns the deadline, so playwright's own is disabled.
	resp, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(0),
	})
	if err != nil {
		return fmt.Errorf("could not navigate to page: %w", err)
	}
	if resp != nil && !resp.Ok() {
		log.Debugf("render %s: page answered %d, capturing anyway", url, resp.Status())
	}
	return nil
}

func (s *playwrightSession) Capture(viewport Viewport) ([]byte, error) {
	shot, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Type:    playwright.ScreenshotTypeJpeg,
		Quality: playwright.Int(s.quality),
		Clip: &playwright.Rect{
			X:      0,
			Y:      0,
			Width:  float64(viewport.Width),
			Height: float64(viewport.Height),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not take screenshot: %w", err)
	}
	return shot, nil
}

func (s *playwrightSession) Close() error {
	return s.context.Close()
}
