//go:build e2e

package e2e

import (
	"os"
	"testing"

	"github.com/playwright-community/playwright-go"
)

var (
	pw      *playwright.Playwright
	browser playwright.Browser
	baseURL = "http://localhost:8080"
)

// TestMain sets up and tears down the Playwright browser for all tests.
// The server must already be running; E2E_BASE_URL overrides its address.
func TestMain(m *testing.M) {
	if url := os.Getenv("E2E_BASE_URL"); url != "" {
		baseURL = url
	}

	var err error

	// Start Playwright (browsers already installed via: go run github.com/playwright-community/playwright-go/cmd/playwright@latest install chromium)
	pw, err = playwright.Run()
	if err != nil {
		panic(err)
	}

	// Launch browser in headless mode
	browser, err = pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		pw.Stop()
		panic(err)
	}

	code := m.Run()

	browser.Close()
	pw.Stop()
	os.Exit(code)
}

// openProductPage opens a fresh product page
func openProductPage(t *testing.T) playwright.Page {
	t.Helper()

	page, err := browser.NewPage()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { page.Close() })

	if _, err = page.Goto(baseURL + "/"); err != nil {
		t.Fatalf("Failed to navigate to product page: %v", err)
	}
	return page
}

// expectText waits until the locator's text content equals want
func expectText(t *testing.T, locator playwright.Locator, want string) {
	t.Helper()
	if err := playwright.NewPlaywrightAssertions(5000).Locator(locator).ToHaveText(want); err != nil {
		t.Errorf("Expected text %q: %v", want, err)
	}
}

// expectAttribute waits until the locator's attribute equals want
func expectAttribute(t *testing.T, locator playwright.Locator, name, want string) {
	t.Helper()
	if err := playwright.NewPlaywrightAssertions(5000).Locator(locator).ToHaveAttribute(name, want); err != nil {
		t.Errorf("Expected %s=%q: %v", name, want, err)
	}
}
