package trust

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

const (
	uaIPhone  = "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1"
	uaAndroid = "Mozilla/5.0 (Linux; Android 13; Pixel 7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Mobile Safari/537.36"
	uaIPad    = "Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1"
	uaDesktop = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Safari/537.36"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		descriptor string
		category   DeviceCategory
		checkIMEI  bool
	}{
		{"iphone", uaIPhone, DeviceMobile, true},
		{"android phone", uaAndroid, DeviceMobile, true},
		{"ipad", uaIPad, DeviceTablet, true},
		{"windows desktop", uaDesktop, DeviceDesktop, false},
		{"empty descriptor", "", DeviceUnknown, false},
		{"gibberish descriptor", "definitely not a user agent", DeviceUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := Classify(tt.descriptor)
			if flags.Category != tt.category {
				t.Errorf("Classify(%q) category = %q, want %q", tt.descriptor, flags.Category, tt.category)
			}
			if flags.CheckIMEI != tt.checkIMEI {
				t.Errorf("Classify(%q) CheckIMEI = %v, want %v", tt.descriptor, flags.CheckIMEI, tt.checkIMEI)
			}
		})
	}
}

func TestMiddlewareAlwaysInitializesFlags(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())

	var flags Flags
	var initialized bool
	app.Get("/", func(c *fiber.Ctx) error {
		flags, initialized = FromContext(c)
		return c.SendStatus(fiber.StatusOK)
	})

	for _, ua := range []string{uaIPhone, uaDesktop, ""} {
		req := httptest.NewRequest("GET", "/", nil)
		if ua != "" {
			req.Header.Set("User-Agent", ua)
		} else {
			// httptest sets no User-Agent by default; make absence explicit.
			req.Header.Del("User-Agent")
		}

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		resp.Body.Close()

		if !initialized {
			t.Errorf("flags not initialized for UA %q", ua)
		}
	}

	if flags.Category != DeviceUnknown || flags.CheckIMEI {
		t.Errorf("absent UA = %+v, want unknown category without IMEI check", flags)
	}
}

func TestFromContextWithoutMiddlewareFailsSafe(t *testing.T) {
	app := fiber.New()

	var flags Flags
	var initialized bool
	app.Get("/", func(c *fiber.Ctx) error {
		flags, initialized = FromContext(c)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()

	if initialized {
		t.Fatal("expected uninitialized flags without middleware")
	}
	if !flags.CheckIMEI {
		t.Fatal("uninitialized flags must default to the strictest check")
	}
}
