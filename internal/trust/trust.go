// Package trust derives per-request device-trust flags from the request's
// user agent. Flags are computed once by middleware, stored as an immutable
// value, and read by downstream validation and handlers.
package trust

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mileusna/useragent"
)

// DeviceCategory is the coarse device class a descriptor resolves to.
type DeviceCategory string

const (
	DeviceMobile  DeviceCategory = "mobile"
	DeviceTablet  DeviceCategory = "tablet"
	DeviceDesktop DeviceCategory = "desktop"
	DeviceUnknown DeviceCategory = "unknown"
)

// Flags is the read-only trust flag set for one request.
type Flags struct {
	Category DeviceCategory
	// CheckIMEI is set when the device class requires IMEI-based
	// verification for operations claiming device-bound trust.
	CheckIMEI bool
}

const flagsContextKey = "trustFlags"

// Classify parses a raw user-agent descriptor into trust flags. It never
// fails: empty or unparseable descriptors resolve to the unknown category,
// which does not require IMEI verification.
func Classify(deviceDescriptor string) Flags {
	category := categorize(deviceDescriptor)
	return Flags{
		Category:  category,
		CheckIMEI: category == DeviceMobile || category == DeviceTablet,
	}
}

func categorize(descriptor string) DeviceCategory {
	if descriptor == "" {
		return DeviceUnknown
	}

	ua := useragent.Parse(descriptor)
	switch {
	case ua.Mobile:
		return DeviceMobile
	case ua.Tablet:
		return DeviceTablet
	case ua.Desktop:
		return DeviceDesktop
	default:
		return DeviceUnknown
	}
}

// Middleware attaches trust flags to every request before any handler runs,
// including routes that never read them, so a missing flag set can never be
// mistaken for "verification not required".
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(flagsContextKey, Classify(c.Get(fiber.HeaderUserAgent)))
		return c.Next()
	}
}

// FromContext returns the request's trust flags. The second return value is
// false only when the middleware did not run; callers treat that as the
// strictest setting rather than skipping verification.
func FromContext(c *fiber.Ctx) (Flags, bool) {
	value := c.Locals(flagsContextKey)
	if flags, ok := value.(Flags); ok {
		return flags, true
	}
	return Flags{Category: DeviceUnknown, CheckIMEI: true}, false
}
