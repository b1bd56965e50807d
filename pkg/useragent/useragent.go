// Package useragent classifies User-Agent strings into coarse device types
// for click analytics. With a regexes file it uses the uap-core ruleset;
// without one it falls back to keyword matching.
package useragent

import (
	"fmt"
	"strings"

	"github.com/ua-parser/uap-go/uaparser"
	"go.uber.org/zap"
)

// Device types recorded on click events.
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceBot     = "bot"
	DeviceUnknown = "unknown"
)

// Parser wraps the uap-go parser with device type classification.
type Parser struct {
	parser *uaparser.Parser
	log    *zap.Logger
}

// NewParser creates a parser from a uap-core regexes file.
func NewParser(regexFilePath string, log *zap.Logger) (*Parser, error) {
	parser, err := uaparser.New(regexFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create User-Agent parser: %w", err)
	}

	log.Info("User-Agent parser initialized", zap.String("regexes_file", regexFilePath))

	return &Parser{
		parser: parser,
		log:    log,
	}, nil
}

// DeviceType classifies a User-Agent string. A nil receiver falls back to
// keyword matching, so callers may pass the parser through unchecked.
func (p *Parser) DeviceType(userAgent string) string {
	if userAgent == "" {
		return DeviceUnknown
	}
	if p == nil {
		return Detect(userAgent)
	}

	client := p.parser.Parse(userAgent)

	if isBot(client.UserAgent.Family) || isBot(userAgent) {
		return DeviceBot
	}

	device := client.Device.Family
	if device != "" && device != "Other" {
		if containsAny(device, "iPad", "Tablet", "Kindle", "Surface") {
			return DeviceTablet
		}
		if containsAny(device, "iPhone", "Android", "BlackBerry", "Mobile", "Phone") {
			return DeviceMobile
		}
	}

	os := client.Os.Family
	switch {
	case strings.Contains(os, "iOS"):
		if strings.Contains(userAgent, "iPad") {
			return DeviceTablet
		}
		return DeviceMobile
	case strings.Contains(os, "Android"):
		// Android tablets typically omit "Mobile" from the User-Agent
		if !strings.Contains(userAgent, "Mobile") {
			return DeviceTablet
		}
		return DeviceMobile
	case containsAny(os, "Windows", "Mac OS X", "macOS", "Linux", "Ubuntu", "Chrome OS", "FreeBSD"):
		return DeviceDesktop
	}

	return DeviceUnknown
}

// Detect is the keyword fallback used when no regexes file is available.
func Detect(userAgent string) string {
	if userAgent == "" {
		return DeviceUnknown
	}
	ua := strings.ToLower(userAgent)

	if containsAny(ua, "bot", "crawler", "spider", "scraper", "facebookexternalhit") {
		return DeviceBot
	}
	if containsAny(ua, "tablet", "ipad", "kindle", "silk", "playbook") {
		return DeviceTablet
	}
	if containsAny(ua, "mobile", "android", "iphone", "ipod", "blackberry", "windows phone", "opera mini") {
		return DeviceMobile
	}
	return DeviceDesktop
}

func isBot(s string) bool {
	lower := strings.ToLower(s)
	return containsAny(lower, "bot", "crawler", "spider", "scraper", "facebookexternalhit", "whatsapp", "telegram")
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
