package useragent

import (
	"fmt"
	"os"
	"strings"

	"github.com/ua-parser/uap-go/uaparser"
	"go.uber.org/zap"
)

// Device types reported for a visit.
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceBot     = "bot"
	DeviceUnknown = "unknown"
)

// DeviceInfo represents parsed device information
type DeviceInfo struct {
	DeviceType string // mobile, desktop, tablet, bot, unknown
	Browser    string // Chrome, Firefox, Safari, etc.
	OS         string // Windows, iOS, Android, etc.
}

// Parser wraps the uap-go parser with device type detection
type Parser struct {
	parser *uaparser.Parser
	log    *zap.Logger
}

// NewParser creates a parser from a uap-core regexes.yaml file. An empty path
// uses the definitions bundled with uap-go.
func NewParser(regexFilePath string, log *zap.Logger) (*Parser, error) {
	if regexFilePath == "" {
		log.Info("using bundled User-Agent definitions")
		return &Parser{parser: uaparser.NewFromSaved(), log: log}, nil
	}

	regexBytes, err := os.ReadFile(regexFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read regexes file %s: %w", regexFilePath, err)
	}

	parser, err := uaparser.NewFromBytes(regexBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create User-Agent parser: %w", err)
	}

	log.Info("User-Agent parser initialized", zap.String("regexes_file", regexFilePath))

	return &Parser{parser: parser, log: log}, nil
}

// Parse returns device information for a User-Agent header value
func (p *Parser) Parse(userAgent string) *DeviceInfo {
	if userAgent == "" {
		return &DeviceInfo{DeviceType: DeviceUnknown, Browser: DeviceUnknown, OS: DeviceUnknown}
	}

	client := p.parser.Parse(userAgent)

	info := &DeviceInfo{
		DeviceType: determineDeviceType(client, userAgent),
		Browser:    formatFamily(client.UserAgent.Family),
		OS:         formatFamily(client.Os.Family),
	}

	p.log.Debug("parsed User-Agent",
		zap.String("device_type", info.DeviceType),
		zap.String("browser", info.Browser),
		zap.String("os", info.OS),
	)

	return info
}

func determineDeviceType(client *uaparser.Client, userAgent string) string {
	if isBot(client.UserAgent.Family, userAgent) {
		return DeviceBot
	}

	if family := client.Device.Family; family != "" && family != "Other" {
		if containsAny(family, tabletDevices) {
			return DeviceTablet
		}
		if containsAny(family, mobileDevices) {
			return DeviceMobile
		}
	}

	osFamily := client.Os.Family
	if containsAny(osFamily, mobileOS) {
		if isTabletOS(osFamily, userAgent) {
			return DeviceTablet
		}
		return DeviceMobile
	}

	if containsAny(osFamily, desktopOS) {
		return DeviceDesktop
	}

	return DeviceUnknown
}

// DetectDeviceType is a keyword based fallback used when no parser is
// configured.
func DetectDeviceType(userAgent string) string {
	switch {
	case userAgent == "":
		return DeviceUnknown
	case isBot("", userAgent):
		return DeviceBot
	case containsAny(userAgent, []string{"ipad", "tablet", "kindle", "silk", "playbook"}):
		return DeviceTablet
	case containsAny(userAgent, []string{"mobile", "android", "iphone", "ipod", "blackberry", "windows phone", "opera mini"}):
		return DeviceMobile
	default:
		return DeviceDesktop
	}
}

var (
	botIndicators = []string{
		"googlebot", "bingbot", "slurp", "duckduckbot", "baiduspider",
		"yandexbot", "facebookexternalhit", "twitterbot", "linkedinbot",
		"whatsapp", "telegram", "skypeuripreview", "bot", "crawler",
		"spider", "scraper",
	}
	mobileDevices = []string{"iphone", "android", "blackberry", "windows phone", "mobile", "phone"}
	tabletDevices = []string{"ipad", "tablet", "kindle", "surface"}
	mobileOS      = []string{"ios", "android", "windows phone", "blackberry os", "firefox os", "sailfish os"}
	desktopOS     = []string{
		"windows", "mac os x", "macos", "linux", "ubuntu",
		"chrome os", "freebsd", "openbsd", "netbsd",
	}
)

func isBot(family, userAgent string) bool {
	return containsAny(family, botIndicators) || containsAny(userAgent, botIndicators)
}

// isTabletOS separates iPad from iPhone and Android tablets (no "Mobile"
// token) from phones.
func isTabletOS(osFamily, userAgent string) bool {
	ua := strings.ToLower(userAgent)
	switch strings.ToLower(osFamily) {
	case "ios":
		return strings.Contains(ua, "ipad")
	case "android":
		return !strings.Contains(ua, "mobile")
	}
	return false
}

// containsAny reports whether s contains one of the lower-case needles,
// ignoring case.
func containsAny(s string, needles []string) bool {
	if s == "" {
		return false
	}
	s = strings.ToLower(s)
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func formatFamily(s string) string {
	if s == "" || s == "Other" {
		return DeviceUnknown
	}
	return s
}
