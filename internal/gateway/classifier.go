package gateway

import (
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultSignatures maps a bot class to lower case User-Agent substrings.
func DefaultSignatures() map[string][]string {
	return map[string][]string{
		"search": {
			"googlebot", "google-inspectiontool", "storebot-google", "adsbot-google", "mediapartners-google",
			"bingbot", "msnbot", "yandex", "baiduspider", "duckduckbot", "slurp", "sogou", "exabot",
			"applebot", "petalbot", "seznambot", "naverbot",
		},
		"social": {
			"facebookexternalhit", "facebot", "twitterbot", "linkedinbot", "whatsapp", "slackbot",
			"slack-imgproxy", "telegrambot", "discordbot", "pinterest", "redditbot", "skypeuripreview",
			"embedly", "quora link preview", "vkshare", "tumblr", "bitlybot", "flipboard", "mastodon",
		},
		"seo": {
			"ahrefsbot", "semrushbot", "mj12bot", "dotbot", "rogerbot", "screaming frog", "serpstatbot",
			"sitebulb", "siteauditbot", "dataforseobot", "blexbot",
		},
		"headless": {
			"headlesschrome", "chrome-lighthouse", "lighthouse", "phantomjs", "puppeteer", "playwright", "selenium",
		},
	}
}

type botClass struct {
	name    string
	needles []string
}

// Classifier is immutable once built and safe for concurrent use.
type Classifier struct {
	classes []botClass
}

func NewClassifier(signatures map[string][]string) *Classifier {
	c := &Classifier{classes: make([]botClass, 0, len(signatures))}
	for name, needles := range signatures {
		bc := botClass{name: name, needles: make([]string, 0, len(needles))}
		for _, n := range needles {
			if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
				bc.needles = append(bc.needles, n)
			}
		}
		c.classes = append(c.classes, bc)
	}
	sort.Slice(c.classes, func(i, j int) bool { return c.classes[i].name < c.classes[j].name })
	return c
}

// Classify returns the bot class of userAgent. An empty User-Agent is human.
func (c *Classifier) Classify(userAgent string) (string, bool) {
	ua := strings.ToLower(userAgent)
	if ua == "" {
		return "", false
	}
	for _, bc := range c.classes {
		for _, n := range bc.needles {
			if strings.Contains(ua, n) {
				return bc.name, true
			}
		}
	}
	return "", false
}

// LoadSignatures reads a yaml file of class -> substrings. An empty path
// yields DefaultSignatures.
func LoadSignatures(path string) (map[string][]string, error) {
	if path == "" {
		return DefaultSignatures(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read bot signatures %s", path)
	}
	var signatures map[string][]string
	if err := yaml.Unmarshal(data, &signatures); err != nil {
		return nil, errors.Wrapf(err, "unable to parse bot signatures %s", path)
	}
	if len(signatures) == 0 {
		return nil, errors.Errorf("bot signatures file %s defines no classes", path)
	}
	return signatures, nil
}
