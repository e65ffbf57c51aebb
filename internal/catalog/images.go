package catalog

import (
	"fmt"
	"regexp"
	"strings"
)

// Default artwork for direct-TON prizes and for the empty "Nothing" slot.
const (
	TONPrizeImage = "https://case-bot.com/images/actions/ton.svg"
	NothingImage  = "https://images.emojiterra.com/mozilla/512px/274c.png"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	dashRunRe    = regexp.MustCompile(`-+`)
)

// ImageRef resolves the display artwork for a prize name. Known gifts map
// to the Telegram gift CDN; TON prizes use the coin artwork; anything else
// degrades to a slug-derived filename the frontend resolves locally.
func (s *Snapshot) ImageRef(name string) string {
	if name == "" {
		return "placeholder.png"
	}
	if name == "Nothing" {
		return NothingImage
	}
	upper := strings.ToUpper(name)
	if strings.Contains(upper, "TON") && strings.Contains(upper, "PRIZE") {
		return TONPrizeImage
	}
	if id, ok := s.giftImages[name]; ok {
		return fmt.Sprintf("https://cdn.changes.tg/gifts/originals/%s/Original.png", id)
	}
	return slugFilename(name)
}

func slugFilename(name string) string {
	cleaned := strings.ReplaceAll(name, "&", "and")
	cleaned = strings.ReplaceAll(cleaned, "'", "")
	cleaned = whitespaceRe.ReplaceAllString(cleaned, "-")
	cleaned = dashRunRe.ReplaceAllString(cleaned, "-")

	lower := strings.ToLower(cleaned)
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".gif", ".svg"} {
		if strings.HasSuffix(lower, ext) {
			return cleaned
		}
	}
	return cleaned + ".png"
}
