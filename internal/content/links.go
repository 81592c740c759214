package content

import (
	"fmt"
	"net/url"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DefaultDisplayName = "NEFTIT BELIEVER"
	DefaultShareText   = "Join me on the NEFTIT waitlist for the future of Web3! 🚀"
)

type Links struct {
	SiteURL       string `mapstructure:"siteURL"`
	TwitterFollow string `mapstructure:"twitterFollow"`
	DiscordInvite string `mapstructure:"discordInvite"`
	ShareText     string `mapstructure:"shareText"`
}

func DefaultLinks() Links {
	return Links{
		SiteURL:       "https://neftit.xyz",
		TwitterFollow: "https://twitter.com/neftitxyz",
		DiscordInvite: "https://discord.gg/GHc9samP",
		ShareText:     DefaultShareText,
	}
}

// ReferralLink points new visitors at the signup page with the code attached.
func (l Links) ReferralLink(code string) string {
	return l.SiteURL + "/waitlist?ref=" + url.QueryEscape(code)
}

func (l Links) TweetIntent(link string) string {
	q := url.Values{}
	q.Set("text", l.ShareText)
	q.Set("url", link)
	return "https://twitter.com/intent/tweet?" + q.Encode()
}

// MaskWallet shortens a wallet address to 0x1234...abcd.
func MaskWallet(address string) string {
	if len(address) < 42 {
		return address
	}
	return address[:6] + "..." + address[38:]
}

func DisplayName(name string) string {
	if name == "" {
		return DefaultDisplayName
	}
	return name
}

func FormatRank(rank int) string {
	return fmt.Sprintf("#%03d", rank)
}

var printer = message.NewPrinter(language.English)

// FormatCount renders n with thousands separators.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}
