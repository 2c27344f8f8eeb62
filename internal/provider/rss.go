package provider

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/url"
	"strings"
	"time"

	"revoscan/internal/domain"
)

var _ NewsProvider = (*GoogleNews)(nil)

var httpClient = &http.Client{Timeout: 10 * time.Second}

// GoogleNews serves headlines from the Google News RSS feed. It needs no
// credentials, which makes it the fallback sentiment source when no Alpaca
// keys are configured.
type GoogleNews struct{}

// NewGoogleNews creates a Google News RSS provider.
func NewGoogleNews() *GoogleNews { return &GoogleNews{} }

type rssResponse struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title   string `xml:"title"`
	PubDate string `xml:"pubDate"`
	Desc    string `xml:"description"`
}

// Headlines fetches the RSS search feed for "<symbol> stock" and
// polarity-scores the titles that fall inside the window.
func (g *GoogleNews) Headlines(ctx context.Context, symbol string, start, end time.Time) ([]domain.Headline, error) {
	q := url.QueryEscape(symbol + " stock")
	u := "https://news.google.com/rss/search?q=" + q + "&hl=en-US&gl=US&ceid=US:en"

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var rss rssResponse
	if err := xml.NewDecoder(resp.Body).Decode(&rss); err != nil {
		return nil, err
	}

	var headlines []domain.Headline
	for _, item := range rss.Channel.Items {
		t, err := time.Parse(time.RFC1123Z, item.PubDate)
		if err != nil {
			t, err = time.Parse(time.RFC1123, item.PubDate)
			if err != nil {
				continue
			}
		}
		if t.Before(start) || t.After(end) {
			continue
		}
		// Google appends " - Publisher" to the title.
		title := item.Title
		if idx := strings.LastIndex(title, " - "); idx > 0 {
			title = title[:idx]
		}
		headlines = append(headlines, domain.Headline{
			Time:     t,
			Source:   "google",
			Text:     title,
			Polarity: Polarity(title),
		})
	}
	return headlines, nil
}
