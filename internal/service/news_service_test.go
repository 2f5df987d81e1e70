package service

import (
	"testing"

	"github.com/mmcdole/gofeed"
)

const sampleFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>校园资讯</title>
    <item>
      <title> 秋季招聘会开幕 </title>
      <description>超过 50 家企业参与本次线上招聘会。</description>
      <link>https://example.com/news/job-fair</link>
      <pubDate>Mon, 24 Aug 2026 08:00:00 +0800</pubDate>
      <enclosure url="https://example.com/images/fair.jpg" type="image/jpeg" length="1024"/>
    </item>
    <item>
      <title>无链接的条目</title>
      <description>应被丢弃。</description>
    </item>
    <item>
      <title>图书馆延长开放时间</title>
      <description>考试周期间开放至凌晨两点。</description>
      <link>https://example.com/news/library-hours</link>
    </item>
  </channel>
</rss>`

func TestArticlesFromFeedMapping(t *testing.T) {
	feed, err := gofeed.NewParser().ParseString(sampleFeedXML)
	if err != nil {
		t.Fatalf("parse feed failed: %v", err)
	}

	articles := articlesFromFeed(feed, "校园网", "campus", "https://example.com/fallback.png")
	if len(articles) != 2 {
		t.Fatalf("articles want 2 got %d", len(articles))
	}

	first := articles[0]
	if first.Title != "秋季招聘会开幕" {
		t.Fatalf("title not trimmed: %q", first.Title)
	}
	if first.Link != "https://example.com/news/job-fair" {
		t.Fatalf("unexpected link: %s", first.Link)
	}
	if first.Image != "https://example.com/images/fair.jpg" {
		t.Fatalf("should take image enclosure, got %s", first.Image)
	}
	if first.Source != "校园网" || first.Category != "campus" {
		t.Fatalf("source/category not applied: %+v", first)
	}
	if first.Published == "" {
		t.Fatalf("published time should carry over")
	}

	second := articles[1]
	if second.Image != "https://example.com/fallback.png" {
		t.Fatalf("item without image should use fallback, got %s", second.Image)
	}
}

func TestArticlesFromFeedNilFeed(t *testing.T) {
	if got := articlesFromFeed(nil, "s", "c", ""); got != nil {
		t.Fatalf("nil feed want nil got %+v", got)
	}
}
