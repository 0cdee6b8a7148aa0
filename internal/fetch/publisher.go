// Package fetch - publisher.go maps news publisher hosts to their article body selectors.
package fetch

import (
	"net/url"
	"strings"
)

// Publisher identifies a news site with known markup.
type Publisher string

const (
	// PublisherNaver is Naver News (n.news.naver.com, news.naver.com)
	PublisherNaver Publisher = "naver"
	// PublisherDaum is Daum News (v.daum.net)
	PublisherDaum Publisher = "daum"
	// PublisherHankyung is the Korea Economic Daily
	PublisherHankyung Publisher = "hankyung"
	// PublisherMK is Maeil Business Newspaper
	PublisherMK Publisher = "mk"
	// PublisherChosun is Chosun Ilbo
	PublisherChosun Publisher = "chosun"
	// PublisherUnknown is any other site
	PublisherUnknown Publisher = "unknown"
)

// DetectPublisher identifies the publisher from an article URL.
func DetectPublisher(urlStr string) Publisher {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PublisherUnknown
	}

	host := strings.ToLower(parsed.Hostname())
	switch {
	case hostIs(host, "news.naver.com"):
		return PublisherNaver
	case hostIs(host, "v.daum.net"), hostIs(host, "news.v.daum.net"):
		return PublisherDaum
	case hostIs(host, "hankyung.com"):
		return PublisherHankyung
	case hostIs(host, "mk.co.kr"):
		return PublisherMK
	case hostIs(host, "chosun.com"):
		return PublisherChosun
	}
	return PublisherUnknown
}

func hostIs(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// PublisherSelectors returns the body selectors for a known publisher, or nil.
func PublisherSelectors(p Publisher) []string {
	switch p {
	case PublisherNaver:
		return []string{"#dic_area", "#newsct_article", "#articleBodyContents"}
	case PublisherDaum:
		return []string{".article_view", "#harmonyContainer"}
	case PublisherHankyung:
		return []string{"#articletxt", ".article-body"}
	case PublisherMK:
		return []string{".news_cnt_detail_wrap", "#article_body"}
	case PublisherChosun:
		return []string{".article-body", "section.article-body"}
	default:
		return nil
	}
}

// PublisherNoiseSelectors returns elements to strip before extraction.
func PublisherNoiseSelectors(p Publisher) []string {
	common := []string{
		".byline",
		".reporter_area",
		".copyright",
		".related_news",
		".social-share",
		".share-buttons",
		"figcaption",
	}

	switch p {
	case PublisherNaver:
		return append(common, ".media_end_head", ".end_photo_org", ".img_desc", ".media_end_correction")
	case PublisherDaum:
		return append(common, ".txt_caption", ".box_recommend")
	default:
		return common
	}
}
