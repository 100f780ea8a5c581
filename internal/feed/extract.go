package feed

import (
	"regexp"
	"strings"
)

// The upstream feed document is not guaranteed to be well-formed XML in every
// edge case, so entries are pulled out with tolerant text matching instead of
// a strict parser. The rules below are the contract: entry boundaries on the
// entry element, namespaced id unwrapping, CDATA/entity decoding, and
// attribute-qualified link and thumbnail selection.

var (
	entryRe     = regexp.MustCompile(`(?s)<entry[\s>].*?</entry>`)
	videoIDRe   = regexp.MustCompile(`(?s)<yt:videoId(?:\s[^>]*)?>(.*?)</yt:videoId>`)
	idRe        = regexp.MustCompile(`(?s)<id(?:\s[^>]*)?>(.*?)</id>`)
	titleRe     = regexp.MustCompile(`(?s)<title(?:\s[^>]*)?>(.*?)</title>`)
	publishedRe = regexp.MustCompile(`(?s)<published(?:\s[^>]*)?>(.*?)</published>`)
	linkRe      = regexp.MustCompile(`<link\b[^>]*>`)
	thumbRe     = regexp.MustCompile(`<media:thumbnail\b[^>]*>`)
	cdataRe     = regexp.MustCompile(`(?s)^<!\[CDATA\[(.*)\]\]>$`)
	hrefRe      = regexp.MustCompile(`href\s*=\s*"([^"]*)"`)
	relRe       = regexp.MustCompile(`rel\s*=\s*"([^"]*)"`)
	urlAttrRe   = regexp.MustCompile(`url\s*=\s*"([^"]*)"`)
)

var entityReplacer = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&amp;", "&",
)

// decodeText normalizes raw element content: trims whitespace, unwraps a
// CDATA section, and decodes the five standard XML entities.
func decodeText(s string) string {
	s = strings.TrimSpace(s)
	if m := cdataRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	return strings.TrimSpace(entityReplacer.Replace(s))
}

func matchText(re *regexp.Regexp, block string) string {
	m := re.FindStringSubmatch(block)
	if m == nil {
		return ""
	}
	return decodeText(m[1])
}

func attrValue(re *regexp.Regexp, tag string) string {
	m := re.FindStringSubmatch(tag)
	if m == nil {
		return ""
	}
	return entityReplacer.Replace(m[1])
}

// entryLink prefers a link element whose rel attribute marks it as the
// alternate (canonical) link, falling back to the first link with an href.
func entryLink(block string) string {
	first := ""
	for _, tag := range linkRe.FindAllString(block, -1) {
		href := attrValue(hrefRe, tag)
		if href == "" {
			continue
		}
		if attrValue(relRe, tag) == "alternate" {
			return href
		}
		if first == "" {
			first = href
		}
	}
	return first
}

func entryThumbnail(block string) string {
	tag := thumbRe.FindString(block)
	if tag == "" {
		return ""
	}
	return attrValue(urlAttrRe, tag)
}

// parseEntry normalizes one entry block, or returns nil when the entry is
// missing an id or a title.
func parseEntry(block string) *NormalizedVideo {
	id := matchText(videoIDRe, block)
	if id == "" {
		id = matchText(idRe, block)
	}
	// Upstream ids are namespaced (e.g. "yt:video:abc"); the trailing
	// colon-segment is the actual id.
	if i := strings.LastIndex(id, ":"); i >= 0 {
		id = id[i+1:]
	}

	title := matchText(titleRe, block)
	if id == "" || title == "" {
		return nil
	}

	link := entryLink(block)
	if link == "" {
		link = watchURL(id)
	}

	return &NormalizedVideo{
		ID:          id,
		Title:       title,
		PublishedAt: matchText(publishedRe, block),
		URL:         link,
		Thumbnails:  ThumbnailSet{Default: entryThumbnail(block)},
	}
}

// ExtractEntries pulls every valid video out of a feed document, preserving
// document order.
func ExtractEntries(doc string) []NormalizedVideo {
	var videos []NormalizedVideo
	for _, block := range entryRe.FindAllString(doc, -1) {
		if v := parseEntry(block); v != nil {
			videos = append(videos, *v)
		}
	}
	return videos
}

func watchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
