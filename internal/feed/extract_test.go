package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns:media="http://search.yahoo.com/mrss/" xmlns="http://www.w3.org/2005/Atom">
  <title>Channel uploads</title>
  <entry>
    <id>yt:video:videoAAA</id>
    <yt:videoId>videoAAA</yt:videoId>
    <title>First upload</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=videoAAA"/>
    <published>2024-03-01T10:00:00+00:00</published>
    <media:group>
      <media:thumbnail url="https://i.ytimg.com/vi/videoAAA/hqdefault.jpg" width="480" height="360"/>
    </media:group>
  </entry>
  <entry>
    <id>yt:video:videoBBB</id>
    <yt:videoId>videoBBB</yt:videoId>
    <title>Second upload</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=videoBBB"/>
    <published>2024-02-01T10:00:00+00:00</published>
  </entry>
</feed>`

func TestExtractEntries(t *testing.T) {
	videos := ExtractEntries(sampleFeed)
	require.Len(t, videos, 2)

	assert.Equal(t, "videoAAA", videos[0].ID)
	assert.Equal(t, "First upload", videos[0].Title)
	assert.Equal(t, "2024-03-01T10:00:00+00:00", videos[0].PublishedAt)
	assert.Equal(t, "https://www.youtube.com/watch?v=videoAAA", videos[0].URL)
	assert.Equal(t, "https://i.ytimg.com/vi/videoAAA/hqdefault.jpg", videos[0].Thumbnails.Default)

	// Order follows the document, no re-sorting.
	assert.Equal(t, "videoBBB", videos[1].ID)
	assert.Empty(t, videos[1].Thumbnails.Default)
}

func TestExtractEntriesDropsInvalid(t *testing.T) {
	doc := `<feed>
  <entry><title>no id at all</title></entry>
  <entry><id>yt:video:hasID</id></entry>
  <entry><id>yt:video:valid</id><title>kept</title></entry>
</feed>`

	videos := ExtractEntries(doc)
	require.Len(t, videos, 1)
	assert.Equal(t, "valid", videos[0].ID)
}

func TestExtractEntriesNamespacedID(t *testing.T) {
	doc := `<feed><entry><id>yt:video:videoABC</id><title>t</title></entry></feed>`

	videos := ExtractEntries(doc)
	require.Len(t, videos, 1)
	assert.Equal(t, "videoABC", videos[0].ID)
	assert.Equal(t, "https://www.youtube.com/watch?v=videoABC", videos[0].URL)
}

func TestExtractEntriesPrefersQualifiedID(t *testing.T) {
	doc := `<feed><entry><yt:videoId>qualified</yt:videoId><id>yt:video:generic</id><title>t</title></entry></feed>`

	videos := ExtractEntries(doc)
	require.Len(t, videos, 1)
	assert.Equal(t, "qualified", videos[0].ID)
}

func TestDecodeText(t *testing.T) {
	// CDATA-wrapped and entity-escaped content decode identically.
	assert.Equal(t, "A & B", decodeText("<![CDATA[A & B]]>"))
	assert.Equal(t, "A & B", decodeText("A &amp; B"))
	assert.Equal(t, `<b> "quoted" 'single'`, decodeText("&lt;b&gt; &quot;quoted&quot; &apos;single&apos;"))
	// A decoded ampersand must not be re-decoded.
	assert.Equal(t, "&lt;", decodeText("&amp;lt;"))
}

func TestEntryLinkPrefersAlternate(t *testing.T) {
	doc := `<feed><entry>
  <id>yt:video:v1</id><title>t</title>
  <link rel="self" href="https://example.com/self"/>
  <link rel="alternate" href="https://example.com/watch"/>
</entry></feed>`

	videos := ExtractEntries(doc)
	require.Len(t, videos, 1)
	assert.Equal(t, "https://example.com/watch", videos[0].URL)
}

func TestEntryLinkFallsBackToFirst(t *testing.T) {
	doc := `<feed><entry>
  <id>yt:video:v1</id><title>t</title>
  <link rel="self" href="https://example.com/first"/>
  <link rel="self" href="https://example.com/second"/>
</entry></feed>`

	videos := ExtractEntries(doc)
	require.Len(t, videos, 1)
	assert.Equal(t, "https://example.com/first", videos[0].URL)
}

func TestExtractEntriesCDATATitle(t *testing.T) {
	doc := `<feed><entry><id>yt:video:v1</id><title><![CDATA[Tips & Tricks]]></title></entry></feed>`

	videos := ExtractEntries(doc)
	require.Len(t, videos, 1)
	assert.Equal(t, "Tips & Tricks", videos[0].Title)
}
