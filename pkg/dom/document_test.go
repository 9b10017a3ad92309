package dom

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetElementByID(t *testing.T) {
	doc := NewDocument("Market Events", "market-events-table")

	assert.NotNil(t, doc.GetElementByID("market-events-table"))
	assert.Nil(t, doc.GetElementByID("events-calendar"))

	var nilDoc *Document
	assert.Nil(t, nilDoc.GetElementByID("market-events-table"))
}

func TestAddContainer_ReturnsExisting(t *testing.T) {
	doc := NewDocument("Market Events")
	first := doc.AddContainer("a")
	first.SetInnerHTML("<p>a</p>")

	second := doc.AddContainer("a")

	assert.Same(t, first, second)
	assert.Len(t, doc.Containers(), 1)
}

func TestSetInnerHTML_LastWriteWins(t *testing.T) {
	doc := NewDocument("Market Events", "target")
	c := doc.GetElementByID("target")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.SetInnerHTML(fmt.Sprintf("<p>%d</p>", i))
		}(i)
	}
	wg.Wait()
	c.SetInnerHTML("<p>final</p>")

	assert.Equal(t, "<p>final</p>", c.InnerHTML())
	assert.False(t, c.UpdatedAt().IsZero())
}

func TestRender(t *testing.T) {
	doc := NewDocument("Market <Events>", "market-events-table", "events-calendar")
	doc.GetElementByID("market-events-table").SetInnerHTML(`<p class="x">No events found</p>`)

	var buf bytes.Buffer
	err := doc.Render(&buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<title>Market &lt;Events&gt;</title>")
	assert.Contains(t, out, `<section id="market-events-table" class="bg-white rounded-lg shadow p-4"><p class="x">No events found</p></section>`)
	assert.Contains(t, out, `<section id="events-calendar"`)
}
