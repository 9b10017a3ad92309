// Package dom is a minimal server-side document: a set of containers,
// addressed by id, whose inner HTML is replaced wholesale on every write.
package dom

import (
	"html/template"
	"io"
	"sync"
	"time"
)

type Container struct {
	id        string
	mu        sync.RWMutex
	html      string
	updatedAt time.Time
}

func (c *Container) ID() string {
	return c.id
}

// SetInnerHTML replaces the container contents. Concurrent writers race and
// the last write wins.
func (c *Container) SetInnerHTML(html string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.html = html
	c.updatedAt = time.Now()
}

func (c *Container) InnerHTML() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.html
}

// UpdatedAt is the time of the last write, zero if never written.
func (c *Container) UpdatedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updatedAt
}

type Document struct {
	mu         sync.RWMutex
	title      string
	containers map[string]*Container
	order      []string
}

func NewDocument(title string, ids ...string) *Document {
	d := &Document{
		title:      title,
		containers: make(map[string]*Container),
	}
	for _, id := range ids {
		d.AddContainer(id)
	}
	return d
}

// AddContainer registers a container, returning the existing one if the id is taken.
func (d *Document) AddContainer(id string) *Container {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c, ok := d.containers[id]; ok {
		return c
	}
	c := &Container{id: id}
	d.containers[id] = c
	d.order = append(d.order, id)
	return c
}

// GetElementByID returns nil when the container does not exist.
func (d *Document) GetElementByID(id string) *Container {
	if d == nil {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.containers[id]
}

// Containers returns the containers in registration order.
func (d *Document) Containers() []*Container {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Container, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.containers[id])
	}
	return out
}

type pageSection struct {
	ID   string
	HTML template.HTML
}

type pageData struct {
	Title    string
	Sections []pageSection
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>{{.Title}}</title>
    <script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="bg-gray-100">
    <main class="max-w-6xl mx-auto p-6 space-y-6">
        <h1 class="text-2xl font-bold">{{.Title}}</h1>
        {{- range .Sections}}
        <section id="{{.ID}}" class="bg-white rounded-lg shadow p-4">{{.HTML}}</section>
        {{- end}}
    </main>
</body>
</html>
`))

// Render writes the whole document as an HTML page. Container contents are
// trusted HTML produced by the renderers.
func (d *Document) Render(w io.Writer) error {
	data := pageData{Title: d.title}
	for _, c := range d.Containers() {
		data.Sections = append(data.Sections, pageSection{
			ID:   c.ID(),
			HTML: template.HTML(c.InnerHTML()),
		})
	}
	return pageTemplate.Execute(w, data)
}
