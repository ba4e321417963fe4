package registry

import (
	"context"
	"sort"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
)

// Kind groups tools by what they do to a session.
type Kind string

const (
	// KindIngest tools read report files and replace a session dataset.
	KindIngest Kind = "ingest"
	// KindSession tools read or end a session without computing views.
	KindSession Kind = "session"
	// KindView tools compute an analytic view over the filtered records.
	KindView Kind = "view"
	// KindAdmin tools report on the server itself.
	KindAdmin Kind = "admin"
)

// ToolInfo is the catalog entry of one registered tool.
type ToolInfo struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

type entry struct {
	tool mcp.Tool
	kind Kind
}

// Registry keeps the tool definitions served by the process.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]entry
}

// New constructs an empty Registry.
func New() *Registry {
	return &Registry{tools: map[string]entry{}}
}

// Register stores a tool definition under kind, replacing any earlier
// definition with the same name.
func (r *Registry) Register(tool mcp.Tool, kind Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tools[tool.Name] = entry{tool: tool, kind: kind}
}

// Get returns a tool by name when present.
func (r *Registry) Get(name string) (mcp.Tool, Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.tools[name]
	return e.tool, e.kind, ok
}

// Tools returns the registered definitions sorted by name.
func (r *Registry) Tools(ctx context.Context) ([]mcp.Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]mcp.Tool, 0, len(r.tools))
	for _, e := range r.tools {
		tools = append(tools, e.tool)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools, nil
}

// Catalog lists tool names with their kind, ordered by kind then name.
func (r *Registry) Catalog() []ToolInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ToolInfo, 0, len(r.tools))
	for name, e := range r.tools {
		out = append(out, ToolInfo{Name: name, Kind: e.kind})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Name < out[j].Name
	})
	return out
}
