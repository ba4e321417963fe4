package registry

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// UploadToolFilter hides upload_files from discovery unless uploads are
// enabled. Uploaded content bypasses the directory allow-list, so operators
// can restrict ingestion to process_files with EASSC_ENABLE_UPLOADS=false.
type UploadToolFilter struct {
	allowUploads bool
}

// NewUploadToolFilter constructs a filter for the given setting.
func NewUploadToolFilter(allowUploads bool) *UploadToolFilter {
	return &UploadToolFilter{allowUploads: allowUploads}
}

// FilterTools implements server tool filtering semantics.
func (f *UploadToolFilter) FilterTools(ctx context.Context, tools []mcp.Tool) []mcp.Tool {
	if f.allowUploads {
		return tools
	}
	out := make([]mcp.Tool, 0, len(tools))
	for _, t := range tools {
		if t.Name == ToolUploadFiles {
			continue
		}
		out = append(out, t)
	}
	return out
}
