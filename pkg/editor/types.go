package editor

// TextElement is one extracted span of text. X, Y is the top-left corner of
// its bounding box in the page's coordinate space.
type TextElement struct {
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Size   float64 `json:"size"`
}

// PageInfo is the extracted layout of one page.
type PageInfo struct {
	PageNumber   int           `json:"page_number"`
	Width        float64       `json:"width"`
	Height       float64       `json:"height"`
	TextElements []TextElement `json:"text_elements"`
}

// ExtractResult is the client-facing result of an upload.
type ExtractResult struct {
	Filename   string     `json:"filename"`
	Pages      []PageInfo `json:"pages"`
	TotalPages int        `json:"total_pages"`
}

// EditOperation replaces every occurrence of OldText on Page with NewText.
// A zero-match operation is a silent no-op. Size defaults to DefaultFontSize.
type EditOperation struct {
	Page    int     `json:"page"`
	OldText string  `json:"old_text" binding:"required"`
	NewText string  `json:"new_text"`
	Size    float64 `json:"size"`
}

// DefaultFontSize is the font size used when an edit does not specify one.
const DefaultFontSize = 12

// RenderScale is the linear rasterization scale for page rendering.
const RenderScale = 2
