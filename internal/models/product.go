package models

// PlaceholderImage is shown for uniforms that carry no images.
const PlaceholderImage = "https://placehold.co/400x300?text=Image+Not+Found"

// Uniform is a catalog record. Catalog documents are loosely shaped
// (sizes may be strings or objects, variants may or may not exist), so the
// raw field map is kept alongside the id.
type Uniform struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

type School struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

func (s *School) Name() string {
	if s == nil {
		return ""
	}
	name, _ := s.Fields["name"].(string)
	return name
}

type SizeOption struct {
	Size    string `json:"size"`
	InStock bool   `json:"inStock"`
}

type ProductDetail struct {
	ID         string         `json:"id"`
	Fields     map[string]any `json:"fields"`
	Images     []string       `json:"images"`
	SchoolName string         `json:"schoolName,omitempty"`
	Sizes      []SizeOption   `json:"sizes"`
}
