// Package catalog holds the pure rules applied to raw catalog records.
package catalog

import (
	"github.com/aaravmahajanofficial/uniform-storefront/internal/models"
	"github.com/aaravmahajanofficial/uniform-storefront/internal/remote"
)

// DeriveSizes lists the purchasable sizes of a uniform record. Sizes are
// read from variants[].sizes (or variants[].size when a variant has no
// sizes array), then from the top-level sizes array. The first occurrence
// of a size wins. When the list contains S, M, L at adjacent positions with
// the same stock flag, those are placeholder sizes and every S, M and L
// entry is dropped.
func DeriveSizes(product map[string]any) []models.SizeOption {
	var collected []models.SizeOption

	if variants, ok := product["variants"].([]any); ok {
		for _, v := range variants {
			variant, ok := v.(map[string]any)
			if !ok {
				continue
			}

			if sizes, ok := variant["sizes"].([]any); ok {
				for _, s := range sizes {
					if opt, ok := sizeOption(s); ok {
						collected = append(collected, opt)
					}
				}
			} else if opt, ok := sizeOption(variant["size"]); ok {
				collected = append(collected, opt)
			}
		}
	}

	if sizes, ok := product["sizes"].([]any); ok {
		for _, s := range sizes {
			if opt, ok := sizeOption(s); ok {
				collected = append(collected, opt)
			}
		}
	}

	unique := dedupe(collected)

	if hasPlaceholderRun(unique) {
		filtered := make([]models.SizeOption, 0, len(unique))
		for _, opt := range unique {
			switch opt.Size {
			case "S", "M", "L":
			default:
				filtered = append(filtered, opt)
			}
		}
		return filtered
	}

	return unique
}

// sizeOption accepts a bare string or an object carrying size, value or
// name, checked in that order. Stock is assumed unless inStock is false.
func sizeOption(v any) (models.SizeOption, bool) {
	switch s := v.(type) {
	case string:
		if s == "" {
			return models.SizeOption{}, false
		}
		return models.SizeOption{Size: s, InStock: true}, true
	case map[string]any:
		inStock := true
		if b, ok := s["inStock"].(bool); ok && !b {
			inStock = false
		}

		for _, field := range []string{"size", "value", "name"} {
			if name := remote.AsString(s[field]); name != "" {
				return models.SizeOption{Size: name, InStock: inStock}, true
			}
		}
	}

	return models.SizeOption{}, false
}

func dedupe(opts []models.SizeOption) []models.SizeOption {
	seen := make(map[string]struct{}, len(opts))
	unique := make([]models.SizeOption, 0, len(opts))

	for _, opt := range opts {
		if _, ok := seen[opt.Size]; ok {
			continue
		}
		seen[opt.Size] = struct{}{}
		unique = append(unique, opt)
	}

	return unique
}

func hasPlaceholderRun(opts []models.SizeOption) bool {
	for i := 0; i+2 < len(opts); i++ {
		if opts[i].Size == "S" && opts[i+1].Size == "M" && opts[i+2].Size == "L" &&
			opts[i].InStock == opts[i+1].InStock && opts[i].InStock == opts[i+2].InStock {
			return true
		}
	}
	return false
}
