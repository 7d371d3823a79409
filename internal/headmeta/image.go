package headmeta

// Image is a normalized image descriptor. URL is always set.
type Image struct {
	URL    string
	Alt    string
	Width  string
	Height string
}

// field returns the value emitted for one of the og:image sub-properties.
func (i Image) field(key string) string {
	switch key {
	case "url":
		return i.URL
	case "alt":
		return i.Alt
	case "width":
		return i.Width
	case "height":
		return i.Height
	}
	return ""
}

// normalizeImages turns the polymorphic image field (a URL, a record, a list
// of either, or nothing) into an ordered list. Entries without a URL are
// dropped.
func normalizeImages(v any) []Image {
	var raw []any
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		raw = val
	case []string:
		for _, s := range val {
			raw = append(raw, s)
		}
	case []map[string]any:
		for _, m := range val {
			raw = append(raw, m)
		}
	case []Image:
		raw = make([]any, 0, len(val))
		for _, img := range val {
			raw = append(raw, img)
		}
	default:
		raw = []any{val}
	}

	images := make([]Image, 0, len(raw))
	for _, item := range raw {
		if img, ok := toImage(item); ok {
			images = append(images, img)
		}
	}
	return images
}

func toImage(v any) (Image, bool) {
	var img Image
	switch val := v.(type) {
	case string:
		img.URL = val
	case Image:
		img = val
	case map[string]any:
		img = Image{
			URL:    text(val["url"]),
			Alt:    text(val["alt"]),
			Width:  text(val["width"]),
			Height: text(val["height"]),
		}
	default:
		return Image{}, false
	}
	return img, img.URL != ""
}
