package imgur

import "iter"

// ImgurListingResponse is the envelope returned by the album and gallery endpoints.
type ImgurListingResponse struct {
	Data    *ImgurListingData `json:"data"`
	Success bool              `json:"success"`
	Status  int               `json:"status"`
}

// ImgurListingData holds the images of an album or gallery.
type ImgurListingData struct {
	ID     string       `json:"id"`
	Title  string       `json:"title"`
	Images []ImgurImage `json:"images"`
}

// ImgurImage is a single image descriptor.
type ImgurImage struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int64  `json:"size"`
	Link   string `json:"link"`
}

// links yields the image links in listing order. The position is shared across
// range loops, so a second loop resumes where the first one stopped.
func (d *ImgurListingData) links() iter.Seq[string] {
	next := 0
	return func(yield func(string) bool) {
		for next < len(d.Images) {
			link := d.Images[next].Link
			next++
			if !yield(link) {
				return
			}
		}
	}
}
