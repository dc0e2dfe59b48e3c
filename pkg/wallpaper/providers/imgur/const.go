package imgur

// imgurServiceName is the name of the imgur image service
const imgurServiceName = "Imgur"

// Imgur API URLs
const (
	ImgurHomeURL    = "https://imgur.com"
	ImgurAPIBaseURL = "https://api.imgur.com/3"

	// ImgurAPIURLTemplate takes the gallery kind ("a", "gallery", "album") and the gallery ID.
	ImgurAPIURLTemplate = ImgurAPIBaseURL + "/%s/%s" + imgurAPISuffix

	imgurAPISuffix = ".json"
)

// imgurTokenType is the Authorization scheme Imgur expects for anonymous API access.
const imgurTokenType = "Client-ID"

// maxListingBytes caps the size of a gallery listing response.
const maxListingBytes = 8 << 20
