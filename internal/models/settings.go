package models

// StoreValue is one of the "our values" blocks on the about page.
type StoreValue struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// StoreSettings is the singleton store profile edited from the admin console.
type StoreSettings struct {
	WhatsAppNumber string       `json:"whatsappNumber"`
	StoreName      string       `json:"storeName"`
	Instagram      string       `json:"instagram"`
	Facebook       string       `json:"facebook"`
	TikTok         string       `json:"tiktok"`
	Address        string       `json:"address"`
	Mission        string       `json:"mission"`
	Vision         string       `json:"vision"`
	LogoURL        string       `json:"logoUrl"`
	BannerURL      string       `json:"bannerUrl"`
	AboutUs        string       `json:"aboutUs"`
	Values         []StoreValue `json:"values"`
}
