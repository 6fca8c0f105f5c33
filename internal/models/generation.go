package models

// PromotionInfo is optional product/link metadata to be woven into generated
// social posts. It only takes effect when both fields are non-empty; partial
// promotion data is silently ignored.
type PromotionInfo struct {
	ProductName string `json:"product_name"`
	Link        string `json:"link"`
}

// Set reports whether the promotion carries both a product name and a link.
func (p *PromotionInfo) Set() bool {
	return p != nil && p.ProductName != "" && p.Link != ""
}

// Article is the long-form output of a generation: an H1 title plus a
// markdown body containing 2-4 H2 subheadings.
type Article struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// SocialPost is one short platform-targeted post.
type SocialPost struct {
	Platform string `json:"platform"`
	Content  string `json:"content"`
}

// GenerationResult is the canonical structured output returned by any
// provider: one article plus an ordered list of social posts. It is
// ephemeral and never persisted.
type GenerationResult struct {
	Article     Article      `json:"article"`
	SocialPosts []SocialPost `json:"socialPosts"`
}
