package ai

import (
	"fmt"
	"strings"

	"github.com/typelesshq/typeless/internal/models"
)

// systemPrompt carries the editorial rules and the required JSON output
// shape. It is identical for every provider; only the transport differs.
const systemPrompt = `你是一位專業的內容編輯與 SEO 專家。你的任務是將使用者提供的「碎片化靈感」整理成結構完整的文章和社群貼文。

請嚴格遵守以下規則：
1. **語氣保留**：輸出的文章必須保留使用者原始輸入的「口語感」與「個人風格」，僅做錯別字修正與過場連接，不可過度修飾成機器人語氣。
2. **SEO 文章結構**：
   - 必須包含一個 H1 主標題
   - 必須包含 2-4 個 H2 副標題
   - 段落要通順有邏輯
   - 控制在 800-1500 字左右
3. **社群貼文**：
   - 生成 4-6 篇短貼文
   - 適合 Facebook、Threads、Instagram
   - 每篇 100-200 字
   - 分段清晰，適合手機閱讀
   - 可以使用 emoji 增加吸引力

請以 JSON 格式回傳結果，格式如下：
{
  "article": {
    "title": "H1 主標題",
    "content": "完整的 Markdown 文章內容（包含 ## H2 標籤）"
  },
  "socialPosts": [
    {
      "platform": "Facebook",
      "content": "貼文內容"
    }
  ]
}`

// BuildUserPrompt serializes fragments (and an optional promotion) into the
// user-facing half of the prompt: a fixed lead-in sentence followed by each
// fragment as a numbered 【碎片 N】 block, in input order starting at 1.
// Fragment content is never truncated.
//
// The promotion block is appended iff both product name and link are
// non-empty; partial promotion data is silently dropped, so the output is
// byte-identical to the no-promotion case.
//
// Pure function: deterministic given identical input, no side effects.
// Callers are expected to reject an empty fragment list before building.
func BuildUserPrompt(fragments []models.Fragment, promotion *models.PromotionInfo) string {
	var b strings.Builder
	b.WriteString("以下是我的靈感碎片，請幫我整理成文章和社群貼文：\n\n")

	for i, f := range fragments {
		fmt.Fprintf(&b, "【碎片 %d】\n%s\n\n", i+1, f.Content)
	}

	if promotion.Set() {
		b.WriteString("\n---\n導購資訊：\n")
		fmt.Fprintf(&b, "產品/服務名稱：%s\n", promotion.ProductName)
		fmt.Fprintf(&b, "推廣連結：%s\n", promotion.Link)
		b.WriteString("請在社群貼文中自然地融入這個推廣連結。\n")
	}

	return b.String()
}
