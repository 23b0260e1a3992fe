package service

import (
	"fmt"
	"strconv"
	"strings"

	"shoemart/internal/model"
	"shoemart/internal/utils"
)

// Fixed replies that are not drawn from a pool
const (
	MsgEmptyInput      = "Bạn có thể hỏi tôi bất cứ điều gì về sản phẩm ShoeMart! 😊"
	MsgSearchPrompt    = "🔍 Vui lòng nhập từ khóa tìm kiếm cụ thể hơn. Ví dụ: 'Nike', 'Adidas', 'boots'..."
	MsgPricePrompt     = "💰 Vui lòng cho biết khoảng giá cụ thể. Ví dụ: 'giày dưới 2 triệu', 'từ 1 đến 3 triệu'"
	MsgDetailPrompt    = "📝 Bạn muốn xem chi tiết sản phẩm nào? Hãy gửi mã sản phẩm (ví dụ: 'chi tiết sản phẩm 3') hoặc tên sản phẩm."
	MsgQueryFailed     = "💥 Có lỗi xảy ra khi truy vấn dữ liệu."
	MsgApology         = "😅 Xin lỗi, có lỗi xảy ra. Vui lòng thử lại!"
	MsgNoSalesData     = "📊 Chưa có dữ liệu bán hàng."
	MsgNoPopularData   = "📊 Chưa có dữ liệu bán hàng để thống kê sản phẩm hot."
	MsgOfflineLabel    = "chế độ offline"
	MsgOfflineFootnote = "⚠️ *Dữ liệu hiển thị ở chế độ offline. Kết nối database để có thông tin mới nhất.*"

	descriptionPreview = 100
)

// FormatPrice renders a VND amount with dot thousand separators, e.g. "3.200.000 VNĐ"
func FormatPrice(price float64) string {
	n := int64(price)
	if n < 1000 {
		return fmt.Sprintf("%d VNĐ", n)
	}

	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	b.WriteString(" VNĐ")
	return b.String()
}

// formatProductList renders at most maxDisplay products under title and
// tells how many were left out. products must not be empty.
func formatProductList(products []model.Product, title string, maxDisplay int) string {
	var b strings.Builder

	if title == "" {
		title = "Sản phẩm tìm thấy:"
	}
	fmt.Fprintf(&b, "🛍️ **%s**\n", title)
	fmt.Fprintf(&b, "📦 Có %d sản phẩm phù hợp\n\n", len(products))

	shown := products
	if maxDisplay > 0 && len(shown) > maxDisplay {
		shown = shown[:maxDisplay]
	}

	for i, p := range shown {
		fmt.Fprintf(&b, "**%d. %s**\n", i+1, p.Name)
		fmt.Fprintf(&b, "   💰 Giá: %s\n", FormatPrice(p.Price))
		fmt.Fprintf(&b, "   🏷️ Loại: %s\n", p.Category)
		if p.Description != "" {
			fmt.Fprintf(&b, "   📝 %s\n", utils.Truncate(p.Description, descriptionPreview))
		}
		b.WriteString("\n")
	}

	if hidden := len(products) - len(shown); hidden > 0 {
		fmt.Fprintf(&b, "... và %d sản phẩm khác.\n", hidden)
		b.WriteString("Hãy thử tìm kiếm cụ thể hơn để xem đầy đủ!\n")
	}

	return b.String()
}

func formatOfflineResults(term string, products []model.Product) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🛍️ **Kết quả tìm kiếm '%s' (%s):**\n", term, MsgOfflineLabel)
	fmt.Fprintf(&b, "📦 Có %d sản phẩm phù hợp\n\n", len(products))
	for i, p := range products {
		fmt.Fprintf(&b, "**%d. %s**\n", i+1, p.Name)
		fmt.Fprintf(&b, "   💰 Giá: %s\n", FormatPrice(p.Price))
		fmt.Fprintf(&b, "   🏷️ Loại: %s\n", p.Category)
		fmt.Fprintf(&b, "   📝 %s\n\n", p.Description)
	}
	b.WriteString(MsgOfflineFootnote)

	return b.String()
}

func formatOfflineNoResults(term string) string {
	return fmt.Sprintf("🔍 Không tìm thấy sản phẩm nào với từ khóa '%s' trong dữ liệu offline (%s).\n\nGợi ý: Thử 'Nike', 'Adidas', 'sneakers', 'boots'", term, MsgOfflineLabel)
}

func formatSearchNoResults(term string) string {
	return fmt.Sprintf("🔍 Không tìm thấy sản phẩm nào với từ khóa '%s'\n\nGợi ý: Thử tìm theo thương hiệu (Nike, Adidas) hoặc loại giày (sneakers, boots)", term)
}

func formatPriceTitle(r model.PriceRange) string {
	if r.Unbounded() {
		return fmt.Sprintf("Sản phẩm từ %s trở lên:", FormatPrice(r.Min))
	}
	return fmt.Sprintf("Sản phẩm từ %s đến %s:", FormatPrice(r.Min), FormatPrice(r.Max))
}

func formatPopular(products []model.PopularProduct) string {
	var b strings.Builder

	b.WriteString("🔥 **TOP SẢN PHẨM BÁN CHẠY:**\n\n")
	for i, p := range products {
		fmt.Fprintf(&b, "**%d. %s**\n", i+1, p.Name)
		fmt.Fprintf(&b, "   💰 %s\n", FormatPrice(p.Price))
		fmt.Fprintf(&b, "   📊 Đã bán: %d đôi\n", p.SoldCount)
		fmt.Fprintf(&b, "   🏷️ %s\n\n", p.Category)
	}

	return b.String()
}

func formatStatistics(stats []model.CategorySales) string {
	var b strings.Builder
	var total float64

	b.WriteString("📊 **THỐNG KÊ BÁN HÀNG THEO DANH MỤC:**\n\n")
	for _, s := range stats {
		category := s.Category
		if category == "" {
			category = "Unknown"
		}
		total += s.Revenue

		fmt.Fprintf(&b, "🏷️ **%s:**\n", category)
		fmt.Fprintf(&b, "   📦 Số lượng bán: %d đôi\n", s.TotalSold)
		fmt.Fprintf(&b, "   💰 Doanh thu: %s\n\n", FormatPrice(s.Revenue))
	}
	fmt.Fprintf(&b, "💎 **Tổng doanh thu: %s**", FormatPrice(total))

	return b.String()
}

func formatProductDetail(p *model.Product, similar []model.Product) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📝 **CHI TIẾT SẢN PHẨM #%d**\n\n", p.ID)
	fmt.Fprintf(&b, "👟 **%s**\n", p.Name)
	fmt.Fprintf(&b, "💰 Giá: %s\n", FormatPrice(p.Price))
	fmt.Fprintf(&b, "🏷️ Loại: %s\n", p.Category)
	if p.Description != "" {
		fmt.Fprintf(&b, "📄 %s\n", p.Description)
	}
	if p.ImageURL != "" {
		fmt.Fprintf(&b, "🖼️ %s\n", p.ImageURL)
	}

	if len(similar) > 0 {
		b.WriteString("\n✨ **Sản phẩm tương tự:**\n")
		for _, s := range similar {
			fmt.Fprintf(&b, "• #%d %s - %s\n", s.ID, s.Name, FormatPrice(s.Price))
		}
	}

	return b.String()
}

func formatProductNotFound(id int64) string {
	return fmt.Sprintf("🔍 Không tìm thấy sản phẩm có mã #%d.", id)
}
