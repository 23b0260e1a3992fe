// Package repl provides the interactive terminal chat and the scripted demo
// conversation for the ShoeMart chatbot.
package repl

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	prompt "github.com/c-bata/go-prompt"

	"shoemart/internal/service"
)

const separator = "============================================================"

var exitWords = map[string]bool{
	"quit":  true,
	"exit":  true,
	"thoát": true,
	"bye":   true,
}

// DemoQueries is the scripted demo conversation: a query and what it shows
var DemoQueries = []struct {
	Query       string
	Description string
}{
	{"Xin chào", "Lời chào"},
	{"Xem tất cả sản phẩm", "Hiển thị toàn bộ database"},
	{"Nike", "Tìm kiếm thương hiệu"},
	{"giày thể thao", "Tìm theo danh mục"},
	{"sản phẩm bán chạy", "Top sản phẩm hot"},
	{"giày dưới 2 triệu", "Lọc theo giá"},
	{"thống kê bán hàng", "Báo cáo doanh thu"},
	{"help", "Xem tất cả tính năng"},
	{"cảm ơn", "Kết thúc"},
}

// Session drives one terminal conversation
type Session struct {
	ctx  context.Context
	bot  *service.ChatBot
	name string
	out  io.Writer
	done bool
}

// NewSession creates a terminal session writing replies to out
func NewSession(ctx context.Context, bot *service.ChatBot, name string, out io.Writer) *Session {
	return &Session{ctx: ctx, bot: bot, name: name, out: out}
}

// Execute handles one line of input. It returns false once the user has
// asked to leave.
func (s *Session) Execute(in string) bool {
	if s.done {
		return false
	}

	in = strings.TrimSpace(in)
	if IsExit(in) {
		s.printReply(s.bot.GetResponse(s.ctx, "cảm ơn"))
		fmt.Fprintln(s.out, "\n👋 Cảm ơn bạn đã sử dụng ShoeMart ChatBot!")
		s.done = true
		return false
	}

	if in == "" {
		s.printReply("Bạn có muốn hỏi gì không? 😊")
		return true
	}

	s.printReply(s.bot.Chat(s.ctx, in).Text)
	return true
}

// Done reports whether the user has left
func (s *Session) Done() bool {
	return s.done
}

func (s *Session) printReply(text string) {
	fmt.Fprintf(s.out, "\n🤖 %s:\n%s\n", s.name, text)
}

// IsExit reports whether in is one of the words that end the chat
func IsExit(in string) bool {
	return exitWords[strings.ToLower(strings.TrimSpace(in))]
}

// Start runs the interactive chat until an exit word is entered
func Start(ctx context.Context, bot *service.ChatBot, name string, online bool) {
	session := NewSession(ctx, bot, name, os.Stdout)

	fmt.Println("💬 CHẾ ĐỘ TƯƠNG TÁC - ShoeMart ChatBot")
	fmt.Println(separator)
	if online {
		fmt.Println("✅ Database: Đã kết nối - Dữ liệu real-time")
	} else {
		fmt.Println("⚠️ Database: Chế độ offline - Dữ liệu mẫu")
	}
	fmt.Println("\n💡 Gợi ý câu hỏi:")
	fmt.Println("• 'xem tất cả sản phẩm'")
	fmt.Println("• 'Nike' hoặc 'Adidas'")
	fmt.Println("• 'giày dưới 2 triệu'")
	fmt.Println("• 'sản phẩm bán chạy'")
	fmt.Println("• 'help' - xem tất cả tính năng")
	fmt.Println("\nGõ 'quit' để thoát")
	fmt.Println(separator)

	session.printReply(bot.GetResponse(ctx, "xin chào"))

	p := prompt.New(
		func(in string) {
			session.Execute(in)
		},
		completer,
		prompt.OptionPrefix("👤 Bạn: "),
		prompt.OptionTitle("ShoeMart ChatBot"),
		prompt.OptionSetExitCheckerOnInput(func(in string, breakline bool) bool {
			return breakline && session.Done()
		}),
	)
	p.Run()
}

// RunDemo plays the scripted demo conversation against bot
func RunDemo(ctx context.Context, bot *service.ChatBot, name string, out io.Writer) {
	fmt.Fprintln(out, "🎬 DEMO TỰ ĐỘNG - ShoeMart ChatBot")
	fmt.Fprintln(out, separator)

	for i, step := range DemoQueries {
		fmt.Fprintf(out, "\n📝 Demo %d: %s\n", i+1, step.Description)
		fmt.Fprintf(out, "👤 User: %s\n", step.Query)
		fmt.Fprintln(out, strings.Repeat("-", 50))
		fmt.Fprintf(out, "🤖 %s:\n%s\n", name, bot.Chat(ctx, step.Query).Text)
		fmt.Fprintln(out, "\n"+separator)
	}

	fmt.Fprintln(out, "✅ Demo hoàn thành!")
}

func completer(d prompt.Document) []prompt.Suggest {
	s := []prompt.Suggest{
		{Text: "xem tất cả sản phẩm", Description: "Toàn bộ sản phẩm"},
		{Text: "tìm giày nike", Description: "Tìm theo từ khóa"},
		{Text: "giày thể thao", Description: "Tìm theo danh mục"},
		{Text: "giày dưới 2 triệu", Description: "Lọc theo giá"},
		{Text: "sản phẩm bán chạy", Description: "Top sản phẩm hot"},
		{Text: "thống kê bán hàng", Description: "Báo cáo doanh thu"},
		{Text: "chi tiết sản phẩm 1", Description: "Chi tiết theo mã"},
		{Text: "help", Description: "Xem tất cả tính năng"},
		{Text: "quit", Description: "Thoát"},
	}
	return prompt.FilterHasPrefix(s, d.TextBeforeCursor(), true)
}
