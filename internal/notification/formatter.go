package notification

import (
	"math"
	"strconv"
	"strings"

	"github.com/Lixing-Zhang/flytire/backend/internal/models"
	"github.com/shopspring/decimal"
)

// Placeholder is rendered for missing or unusable values.
const Placeholder = "—"

// TestMessage is sent by the connectivity check endpoint.
const TestMessage = "✅ Test message from FlyTire backend"

// Telegram HTML mode only requires these three to be escaped outside tags.
var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeHTML escapes text for a message sent with parse_mode=HTML.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// Format renders an order as an operator notification in Telegram HTML.
func Format(order models.OrderRecord) string {
	var b strings.Builder

	b.WriteString("🛞 <b>NEW ORDER</b>\n\n")
	line(&b, "🧾 Order", "<b>"+text(order.OrderID)+"</b>")
	line(&b, "🕒 Date", text(order.OrderDateTime))
	b.WriteString("\n")
	line(&b, "Tire", text(order.Tire))
	line(&b, "Size", text(strings.TrimSpace(order.Size+" "+order.LoadIndex)))
	line(&b, "Price", money(order.Price))
	line(&b, "Quantity", count(order.Quantity))
	line(&b, "Total", money(order.Total))
	line(&b, "Available", strconv.Itoa(max(order.Available, 0)))
	b.WriteString("\n")
	line(&b, "👤 Customer", text(order.Customer))
	line(&b, "📞 Phone", text(order.Phone))

	return strings.TrimRight(b.String(), "\n")
}

func line(b *strings.Builder, label, value string) {
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}

func text(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Placeholder
	}
	return EscapeHTML(s)
}

func money(n models.Number) string {
	if !n.Finite() {
		return Placeholder
	}
	return decimal.NewFromFloat(n.Value).StringFixed(2) + " $"
}

func count(n models.Number) string {
	if !n.Finite() {
		return Placeholder
	}
	return strconv.FormatInt(int64(math.Trunc(n.Value)), 10)
}
