package reply

import "encoding/json"

// defaultText mirrors the shop's original plain-text quote card.
const defaultText = `📅 {DATE}（{WEEKDAY}）{TIME}
🔸 飾金賣出：{GOLD_SELL} 元/錢
🔹 飾金買入：{GOLD_BUY} 元/錢
⚪ 鉑金賣出：{PT_SELL} 元/錢
⚪ 鉑金買入：{PT_BUY} 元/錢
🪙 條金參考：{BAR_GOLD} 元/錢`

// defaultFlex is the nested card layout used when no template file is
// configured. Placeholders follow the same {NAME} convention as the text
// body.
const defaultFlex = `{
  "type": "bubble",
  "header": {
    "type": "box",
    "layout": "vertical",
    "contents": [
      {"type": "text", "text": "今日金價報價", "weight": "bold", "size": "lg"},
      {"type": "text", "text": "{DATE}（{WEEKDAY}）{TIME}", "size": "sm", "color": "#888888"}
    ]
  },
  "body": {
    "type": "box",
    "layout": "vertical",
    "spacing": "sm",
    "contents": [
      {"type": "box", "layout": "baseline", "contents": [
        {"type": "text", "text": "飾金賣出", "flex": 2, "color": "#555555"},
        {"type": "text", "text": "{GOLD_SELL} 元/錢", "flex": 3, "align": "end"}
      ]},
      {"type": "box", "layout": "baseline", "contents": [
        {"type": "text", "text": "飾金買入", "flex": 2, "color": "#555555"},
        {"type": "text", "text": "{GOLD_BUY} 元/錢", "flex": 3, "align": "end"}
      ]},
      {"type": "box", "layout": "baseline", "contents": [
        {"type": "text", "text": "鉑金賣出", "flex": 2, "color": "#555555"},
        {"type": "text", "text": "{PT_SELL} 元/錢", "flex": 3, "align": "end"}
      ]},
      {"type": "box", "layout": "baseline", "contents": [
        {"type": "text", "text": "鉑金買入", "flex": 2, "color": "#555555"},
        {"type": "text", "text": "{PT_BUY} 元/錢", "flex": 3, "align": "end"}
      ]},
      {"type": "separator"},
      {"type": "box", "layout": "baseline", "contents": [
        {"type": "text", "text": "條金參考", "flex": 2, "color": "#555555"},
        {"type": "text", "text": "{BAR_GOLD} 元/錢", "flex": 3, "align": "end"}
      ]}
    ]
  },
  "footer": {
    "type": "box",
    "layout": "vertical",
    "contents": [
      {"type": "text", "text": "{VARIANT}", "size": "xs", "color": "#aaaaaa", "align": "center"}
    ]
  }
}`

// Default returns the built-in quote card template.
func Default(sentinel string) *Template {
	return &Template{
		AltText:  "今日金價報價 {DATE}",
		Text:     defaultText,
		Flex:     json.RawMessage(defaultFlex),
		sentinel: sentinel,
	}
}
