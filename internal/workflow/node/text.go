package node

import (
	"strings"
	"unicode/utf8"
)

const codeFence = "```"

// StripCodeFence 去掉模型输出外层的 Markdown 代码块包裹。
// 开头 ``` 之后紧跟的语言标记（json、JSON、js 等任意单词）一并去掉；
// 未包裹的文本只做 TrimSpace，因此对同一 JSON 正文结果一致。
func StripCodeFence(s string) string {
	text := strings.TrimSpace(s)
	if !strings.HasPrefix(text, codeFence) {
		return text
	}

	text = strings.TrimPrefix(text, codeFence)
	text = text[fenceTagLen(text):]
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, codeFence)
	return strings.TrimSpace(text)
}

// fenceTagLen 返回开头语言标记的字节长度；标记须以字母开头
func fenceTagLen(s string) int {
	if s == "" || !isASCIILetter(s[0]) {
		return 0
	}
	n := 0
	for n < len(s) && isFenceTagByte(s[n]) {
		n++
	}
	return n
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isFenceTagByte(b byte) bool {
	return isASCIILetter(b) || (b >= '0' && b <= '9') || b == '_' || b == '-' || b == '+'
}

func TruncateByRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i]
		}
		n++
	}
	return s
}
