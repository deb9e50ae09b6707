package grading

import (
	"strings"
	"unicode"
)

type bigram [2]rune

// Similarity 返回两个字符串字符二元组的 Dice 系数，取值 [0,1]。
// 调用方负责先做 Normalize；空白字符（unicode.IsSpace）在比较前全部去除。
//
// 与 string-similarity 的 compareTwoStrings 的差异：这里按 rune 切二元组，compareTwoStrings
// 按 UTF-16 码元切，并且它的 \s 还会去掉 U+FEFF。两者只在 BMP 之外的字符
// （emoji 等代理对）或 U+FEFF 上结果不同，BMP 内的中文、重音字母等一致。
func Similarity(a, b string) float64 {
	ar := stripSpace(a)
	br := stripSpace(b)

	if string(ar) == string(br) {
		return 1
	}
	if len(ar) < 2 || len(br) < 2 {
		return 0
	}

	counts := make(map[bigram]int, len(ar)-1)
	for i := 0; i < len(ar)-1; i++ {
		counts[bigram{ar[i], ar[i+1]}]++
	}

	shared := 0
	for i := 0; i < len(br)-1; i++ {
		k := bigram{br[i], br[i+1]}
		if counts[k] > 0 {
			counts[k]--
			shared++
		}
	}

	return 2 * float64(shared) / float64(len(ar)+len(br)-2)
}

// Normalize 转小写并去掉首尾空白
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func stripSpace(s string) []rune {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if !unicode.IsSpace(r) {
			out = append(out, r)
		}
	}
	return out
}
